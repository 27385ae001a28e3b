package cli

import (
	"fmt"
	"io"
)

func Help(program string, stdout io.Writer) {
	Version(stdout)
	fmt.Fprintf(stdout, "Usage: \"%s [-Options...] File|Directory [more...]\"\n", program)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Inputs may be video files, directories to scan, or disc roots")
	fmt.Fprintln(stdout, "(VIDEO_TS / BDMV layouts).")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Options:")
	fmt.Fprintln(stdout, "--Help, -h")
	fmt.Fprintln(stdout, "                    Display this help and exit")
	fmt.Fprintln(stdout, "--Version")
	fmt.Fprintln(stdout, "                    Display version information and exit")
	fmt.Fprintln(stdout, "--Ratios=LIST")
	fmt.Fprintln(stdout, "                    Comma-separated accepted aspect ratios, each \"W:H\" or decimal")
	fmt.Fprintln(stdout, "                    (default \"1.33, 1.78, 1.85, 2.00, 2.20, 2.35, 2.37, 2.39, 2.40\")")
	fmt.Fprintln(stdout, "--Checks=N")
	fmt.Fprintln(stdout, "                    Cropdetect sample points per video (default 10, minimum 3)")
	fmt.Fprintln(stdout, "--Override")
	fmt.Fprintln(stdout, "                    Re-detect items that already carry an aspect ratio")
	fmt.Fprintln(stdout, "--Always-Write")
	fmt.Fprintln(stdout, "                    Write even when the result matches the stream ratio")
	fmt.Fprintln(stdout, "--Output=TEXT|JSON")
	fmt.Fprintln(stdout, "                    Select output format (default TEXT)")
	fmt.Fprintln(stdout, "--DB=PATH")
	fmt.Fprintln(stdout, "                    Persist results into a catalog database at PATH")
	fmt.Fprintln(stdout, "--FFmpeg=PATH, --FFprobe=PATH")
	fmt.Fprintln(stdout, "                    Decoder/inspector binaries (default: from $PATH)")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Environment: ASPECTRATIO_RATIOS, ASPECTRATIO_CHECKS, ASPECTRATIO_DB,")
	fmt.Fprintln(stdout, "ASPECTRATIO_FFMPEG, ASPECTRATIO_FFPROBE (a .env file is honored)")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Commands:")
	fmt.Fprintln(stdout, "completion           Generate the autocompletion script for the specified shell")
	fmt.Fprintln(stdout, "help                 Help about any command")
	fmt.Fprintln(stdout, "version              Print go-aspectratio version information")
	fmt.Fprintln(stdout, "update               Update aspectratio to latest version (release builds only)")
}

func HelpNothing(program string, stdout io.Writer) {
	fmt.Fprintf(stdout, "Usage: \"%s [-Options...] File|Directory [more...]\"\n", program)
	fmt.Fprintf(stdout, "\"%s --help\" for displaying more information\n", program)
}

func Usage(program string, stdout io.Writer) int {
	HelpNothing(program, stdout)
	return exitError
}
