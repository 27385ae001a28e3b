package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/autobrr/go-aspectratio/internal/reconcile"
)

const (
	exitOK    = 0
	exitError = 1
)

type Options struct {
	Ratios      string
	Checks      int
	Override    bool
	AlwaysWrite bool
	Output      string
	DBPath      string
	FFmpegBin   string
	FFprobeBin  string
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return exitError
	}

	program := programName(args[0])
	opts := optionsFromEnv()
	inputs := make([]string, 0)

	for i := 1; i < len(args); i++ {
		original := args[i]
		normalized := normalizeArg(original)

		switch {
		case normalized == "--help" || normalized == "-h":
			Help(program, stdout)
			return exitOK
		case normalized == "--version":
			Version(stdout)
			return exitOK
		case strings.HasPrefix(normalized, "--ratios="):
			if value, ok := valueAfterEqual(original); ok {
				opts.Ratios = value
			}
		case strings.HasPrefix(normalized, "--checks="):
			value, _ := valueAfterEqual(original)
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				fmt.Fprintf(stderr, "invalid --checks value: %q\n", value)
				return exitError
			}
			opts.Checks = n
		case normalized == "--override":
			opts.Override = true
		case normalized == "--always-write":
			opts.AlwaysWrite = true
		case strings.HasPrefix(normalized, "--output="):
			if value, ok := valueAfterEqual(original); ok {
				opts.Output = value
			}
		case strings.HasPrefix(normalized, "--db="):
			if value, ok := valueAfterEqual(original); ok {
				opts.DBPath = value
			}
		case strings.HasPrefix(normalized, "--ffmpeg="):
			if value, ok := valueAfterEqual(original); ok {
				opts.FFmpegBin = value
			}
		case strings.HasPrefix(normalized, "--ffprobe="):
			if value, ok := valueAfterEqual(original); ok {
				opts.FFprobeBin = value
			}
		case strings.HasPrefix(normalized, "--"):
			fmt.Fprintf(stderr, "unknown option: %s\n", original)
			return exitError
		default:
			inputs = append(inputs, original)
		}
	}

	if len(inputs) == 0 {
		return Usage(program, stdout)
	}
	if opts.Output != "" && !strings.EqualFold(opts.Output, "Text") && !strings.EqualFold(opts.Output, "JSON") {
		fmt.Fprintf(stderr, "output format not implemented: %s\n", opts.Output)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runCore(ctx, opts, inputs, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	if strings.EqualFold(opts.Output, "JSON") {
		fmt.Fprintln(stdout, renderJSON(report))
	} else {
		fmt.Fprint(stdout, renderText(report))
	}

	if len(report.Items) > 0 {
		return exitOK
	}
	return exitError
}

// optionsFromEnv seeds the defaults each flag can override. A .env file in
// the working directory is honored (loaded by the entry point).
func optionsFromEnv() Options {
	opts := Options{
		Ratios:     os.Getenv("ASPECTRATIO_RATIOS"),
		DBPath:     os.Getenv("ASPECTRATIO_DB"),
		FFmpegBin:  os.Getenv("ASPECTRATIO_FFMPEG"),
		FFprobeBin: os.Getenv("ASPECTRATIO_FFPROBE"),
	}
	if value := os.Getenv("ASPECTRATIO_CHECKS"); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			opts.Checks = n
		}
	}
	return opts
}

func (o Options) config() reconcile.Config {
	cfg := reconcile.DefaultConfig()
	if o.Ratios != "" {
		cfg.AcceptedAspectRatios = o.Ratios
	}
	if o.Checks != 0 {
		cfg.ChecksPerVideo = o.Checks
	}
	cfg.AlwaysWrite = o.AlwaysWrite
	cfg.OverrideExisting = o.Override
	return cfg
}

func programName(arg0 string) string {
	name := filepath.Base(arg0)
	if runtime.GOOS == "windows" {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func normalizeArg(arg string) string {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		eq = len(arg)
	}

	lower := strings.ToLower(arg[:eq])
	return lower + arg[eq:]
}

func valueAfterEqual(arg string) (string, bool) {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		return "", false
	}
	return arg[eq+1:], true
}
