package reporter

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/es-debug/nginx-latency-report/internal/config"
)

const (
	defaultConfigPath = "/usr/local/etc/nginx_latency_report.conf"
	maxVerbosity      = 2
)

type cmdFlags struct {
	configPath     string
	configExplicit bool
	help           bool
	overrides      config.Values
}

// flagKeys maps every flag that overrides a config key to that key. -v and
// -vv are handled separately and win over -verbose.
var flagKeys = map[string]string{
	"verbose":         config.KeyVerbose,
	"log-dir":         config.KeyLogDir,
	"L":               config.KeyLogDir,
	"report-dir":      config.KeyReportDir,
	"R":               config.KeyReportDir,
	"report-size":     config.KeyReportSize,
	"S":               config.KeyReportSize,
	"journal":         config.KeyJournal,
	"j":               config.KeyJournal,
	"report-glob":     config.KeyReportGlob,
	"log-glob":        config.KeyLogGlob,
	"allow-extension": config.KeyAllowExts,
	"template":        config.KeyReportTemplate,
	"workers":         config.KeyWorkers,
	"w":               config.KeyWorkers,
	"median":          config.KeyMedian,
	"metrics-file":    config.KeyMetricsFile,
	"log-format":      config.KeyLogFormat,
	"error-threshold": config.KeyErrorThreshold,
}

func readCMDFlags(args []string, output io.Writer) (cmdFlags, error) {
	var (
		configPath     string
		verbose        string
		verbosity      int
		logDir         string
		reportDir      string
		reportSize     string
		journal        string
		reportGlob     string
		logGlob        string
		allowExts      string
		template       string
		workers        string
		median         string
		metricsFile    string
		logFormat      string
		errorThreshold string
		help           bool
	)

	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&configPath, "config", defaultConfigPath, "configuration file path")
	fs.StringVar(&configPath, "F", defaultConfigPath, "configuration file path")

	fs.StringVar(&verbose, "verbose", "", "verbosity level: 0 errors, 1 info, 2 debug")
	fs.Var(&countFlag{count: &verbosity, step: 1}, "v", "log info messages, repeat for debug")
	fs.Var(&countFlag{count: &verbosity, step: 2}, "vv", "log debug messages")

	fs.StringVar(&logDir, "log-dir", "", "directory with nginx logs")
	fs.StringVar(&logDir, "L", "", "directory with nginx logs")

	fs.StringVar(&reportDir, "report-dir", "", "directory for HTML reports")
	fs.StringVar(&reportDir, "R", "", "directory for HTML reports")

	fs.StringVar(&reportSize, "report-size", "", "number of URLs in the report")
	fs.StringVar(&reportSize, "S", "", "number of URLs in the report")

	fs.StringVar(&journal, "journal", "", "file for the program log, stderr by default")
	fs.StringVar(&journal, "j", "", "file for the program log, stderr by default")

	fs.StringVar(&reportGlob, "report-glob", "", "report file name, strftime directives allowed")
	fs.StringVar(&logGlob, "log-glob", "", "log file name, strftime directives allowed")
	fs.StringVar(&allowExts, "allow-extension", "", "compressed log extensions, like gz,bz2")
	fs.StringVar(&template, "template", "", "HTML template for the report")

	fs.StringVar(&workers, "workers", "", "number of parsing goroutines")
	fs.StringVar(&workers, "w", "", "number of parsing goroutines")

	fs.StringVar(&median, "median", "", "median mode: exact or tdigest")
	fs.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	fs.StringVar(&logFormat, "log-format", "", "program log format: text or json")
	fs.StringVar(&errorThreshold, "error-threshold", "", "max share of unparsable lines")

	fs.BoolVar(&help, "help", false, "commands info")
	fs.BoolVar(&help, "h", false, "commands info")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cmdFlags{help: true}, nil
		}

		return cmdFlags{}, fmt.Errorf("parse flags: %w", err)
	}

	if help {
		fs.Usage()

		return cmdFlags{help: true}, nil
	}

	if fs.NArg() > 0 {
		return cmdFlags{}, NewErrFlag(fmt.Sprintf("unexpected arguments: %v", fs.Args()))
	}

	flags := cmdFlags{
		configPath: configPath,
		overrides:  make(config.Values),
	}

	var counted *countFlag

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "F" {
			flags.configExplicit = true
		}

		if c, ok := f.Value.(*countFlag); ok {
			counted = c

			return
		}

		if key, ok := flagKeys[f.Name]; ok {
			flags.overrides[key] = f.Value.String()
		}
	})

	if counted != nil {
		flags.overrides[config.KeyVerbose] = counted.String()
	}

	return flags, nil
}

// countFlag is a boolean flag that raises a verbosity level each time it is
// given: -v -v and -vv both mean debug.
type countFlag struct {
	count *int
	step  int
}

func (c *countFlag) String() string {
	if c.count == nil {
		return "0"
	}

	return strconv.Itoa(min(*c.count, maxVerbosity))
}

func (c *countFlag) Set(value string) error {
	on, err := strconv.ParseBool(value)
	if err != nil {
		return NewErrFlag(fmt.Sprintf("verbosity flag: %q is not a boolean", value))
	}

	if on {
		*c.count += c.step
	} else {
		*c.count = 0
	}

	return nil
}

func (c *countFlag) IsBoolFlag() bool {
	return true
}
