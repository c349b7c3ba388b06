// Package config holds the analyzer settings and the key/value file format
// they are read from.
package config

// Default is the built-in configuration; a config file and the command line
// override it key by key.
const Default = `
# number of URLs in the report
REPORT_SIZE: 1000
REPORT_DIR: ./reports
LOG_DIR: ./log
# 0 errors only, 1 info, 2 debug
VERBOSE: 0
LOG_GLOB: nginx-access-ui.log-%Y%m%d
REPORT_GLOB: report-%Y.%m.%d.html
ALLOW_EXTENSIONS: gz, bz2
# empty means the built-in template
REPORT_TEMPLATE:
# empty means stderr
JOURNAL:
LOG_FORMAT: text
WORKERS: 1
# exact or tdigest
MEDIAN: exact
# fail when more than this share of lines cannot be parsed
ERROR_THRESHOLD: 0.5
METRICS_FILE:
`

const (
	KeyReportSize     = "report_size"
	KeyReportDir      = "report_dir"
	KeyLogDir         = "log_dir"
	KeyVerbose        = "verbose"
	KeyLogGlob        = "log_glob"
	KeyReportGlob     = "report_glob"
	KeyAllowExts      = "allow_extensions"
	KeyReportTemplate = "report_template"
	KeyJournal        = "journal"
	KeyLogFormat      = "log_format"
	KeyWorkers        = "workers"
	KeyMedian         = "median"
	KeyErrorThreshold = "error_threshold"
	KeyMetricsFile    = "metrics_file"
)

type Config struct {
	ReportSize     int      `json:"report_size"`
	ReportDir      string   `json:"report_dir"`
	LogDir         string   `json:"log_dir"`
	Verbose        int      `json:"verbose"`
	LogGlob        string   `json:"log_glob"`
	ReportGlob     string   `json:"report_glob"`
	AllowExts      []string `json:"allow_extensions"`
	ReportTemplate string   `json:"report_template"`
	Journal        string   `json:"journal"`
	LogFormat      string   `json:"log_format"`
	Workers        int      `json:"workers"`
	Median         string   `json:"median"`
	ErrorThreshold float64  `json:"error_threshold"`
	MetricsFile    string   `json:"metrics_file"`
}

// DefaultConfig returns the configuration described by Default.
func DefaultConfig() *Config {
	values, err := Parse(Default)
	if err != nil {
		panic("config: invalid built-in configuration: " + err.Error())
	}

	cfg := &Config{}
	if err := cfg.Apply(values); err != nil {
		panic("config: invalid built-in configuration: " + err.Error())
	}

	return cfg
}
