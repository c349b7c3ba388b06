package config

import (
	"errors"
	"fmt"

	"github.com/es-debug/nginx-latency-report/internal/scanner"
	"github.com/es-debug/nginx-latency-report/internal/stats"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogDir == "" {
		errs = append(errs, ValidationError{Field: KeyLogDir, Message: "must not be empty"})
	}

	if cfg.ReportDir == "" {
		errs = append(errs, ValidationError{Field: KeyReportDir, Message: "must not be empty"})
	}

	if _, err := scanner.ParseTemplate(cfg.LogGlob); err != nil {
		errs = append(errs, ValidationError{Field: KeyLogGlob, Message: err.Error()})
	}

	if _, err := scanner.ParseTemplate(cfg.ReportGlob); err != nil {
		errs = append(errs, ValidationError{Field: KeyReportGlob, Message: err.Error()})
	}

	if cfg.Verbose < 0 || cfg.Verbose > 2 {
		errs = append(errs, ValidationError{Field: KeyVerbose, Message: "must be 0, 1 or 2"})
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, ValidationError{
			Field:   KeyLogFormat,
			Message: fmt.Sprintf("must be text or json (got %q)", cfg.LogFormat),
		})
	}

	if cfg.Workers < 1 {
		errs = append(errs, ValidationError{Field: KeyWorkers, Message: "must be at least 1"})
	}

	if _, err := stats.ParseDistributionKind(cfg.Median); err != nil {
		errs = append(errs, ValidationError{Field: KeyMedian, Message: err.Error()})
	}

	if !(cfg.ErrorThreshold >= 0 && cfg.ErrorThreshold <= 1) {
		errs = append(errs, ValidationError{Field: KeyErrorThreshold, Message: "must be within [0, 1]"})
	}

	return errors.Join(errs...)
}
