package reporter

import "fmt"

type ErrLogDir struct {
	path string
}

func NewErrLogDir(path string) ErrLogDir {
	return ErrLogDir{
		path: path,
	}
}

func (e ErrLogDir) Error() string {
	return fmt.Sprintf("log dir %q does not exist or is not a directory", e.path)
}

type ErrReportDir struct {
	path string
}

func NewErrReportDir(path string) ErrReportDir {
	return ErrReportDir{
		path: path,
	}
}

func (e ErrReportDir) Error() string {
	return fmt.Sprintf("report dir %q exists and is not a directory", e.path)
}

type ErrFlag struct {
	msg string
}

func NewErrFlag(msg string) ErrFlag {
	return ErrFlag{
		msg: msg,
	}
}

func (e ErrFlag) Error() string {
	return e.msg
}

// ErrTooManyBadLines means the log does not look like the expected format.
type ErrTooManyBadLines struct {
	Ratio     float64
	Threshold float64
}

func (e ErrTooManyBadLines) Error() string {
	return fmt.Sprintf("%.1f%% of lines could not be parsed, threshold is %.1f%%", e.Ratio*100, e.Threshold*100)
}
