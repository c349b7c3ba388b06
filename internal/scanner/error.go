package scanner

import "errors"

var (
	ErrNoLogFiles           = errors.New("no log files found")
	ErrUnsupportedExtension = errors.New("unsupported log file extension")
)

type ErrTemplate struct {
	msg string
}

func NewErrTemplate(msg string) error {
	return ErrTemplate{
		msg: msg,
	}
}

func (e ErrTemplate) Error() string {
	return e.msg
}
