package commands

import (
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"
)

var _ pflag.Value = (*logFormat)(nil)

// logFormat is the value of --log-format.
type logFormat string

const (
	logFormatText logFormat = "text"
	logFormatJSON logFormat = "json"
)

func (f *logFormat) String() string {
	return string(*f)
}

func (f *logFormat) Set(v string) error {
	switch logFormat(v) {
	case logFormatText, logFormatJSON:
		*f = logFormat(v)
		return nil
	default:
		return zerr.With(zerr.New("unknown log format"), "log_format", v)
	}
}

func (f *logFormat) Type() string {
	return "text|json"
}
