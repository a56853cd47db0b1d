package logx

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studybuddy/server/internal/core"
)

type Opts struct {
	Environment core.Environment
	Level       string
}

func defaults() Opts {
	return Opts{Environment: core.Development}
}

func safe(opts ...Opts) Opts {
	if len(opts) == 0 {
		return defaults()
	}
	return opts[0]
}

// Init configures the global zerolog logger. Production emits level-filtered
// JSON; everything else gets a console writer with caller info for local runs.
func Init(opts ...Opts) {
	o := safe(opts...)

	level := zerolog.InfoLevel
	if o.Environment != core.Production {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
		level = zerolog.DebugLevel
	}
	if o.Level != "" {
		if parsed, err := zerolog.ParseLevel(o.Level); err == nil {
			level = parsed
		}
	}
	log.Logger = log.Logger.Level(level)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
