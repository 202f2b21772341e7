// Package logger provides leveled logging for the engine. The call surface
// stays package-level so hot paths don't thread a logger handle around.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger().Level(zerolog.InfoLevel)

var level = "info"

func GetLevel() string {
	return level
}

// SetLevel adjusts the minimum level that gets emitted. Unknown levels fall
// back to debug.
func SetLevel(lvl string) {
	if lvl == "" {
		lvl = "debug"
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		parsed = zerolog.DebugLevel
	}
	level = parsed.String()
	log = log.Level(parsed)
}

func Debug(args ...interface{}) {
	log.Debug().Msg(strings.TrimSpace(fmt.Sprintln(args...)))
}

func Info(args ...interface{}) {
	log.Info().Msg(strings.TrimSpace(fmt.Sprintln(args...)))
}

func Error(args ...interface{}) {
	log.Error().Msg(strings.TrimSpace(fmt.Sprintln(args...)))
}

func Debugf(template string, args ...interface{}) {
	log.Debug().Msgf(strings.TrimRight(template, "\n"), args...)
}

func Infof(template string, args ...interface{}) {
	log.Info().Msgf(strings.TrimRight(template, "\n"), args...)
}

func Errorf(template string, args ...interface{}) {
	log.Error().Msgf(strings.TrimRight(template, "\n"), args...)
}
