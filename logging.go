package main

import (
	"fmt"
	"os"
	"time"

	"github.com/riverfog7/FasterRsync/internal"
	"github.com/rs/zerolog"
)

var logger zerolog.Logger

// setupLogger routes library log events to a zerolog console logger on stderr
func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	internal.LogHandler = func(sender interface{}, log internal.LogStruct) {
		event := logger.WithLevel(zerologLevel(log.LogLevel))
		if sender != nil {
			event = event.Str("component", fmt.Sprintf("%T", sender))
		}
		event.Msg(log.Message)
	}
}

func zerologLevel(level internal.LogLevel) zerolog.Level {
	switch level {
	case internal.Debug:
		return zerolog.DebugLevel
	case internal.Warning:
		return zerolog.WarnLevel
	case internal.Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
