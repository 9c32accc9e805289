// Package logging wraps zerolog with the console-writer setup cmd/gones
// uses for startup, ROM load, and shutdown messages. Core packages
// (cpu/ppu/apu/bus/cartridge) never log; they return errors or are total
// functions.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console logger. debug raises the level to include Debug()
// calls; otherwise only Info and above are emitted.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
