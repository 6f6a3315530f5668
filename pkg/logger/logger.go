package logger

import (
	"io"
	"log"
)

type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type stdLogger struct {
	l *log.Logger
}

// New logs through the standard logger.
func New() Logger { return &stdLogger{l: log.Default()} }

// NewWriter logs to w with the standard flags.
func NewWriter(w io.Writer) Logger { return &stdLogger{l: log.New(w, "", log.LstdFlags)} }

// Nop discards everything.
func Nop() Logger { return NewWriter(io.Discard) }

func (s *stdLogger) Infof(format string, v ...any)  { s.l.Printf("[INFO] "+format, v...) }
func (s *stdLogger) Errorf(format string, v ...any) { s.l.Printf("[ERROR] "+format, v...) }
