// Package logger builds the process logger on log/slog: tint on a console,
// JSON elsewhere. Warn and error records carry their source location; in
// debug mode every record does.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/Picoli-Igor/Dash2/internal/shared/config"
)

var (
	mu     sync.RWMutex
	root   *slog.Logger
	level  = new(slog.LevelVar)
	output io.Closer
)

// Init replaces the process logger. A file output stays open until Sync.
func Init(cfg *config.LoggerConfig, serverMode string) error {
	w, closer, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	level.Set(ParseLevel(cfg.Level))
	l := slog.New(NewHandler(w, cfg.Format, level, sourceThreshold(serverMode)))

	mu.Lock()
	previous := output
	root, output = l, closer
	mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	slog.SetDefault(l)
	return nil
}

// ParseLevel maps a configured level name to slog. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewHandler builds the handler for w: JSON when format is "json", tint
// otherwise, coloured only when w is a terminal.
func NewHandler(w io.Writer, format string, lv slog.Leveler, sourceFrom slog.Level) slog.Handler {
	var base slog.Handler
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	} else {
		base = tint.NewHandler(w, &tint.Options{
			Level:       lv,
			TimeFormat:  time.DateTime,
			NoColor:     !isTerminal(w),
			ReplaceAttr: replaceErrorAttr,
		})
	}
	return NewSourceHandler(base, sourceFrom)
}

func sourceThreshold(serverMode string) slog.Level {
	if serverMode == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(path) {
	case "", "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// replaceErrorAttr renders "error" attributes with tint's error styling.
func replaceErrorAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" && a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			return tint.Err(err)
		}
	}
	return a
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Sync closes the log file opened by Init, if any.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

func current() *slog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}
	return slog.New(NewHandler(os.Stdout, "console", slog.LevelInfo, slog.LevelWarn))
}
