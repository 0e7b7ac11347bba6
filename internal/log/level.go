package log

import (
	"log/slog"
	"strings"
)

// Level is a logging threshold. The zero value is LevelWarn, which is what
// the commands run at unless --log-level or BACKOFFICE_LOG_LEVEL says
// otherwise.
type Level int8

const (
	LevelDebug Level = iota - 2
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff suppresses all output.
	LevelOff
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelOff:   "off",
}

// levelAliases maps accepted spellings onto levels.
var levelAliases = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"off":     LevelOff,
	"quiet":   LevelOff,
	"silent":  LevelOff,
}

// String returns the name used in configuration files.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ToSlogLevel converts l for a slog handler. LevelOff maps above every
// level slog emits.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	case LevelOff:
		return slog.LevelError + 64
	default:
		return slog.LevelWarn
	}
}

// LookupLevel resolves a level name case-insensitively. The empty string
// is the default level.
func LookupLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelWarn, true
	}
	l, ok := levelAliases[s]
	return l, ok
}

// ParseLevel is LookupLevel that falls back to LevelWarn for unknown names.
func ParseLevel(s string) Level {
	if l, ok := LookupLevel(s); ok {
		return l
	}
	return LevelWarn
}
