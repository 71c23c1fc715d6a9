package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below Debug. Walker entry decisions and
// generator payload sizes log here.
const TraceLevel = zapcore.DebugLevel - 1

// LevelFromString parses a level name, including "trace". Case and
// surrounding space are ignored; an empty name means info.
func LevelFromString(level string) (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "":
		return zapcore.InfoLevel, nil
	case "trace":
		return TraceLevel, nil
	}

	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return parsed, nil
}
