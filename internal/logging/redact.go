package logging

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redactedValue = "[REDACTED]"

// Secret logs whether a credential is configured and its length, never its value.
func Secret(key string, val config.Secret) zap.Field {
	if !val.IsSet() {
		return zap.String(key, "[UNSET]")
	}
	return zap.String(key, "[REDACTED:"+strconv.Itoa(len(val.Value()))+"]")
}

// redactor rewrites fields whose key is sensitive or whose string value
// looks like a credential.
type redactor struct {
	keys     map[string]struct{}
	patterns []*regexp.Regexp
}

func newRedactor(cfg RedactionConfig) (*redactor, error) {
	r := &redactor{keys: make(map[string]struct{}, len(cfg.Fields))}
	for _, k := range cfg.Fields {
		r.keys[strings.ToLower(k)] = struct{}{}
	}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

func (r *redactor) field(f zapcore.Field) zapcore.Field {
	switch f.Type {
	case zapcore.StringType, zapcore.ByteStringType, zapcore.StringerType,
		zapcore.ReflectType, zapcore.ObjectMarshalerType:
	default:
		return f
	}
	if _, ok := r.keys[strings.ToLower(f.Key)]; ok {
		return zap.String(f.Key, redactedValue)
	}
	if f.Type == zapcore.StringType {
		for _, re := range r.patterns {
			if re.MatchString(f.String) {
				return zap.String(f.Key, "[REDACTED:pattern]")
			}
		}
	}
	return f
}

func (r *redactor) fields(fs []zapcore.Field) []zapcore.Field {
	if len(fs) == 0 {
		return fs
	}
	out := make([]zapcore.Field, len(fs))
	for i, f := range fs {
		out[i] = r.field(f)
	}
	return out
}

// redactingCore scrubs fields on both With and Write, so every output
// behind it (stdout and the OTEL bridge) sees the same redacted entry.
type redactingCore struct {
	zapcore.Core
	r *redactor
}

// newRedactingCore wraps core. A disabled config returns core unchanged.
func newRedactingCore(core zapcore.Core, cfg RedactionConfig) (zapcore.Core, error) {
	if !cfg.Enabled {
		return core, nil
	}
	r, err := newRedactor(cfg)
	if err != nil {
		return nil, err
	}
	return &redactingCore{Core: core, r: r}, nil
}

func (c *redactingCore) With(fs []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.r.fields(fs)), r: c.r}
}

func (c *redactingCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *redactingCore) Write(e zapcore.Entry, fs []zapcore.Field) error {
	return c.Core.Write(e, c.r.fields(fs))
}
