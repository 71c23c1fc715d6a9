package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newSampledCore samples entries below Error. Error and above bypass the
// sampler so a burst of failed fetches is always logged in full.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	unsampled := &gatedCore{Core: core, gate: zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})}
	sampled := zapcore.NewSamplerWithOptions(&gatedCore{Core: core, gate: zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.ErrorLevel
	})}, cfg.Tick, cfg.Initial, cfg.Thereafter)

	return zapcore.NewTee(unsampled, sampled)
}

// gatedCore passes only entries its gate admits.
type gatedCore struct {
	zapcore.Core
	gate zapcore.LevelEnabler
}

func (c *gatedCore) Enabled(lvl zapcore.Level) bool {
	return c.gate.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *gatedCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.gate.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *gatedCore) With(fields []zapcore.Field) zapcore.Core {
	return &gatedCore{Core: c.Core.With(fields), gate: c.gate}
}
