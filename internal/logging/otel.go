package logging

import (
	"errors"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

const otelScope = "github.com/fyrsmithlabs/reposcribe"

// newCore tees the enabled outputs, then applies redaction and sampling.
func newCore(cfg *Config, otelProvider log.LoggerProvider) (zapcore.Core, error) {
	var cores []zapcore.Core

	if cfg.Output.Stdout {
		sink := cfg.Output.Sink
		if sink == nil {
			sink = zapcore.Lock(os.Stdout)
		}
		cores = append(cores, zapcore.NewCore(newEncoder(cfg.Format), sink, cfg.Level))
	}
	if cfg.Output.OTEL && otelProvider != nil {
		cores = append(cores, otelzap.NewCore(otelScope, otelzap.WithLoggerProvider(otelProvider)))
	}
	if len(cores) == 0 {
		return nil, errors.New("no log output available: stdout is off and no otel provider was given")
	}

	core, err := newRedactingCore(zapcore.NewTee(cores...), cfg.Redaction)
	if err != nil {
		return nil, err
	}
	return newSampledCore(core, cfg.Sampling), nil
}
