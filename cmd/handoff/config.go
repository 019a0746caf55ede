package main

import (
	"io"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Env holds flag defaults taken from HANDOFF_* environment variables.
type Env struct {
	Count   int           `envconfig:"COUNT" default:"10"`
	Seed    int64         `envconfig:"SEED" default:"0"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"0s"`
	Verbose bool          `envconfig:"VERBOSE" default:"false"`
}

func loadEnv() (env Env, err error) {
	err = envconfig.Process("handoff", &env)
	return
}

// newLogger logs warnings as JSON, or everything in console form when
// verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}
