// Package logging wraps zap the way go-arcade-arcade's pkg/log does:
// a validated Conf struct, a level parser, and a console encoder tuned
// for local development. The file-rotation and Kafka sink variants in
// that package's Conf are dropped here — this module only ever runs
// as an embedded library next to a caller-owned process, so stdout is
// the only sink.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Conf configures the logger.
type Conf struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string
	// Development adds the zap.Development option, which makes
	// DPanic-level logs panic.
	Development bool
}

// Validate fills in Level if empty and rejects unrecognized levels.
func (c *Conf) Validate() error {
	if c.Level == "" {
		c.Level = "INFO"
	}
	if _, ok := parseLevel(c.Level); !ok {
		return fmt.Errorf("logging: unrecognized level %q", c.Level)
	}
	return nil
}

// New builds a *zap.Logger writing to stdout at the configured level.
func New(conf Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	level, _ := parseLevel(conf.Level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		level,
	)

	opts := []zap.Option{zap.AddCaller()}
	if conf.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func parseLevel(level string) (zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO":
		return zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}
