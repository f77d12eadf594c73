package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger writing to every path in outputPaths.
// Directories for file outputs are created when missing.
func NewLogger(level string, outputPaths []string) *zap.Logger {
	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}
	for _, p := range outputPaths {
		if p == "stdout" || p == "stderr" {
			continue
		}
		if dir := filepath.Dir(p); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderCfg,
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.DebugLevel
	}
	return l
}
