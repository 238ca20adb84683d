package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type writeSyncer struct {
	io.Writer
}

func (ws writeSyncer) Sync() error {
	return nil
}

// fileSyncer returns an append-only rolling file sink for the log.
func fileSyncer(path string) zapcore.WriteSyncer {
	return writeSyncer{&lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		LocalTime:  true,
	}}
}

// Setup builds the process logger: JSON lines (timestamp, severity, message,
// fields) to an append-only file, teed with a human-readable console echo.
// Called once by the entry point; the logger is injected into everything
// that logs rather than installed as ambient global state.
func Setup(path, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileSyncer(path)), lvl),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), lvl),
	)
	return zap.New(core, zap.AddCaller()), nil
}
