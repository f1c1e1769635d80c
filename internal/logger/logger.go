// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// The card service writes lifecycle, submission, and error events to one
// JSON log per day under `<root>/logs/cards-YYYY-MM-DD.log`.  When `log.tee`
// is set and stdout is a TTY, the same events are also written to the
// console.  Rotation, compression, and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, cfg.Log.Tee && logger.IsTTY())
//	if err != nil { … }
//	log.Infow("card submission confirmed", "table", 0)
//
// Notes
// -----
// • ISO-8601 timestamps, lowercase levels, short callers.
// • Errors from Zap itself go to the same file sink.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is the minimum level for both cores.  Override with
// CARDS_LOG_LEVEL=debug.
func level() zapcore.Level {
	return parseLevel(os.Getenv("CARDS_LOG_LEVEL"), os.Stderr)
}

// parseLevel returns info for an empty or unknown name.  Unknown names are
// reported on warn, since the logger itself is not up yet.
func parseLevel(name string, warn io.Writer) zapcore.Level {
	if name == "" {
		return zap.InfoLevel
	}
	var lvl zapcore.Level
	if err := lvl.Set(name); err != nil {
		fmt.Fprintf(warn, "logger: ignoring CARDS_LOG_LEVEL=%q: %v; using info\n", name, err)
		return zap.InfoLevel
	}
	return lvl
}

// New returns a *zap.SugaredLogger writing JSON to the daily file.  When
// tee is true a console core is attached.  The logger is installed as the
// process-wide default via zap.ReplaceGlobals.
func New(rootDir string, tee bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "cards-"+time.Now().Format("2006-01-02")+".log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	lvl := level()

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), lvl),
	}
	if tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			lvl,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "tee", tee, "level", lvl.String())
	return z, nil
}

// IsTTY reports whether stdout is a character device.
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
