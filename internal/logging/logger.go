package logging

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled diagnostics and lightweight timing helpers.
// The zero value discards everything.
type Logger struct {
	sugar   *zap.SugaredLogger
	Verbose bool
}

// New builds a console-encoded zap logger writing to writer. An empty level
// means "warn", or "debug" when verbose is set.
func New(writer io.Writer, verbose bool, level string) (Logger, error) {
	lvl := zapcore.WarnLevel
	if verbose {
		lvl = zapcore.DebugLevel
	}
	if level != "" && !verbose {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return Logger{}, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(writer), lvl)

	return Logger{sugar: zap.New(core).Sugar(), Verbose: verbose}, nil
}

// Nop returns a Logger that discards all output.
func Nop() Logger {
	return Logger{}
}

func (l Logger) Infof(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose || l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}

// Sync flushes buffered entries.
func (l Logger) Sync() error {
	if l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}
