// Package logging holds the process-wide zap logger used by the CLI and the server.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Name is the root logger name
const Name = "phone-bill"

// Logger is the global logger. It is never nil.
var Logger = zap.NewNop()

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level
	Level string `json:"level"`

	// Format is "console" or "json"
	Format string `json:"format"`

	// Output is stderr, stdout or a file path
	Output string `json:"output"`

	// Development adds stack traces to error logs
	Development bool `json:"development"`
}

// DefaultConfig logs warnings to stderr, keeping stdout for calculation output
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
}

// Initialize replaces the global logger. An unknown level falls back to info.
func Initialize(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	out, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	Use(zap.New(zapcore.NewCore(newEncoder(cfg.Format), out, level), opts...).Named(Name))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openOutput(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

// Use replaces the global logger, e.g. with zap.NewNop in tests
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Logger = l
}

// Sync flushes the logger
func Sync() {
	_ = Logger.Sync()
}

// ForReceipt returns a logger scoped to one receipt generation run
func ForReceipt(runID string, number int64, format string) *zap.Logger {
	return Logger.Named("receipt").With(
		zap.String("run_id", runID),
		zap.Int64("receipt_number", number),
		zap.String("format", format),
	)
}

// ForRequest returns a logger scoped to one HTTP request
func ForRequest(requestID, method, path string) *zap.Logger {
	return Logger.Named("http").With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Error logs at error level
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func init() {
	_ = Initialize(DefaultConfig())
}
