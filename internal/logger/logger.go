// Package logger wraps log/slog with sampled warnings and errors, counters for
// the metrics endpoint and an optional OpenTelemetry export.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Level = slog.Level

const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
	LevelFatal   = slog.Level(12)
)

// Config selects the handler and its filtering.
type Config struct {
	Level       string
	SampleRate  int
	OTELEnabled bool
	ServiceName string
	Output      io.Writer
}

var (
	Logger          = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: programLevel}))
	programLevel    = new(slog.LevelVar)
	errorSampleRate atomic.Int32
	shutdownFunc    func(context.Context) error
)

// Counters read by the metrics endpoint. They are incremented whether or not
// the message itself is sampled.
var (
	TotalErrors     atomic.Int64
	TotalWarnings   atomic.Int64
	Total5xxErrors  atomic.Int64
	Total4xxErrors  atomic.Int64
	Total400Errors  atomic.Int64
	Total404Errors  atomic.Int64
	SlowRequests    atomic.Int64
	DroppedSegments atomic.Int64
)

func init() {
	errorSampleRate.Store(1)
}

// Setup installs the process logger. With OTEL enabled, records are exported
// over OTLP/gRPC; if the exporter cannot be created the JSON handler is used.
func Setup(ctx context.Context, cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	programLevel.Set(level)

	if cfg.SampleRate > 0 {
		errorSampleRate.Store(int32(cfg.SampleRate))
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.OTELEnabled {
		serviceName := cfg.ServiceName
		if serviceName == "" {
			serviceName = "checklogic"
		}
		shutdown, err := setupOTELLogging(ctx, serviceName)
		if err == nil {
			shutdownFunc = shutdown
			return nil
		}
		fmt.Fprintf(os.Stderr, "Failed to setup OTEL logging, falling back to JSON: %v\n", err)
	}

	setupJSONLogging(out)
	return nil
}

func setupJSONLogging(out io.Writer) {
	Logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(Logger)
}

func setupOTELLogging(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	Logger = slog.New(&levelHandler{
		level:   programLevel,
		handler: otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider)),
	})
	slog.SetDefault(Logger)

	return provider.Shutdown, nil
}

// levelHandler applies the program level to a handler that has none.
type levelHandler struct {
	level   slog.Leveler
	handler slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithGroup(name)}
}

// Shutdown flushes the OTEL exporter, if any.
func Shutdown(ctx context.Context) error {
	if shutdownFunc != nil {
		return shutdownFunc(ctx)
	}
	return nil
}

func SetLevel(level slog.Level) {
	programLevel.Set(level)
}

func GetLevel() slog.Level {
	return programLevel.Level()
}

// ParseLevel converts a level name to a slog.Level. Unknown names yield INFO
// and an error.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(name) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s (defaulting to INFO)", name)
	}
}

// shouldSample keeps one message out of every errorSampleRate.
func shouldSample() bool {
	rate := errorSampleRate.Load()
	if rate <= 1 {
		return true
	}
	return rand.Intn(int(rate)) == 0
}

func Trace(msg string, args ...any) {
	Logger.Log(context.Background(), LevelTrace, msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn counts the warning and logs a sample of them.
func Warn(msg string, args ...any) {
	TotalWarnings.Add(1)
	if shouldSample() {
		Logger.Warn(msg, args...)
	}
}

// Error counts the error and logs a sample of them.
func Error(msg string, args ...any) {
	TotalErrors.Add(1)
	if shouldSample() {
		Logger.Error(msg, args...)
	}
}

// Fatal logs msg, flushes the exporter and exits.
func Fatal(msg string, args ...any) {
	Logger.Log(context.Background(), LevelFatal, msg, args...)
	if shutdownFunc != nil {
		_ = shutdownFunc(context.Background())
	}
	os.Exit(1)
}

// ErrorHttp5xx counts a server error response.
func ErrorHttp5xx() {
	Total5xxErrors.Add(1)
	TotalErrors.Add(1)
}

// WarnHttp4xx counts a client error response.
func WarnHttp4xx(status int) {
	Total4xxErrors.Add(1)
	TotalWarnings.Add(1)

	switch status {
	case 400:
		Total400Errors.Add(1)
	case 404:
		Total404Errors.Add(1)
	}
}

// WarnSlowRequest counts a request slower than the server threshold.
func WarnSlowRequest() {
	SlowRequests.Add(1)
	TotalWarnings.Add(1)
}

// DebugDroppedSegments counts wire segments discarded while normalizing
// stored filters.
func DebugDroppedSegments(n int, args ...any) {
	if n <= 0 {
		return
	}
	DroppedSegments.Add(int64(n))
	Logger.Debug("dropped filter segments", append([]any{"dropped", n}, args...)...)
}

// Metrics is a snapshot of the counters.
type Metrics struct {
	TotalErrors     int64 `json:"totalErrors"`
	TotalWarnings   int64 `json:"totalWarnings"`
	Total5xxErrors  int64 `json:"total5xxErrors"`
	Total4xxErrors  int64 `json:"total4xxErrors"`
	Total400Errors  int64 `json:"total400Errors"`
	Total404Errors  int64 `json:"total404Errors"`
	SlowRequests    int64 `json:"slowRequests"`
	DroppedSegments int64 `json:"droppedSegments"`
}

func Snapshot() Metrics {
	return Metrics{
		TotalErrors:     TotalErrors.Load(),
		TotalWarnings:   TotalWarnings.Load(),
		Total5xxErrors:  Total5xxErrors.Load(),
		Total4xxErrors:  Total4xxErrors.Load(),
		Total400Errors:  Total400Errors.Load(),
		Total404Errors:  Total404Errors.Load(),
		SlowRequests:    SlowRequests.Load(),
		DroppedSegments: DroppedSegments.Load(),
	}
}
