package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Stage names one step of the transform pipeline.
type Stage string

const (
	StageValidate   Stage = "validate"
	StageEncode     Stage = "encode"
	StageCompress   Stage = "compress"
	StageEncrypt    Stage = "encrypt"
	StageDecrypt    Stage = "decrypt"
	StageDecompress Stage = "decompress"
	StageDecode     Stage = "decode"
)

// StageEvent describes one completed pipeline stage.
type StageEvent struct {
	Stage      Stage
	Duration   time.Duration
	InputSize  int
	OutputSize int
	Err        error
}

// StageObserver receives an event after every pipeline stage, successful or
// not. Observers must not retain the event's payload sizes as ownership
// hints; they are informational only.
type StageObserver interface {
	OnStage(ctx context.Context, event StageEvent)
}

// StageObserverFunc is a function adapter for StageObserver.
type StageObserverFunc func(ctx context.Context, event StageEvent)

// OnStage implements StageObserver.
func (f StageObserverFunc) OnStage(ctx context.Context, event StageEvent) {
	f(ctx, event)
}

// LoggingObserver logs every pipeline stage through slog.
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer. A nil logger falls back to
// slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnStage implements StageObserver.
func (o *LoggingObserver) OnStage(ctx context.Context, event StageEvent) {
	if event.Err != nil {
		o.logger.WarnContext(ctx, "pipeline stage failed",
			"stage", string(event.Stage),
			"duration", event.Duration,
			"error", event.Err)
		return
	}
	o.logger.DebugContext(ctx, "pipeline stage completed",
		"stage", string(event.Stage),
		"duration", event.Duration,
		"inputSize", event.InputSize,
		"outputSize", event.OutputSize)
}
