// Package pipeline moves raw soundings from the source topic through the
// parser to the sink topic in batches.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw soundings from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw sounding envelope into a sink message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes parsed soundings to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline runs the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int

	ready   atomic.Bool
	backoff time.Duration
}

// New creates a Pipeline from its three stages.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		backoff:     initialBackoff,
	}
}

// CheckReadiness returns nil once a batch has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any soundings yet")
	}
	return nil
}

// Run executes the batch loop until ctx is cancelled. Extract and load
// failures are retried with exponential backoff; it only returns nil.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for ctx.Err() == nil {
		if !p.step(ctx) {
			break
		}
	}
	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// step runs one cycle and reports whether the loop should continue.
func (p *Pipeline) step(ctx context.Context) bool {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.wait(ctx)
	}
	if len(batch) == 0 {
		return true
	}

	p.metrics.SoundingsConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))
	p.backoff = initialBackoff

	out, parsed, skipped := p.transformBatch(ctx, batch)
	// Unparseable envelopes will never succeed, so they are committed now.
	p.commit(ctx, skipped)
	if len(out) == 0 {
		return true
	}

	if err := p.loader.LoadBatch(ctx, out); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(out))
		return p.wait(ctx)
	}
	p.metrics.SoundingsProduced.Add(float64(len(out)))
	p.commit(ctx, parsed)

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return true
}

// transformBatch splits a batch into sink messages with their source events,
// and the source events that failed to parse.
func (p *Pipeline) transformBatch(ctx context.Context, batch []domain.RawEvent) (out []domain.OutputEvent, parsed, skipped []domain.RawEvent) {
	out = make([]domain.OutputEvent, 0, len(batch))
	for _, raw := range batch {
		ev, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			skipped = append(skipped, raw)
			continue
		}
		out = append(out, ev)
		parsed = append(parsed, raw)
	}
	return out, parsed, skipped
}

func (p *Pipeline) wait(ctx context.Context) bool {
	if !retry.SleepWithContext(ctx, p.backoff) {
		return false
	}
	p.backoff = retry.NextBackoff(p.backoff, maxBackoff)
	return true
}

func (p *Pipeline) commit(ctx context.Context, events []domain.RawEvent) {
	for _, raw := range events {
		if raw.Commit == nil {
			continue
		}
		if err := raw.Commit(ctx); err != nil {
			p.logger.Warn("commit offset failed", "error", err,
				"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
		}
	}
}
