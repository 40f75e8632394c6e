package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/observability"
)

// SoundingTransformer parses a fetcher envelope, derives the per-level
// equivalent potential temperatures, and serializes the result.
type SoundingTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a SoundingTransformer. metrics may be nil.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *SoundingTransformer {
	return &SoundingTransformer{logger: logger, metrics: metrics}
}

func (t *SoundingTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	s, err := domain.ParseRawSounding(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	s = domain.EnrichSounding(s)

	missing := s.MissingFields()
	if t.metrics != nil {
		t.metrics.LevelsParsed.Add(float64(len(s.Records)))
		t.metrics.MissingFields.Add(float64(missing))
	}
	if len(s.Records) == 0 {
		t.logger.Warn("sounding has no data lines", "id", s.ID, "station", string(s.Station))
	}
	t.logger.Debug("sounding parsed",
		"id", s.ID,
		"levels", len(s.Records),
		"missing_fields", missing,
	)

	return domain.SerializeSounding(s)
}
