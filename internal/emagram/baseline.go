package emagram

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/observability"
)

// Sweep lists the curve parameters of each family, in output order.
type Sweep struct {
	Thetas       []float64 // K, shared by dry and moist adiabats
	MixingRatios []float64 // kg/kg
}

// DefaultSweep returns potential temperatures 230..430 K every 10 K and the
// nine standard mixing ratios.
func DefaultSweep() Sweep {
	thetas := make([]float64, 0, 21)
	for theta := 230; theta <= 430; theta += 10 {
		thetas = append(thetas, float64(theta))
	}
	return Sweep{
		Thetas:       thetas,
		MixingRatios: []float64{0.0004, 0.001, 0.002, 0.004, 0.007, 0.01, 0.016, 0.024, 0.032},
	}
}

func (s Sweep) params(f domain.Family) []float64 {
	if f == domain.FamilyMixingRatio {
		return s.MixingRatios
	}
	return s.Thetas
}

// Assembler computes every curve of a sweep and packs them into a Baseline.
type Assembler struct {
	source  CurveSource
	workers int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAssembler creates an assembler fanning curve computations out over
// workers goroutines. metrics may be nil.
func NewAssembler(source CurveSource, workers int, logger *slog.Logger, metrics *observability.Metrics) *Assembler {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{source: source, workers: workers, logger: logger, metrics: metrics}
}

type curveJob struct {
	family domain.Family
	index  int
	param  float64
}

type curveResult struct {
	curve domain.Curve
	ok    bool
}

// Assemble computes the baseline for sweep. A curve that fails is logged and
// left out of its family; the remaining curves keep their sweep order. It
// returns early with ctx's error if ctx is cancelled.
func (a *Assembler) Assemble(ctx context.Context, sweep Sweep) (domain.Baseline, error) {
	start := time.Now()

	results := make(map[domain.Family][]curveResult, len(domain.Families))
	jobs := make(chan curveJob)
	for _, f := range domain.Families {
		results[f] = make([]curveResult, len(sweep.params(f)))
	}

	var wg sync.WaitGroup
	for range a.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				curve, ok := a.compute(job)
				// Each job owns a distinct slot.
				results[job.family][job.index] = curveResult{curve: curve, ok: ok}
			}
		}()
	}

	var cancelled error
dispatch:
	for _, f := range domain.Families {
		for i, param := range sweep.params(f) {
			if err := ctx.Err(); err != nil {
				cancelled = err
				break dispatch
			}
			select {
			case <-ctx.Done():
				cancelled = ctx.Err()
				break dispatch
			case jobs <- curveJob{family: f, index: i, param: param}:
			}
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return domain.Baseline{}, cancelled
	}

	baseline := domain.Baseline{
		DryLines:         collect(results[domain.FamilyDry]),
		MoistLines:       collect(results[domain.FamilyMoist]),
		MixingRatioLines: collect(results[domain.FamilyMixingRatio]),
	}
	if a.metrics != nil {
		a.metrics.BaselineDuration.Observe(time.Since(start).Seconds())
	}
	a.logger.Info("baseline assembled",
		"dryline", len(baseline.DryLines),
		"moistline", len(baseline.MoistLines),
		"mixingratioline", len(baseline.MixingRatioLines),
		"duration", time.Since(start),
	)
	return baseline, nil
}

func (a *Assembler) compute(job curveJob) (domain.Curve, bool) {
	curve, err := a.source.Curve(job.family, job.param)
	if err != nil {
		a.observe(job.family, "failed")
		level := slog.LevelWarn
		if !errors.Is(err, ErrDomain) && !errors.Is(err, ErrIntegrationUnstable) {
			level = slog.LevelError
		}
		a.logger.Log(context.Background(), level, "curve skipped",
			"family", string(job.family),
			"param", job.param,
			"error", err,
		)
		return nil, false
	}
	if curve.MissingCount() > 0 {
		a.observe(job.family, "truncated")
	} else {
		a.observe(job.family, "complete")
	}
	return curve, true
}

func (a *Assembler) observe(f domain.Family, outcome string) {
	if a.metrics == nil {
		return
	}
	a.metrics.CurvesComputed.WithLabelValues(string(f), outcome).Inc()
}

func collect(slots []curveResult) []domain.Curve {
	curves := make([]domain.Curve, 0, len(slots))
	for _, s := range slots {
		if s.ok {
			curves = append(curves, s.curve)
		}
	}
	return curves
}
