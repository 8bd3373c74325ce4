// Package generator runs the snapshot procedure: derive the current period
// ids, compute planet positions at local noon when anything is missing, and
// create the missing period files without ever touching existing ones.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/astro-snapshots/internal/domain"
	"github.com/couchcryptid/astro-snapshots/internal/observability"
	"github.com/jonboulle/clockwork"
)

// SnapshotStore persists period snapshots. Create must not replace an
// existing file and reports whether it created one.
type SnapshotStore interface {
	Path(p domain.PeriodType, id string) string
	Exists(p domain.PeriodType, id string) (bool, error)
	Create(p domain.PeriodType, id string, data []byte) (bool, error)
}

// Publisher forwards newly written snapshots downstream.
type Publisher interface {
	Publish(ctx context.Context, snaps []domain.Snapshot) error
}

// Result describes what a run did.
type Result struct {
	IDs domain.PeriodIDs
	// AlreadyPresent is set when all three files existed and nothing was computed.
	AlreadyPresent bool
	Written        []domain.PeriodType
	Skipped        []domain.PeriodType
}

// Generator produces the daily, weekly and monthly snapshots for "now".
type Generator struct {
	clock     clockwork.Clock
	location  *time.Location
	ephemeris domain.Ephemeris
	store     SnapshotStore
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Generator. Pass a nil publisher to disable publication; a nil
// metrics gets a private registry nobody gathers.
func New(
	clock clockwork.Clock,
	location *time.Location,
	eph domain.Ephemeris,
	store SnapshotStore,
	publisher Publisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Generator {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Generator{
		clock:     clock,
		location:  location,
		ephemeris: eph,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one generation pass.
func (g *Generator) Run(ctx context.Context) (res Result, err error) {
	now := g.clock.Now().In(g.location)
	res.IDs = domain.PeriodIDsFor(now)

	defer func() {
		switch {
		case err != nil:
			g.metrics.ObserveRun(observability.OutcomeError, now)
		case res.AlreadyPresent:
			g.metrics.ObserveRun(observability.OutcomeAlreadyPresent, now)
		default:
			g.metrics.ObserveRun(observability.OutcomeGenerated, now)
		}
	}()

	missing, err := g.missingPeriods(res.IDs)
	if err != nil {
		return res, err
	}
	if len(missing) == 0 {
		res.AlreadyPresent = true
		for _, p := range domain.AllPeriodTypes() {
			g.skip(&res, p, res.IDs.ID(p))
		}
		g.logger.Info("all period snapshots present", "daily", res.IDs.Daily, "weekly", res.IDs.Weekly, "monthly", res.IDs.Monthly)
		return res, nil
	}

	base, err := g.computeBase(ctx, now)
	if err != nil {
		return res, err
	}

	written := make([]domain.Snapshot, 0, len(missing))
	for _, p := range domain.AllPeriodTypes() {
		id := res.IDs.ID(p)
		if !missing[p] {
			g.skip(&res, p, id)
			continue
		}
		snap := domain.NewSnapshot(base, p, id)
		created, err := g.write(snap)
		if err != nil {
			return res, err
		}
		if !created {
			// Another run created it between the existence check and now.
			g.skip(&res, p, id)
			continue
		}
		res.Written = append(res.Written, p)
		written = append(written, snap)
		g.metrics.SnapshotsWritten.WithLabelValues(string(p)).Inc()
		g.logger.Info("snapshot written", "type", p, "id", id, "path", g.store.Path(p, id))
	}

	if g.publisher != nil && len(written) > 0 {
		if err := g.publisher.Publish(ctx, written); err != nil {
			return res, err
		}
		g.metrics.SnapshotsPublished.Add(float64(len(written)))
	}

	return res, nil
}

// missingPeriods returns the period types whose file does not exist yet.
func (g *Generator) missingPeriods(ids domain.PeriodIDs) (map[domain.PeriodType]bool, error) {
	missing := make(map[domain.PeriodType]bool, 3)
	for _, p := range domain.AllPeriodTypes() {
		exists, err := g.store.Exists(p, ids.ID(p))
		if err != nil {
			return nil, err
		}
		if !exists {
			missing[p] = true
		}
	}
	return missing, nil
}

// computeBase computes all positions at local noon of now's date.
func (g *Generator) computeBase(ctx context.Context, now time.Time) (domain.Base, error) {
	noon := domain.LocalNoon(now)
	jd := g.ephemeris.JulianDay(noon)

	start := time.Now()
	planets, err := domain.BuildPlanets(ctx, g.ephemeris, jd)
	if err != nil {
		return domain.Base{}, fmt.Errorf("compute planets at %s: %w", noon.Format(time.RFC3339), err)
	}
	g.metrics.EphemerisDuration.Observe(time.Since(start).Seconds())
	g.logger.Debug("planets computed", "reference", noon.Format(time.RFC3339), "jd", jd)

	return domain.NewBase(now, planets), nil
}

func (g *Generator) write(snap domain.Snapshot) (bool, error) {
	data, err := snap.Encode()
	if err != nil {
		return false, err
	}
	created, err := g.store.Create(snap.Type, snap.ID, data)
	if err != nil {
		return false, fmt.Errorf("write %s snapshot %s: %w", snap.Type, snap.ID, err)
	}
	return created, nil
}

func (g *Generator) skip(res *Result, p domain.PeriodType, id string) {
	res.Skipped = append(res.Skipped, p)
	g.metrics.SnapshotsSkipped.WithLabelValues(string(p)).Inc()
	g.logger.Debug("snapshot already present", "type", p, "id", id)
}
