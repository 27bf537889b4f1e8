package params

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrParameterNotFound = errors.New("planning parameter not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// GetParameter returns a single planning parameter value. Difficulty-scoped
// parameters need a non-empty difficulty; global parameters ignore it.
func (r *Repo) GetParameter(ctx context.Context, key string, difficulty catalog.Difficulty) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.params.getParameter")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("key", key),
		attribute.String("difficulty", string(difficulty)),
	)

	var value float64
	if difficulty == "" {
		err = r.db.QueryRow(
			ctx,
			`SELECT value FROM planning_param WHERE key = $1 AND difficulty IS NULL;`,
			key,
		).Scan(&value)
	} else {
		err = r.db.QueryRow(
			ctx,
			`SELECT value FROM planning_param WHERE key = $1 AND difficulty = $2;`,
			key, difficulty,
		).Scan(&value)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrParameterNotFound
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Load reads the whole planning parameter table into a Params value.
// Unset keys keep their documented defaults.
func (r *Repo) Load(ctx context.Context) (_ Params, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.params.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p := Defaults()

	rows, err := r.db.Query(ctx, `SELECT key, difficulty, value FROM planning_param;`)
	if err != nil {
		return Params{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var difficulty *catalog.Difficulty
		var value float64
		if err := rows.Scan(&key, &difficulty, &value); err != nil {
			return Params{}, fmt.Errorf("rows scan: %w", err)
		}
		p.apply(key, difficulty, value)
	}
	if err := rows.Err(); err != nil {
		return Params{}, err
	}

	boosts, err := r.loadAnchorBoosts(ctx)
	if err != nil {
		return Params{}, fmt.Errorf("load anchor boosts: %w", err)
	}
	p.AnchorBoosts = boosts

	return p, nil
}

func (p *Params) apply(key string, difficulty *catalog.Difficulty, value float64) {
	switch key {
	case KeyTeachingTimePerMovement:
		if difficulty != nil {
			p.TeachingTimePerMovement[*difficulty] = int(value)
		}
	case KeyTargetMovementsPerHour:
		if difficulty != nil {
			p.TargetMovementsPerHour[*difficulty] = int(value)
		}
	case KeyMinMovementsPerHour:
		p.MinMovementsPerHour = int(value)
	case KeyMaxMovementsPerHour:
		p.MaxMovementsPerHour = int(value)
	case KeyTransitionTime:
		p.TransitionTimeSeconds = int(value)
	case KeyPreparationDuration:
		p.SectionDurations[catalog.SectionPreparation] = int(value)
	case KeyWarmupDuration:
		p.SectionDurations[catalog.SectionWarmup] = int(value)
	case KeyCooldownDuration:
		p.SectionDurations[catalog.SectionCooldown] = int(value)
	case KeyMeditationDuration:
		p.SectionDurations[catalog.SectionMeditation] = int(value)
	case KeyHomeCareDuration:
		p.SectionDurations[catalog.SectionHomeCare] = int(value)
	case KeyMuscleOverlapThreshold:
		p.MuscleOverlapThreshold = value
	case KeyFamilyBalanceThreshold:
		p.FamilyBalanceThreshold = value
	case KeyNoveltyLookbackDays:
		p.NoveltyLookbackDays = int(value)
	case KeyNoveltyUsageCap:
		p.NoveltyUsageCap = int(value)
	case KeyStalenessWindowDays:
		p.StalenessWindowDays = int(value)
	case KeyStaleMovementThreshold:
		p.StaleMovementThreshold = int(value)
	}
}

func (r *Repo) loadAnchorBoosts(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT movement_id, multiplier FROM anchor_boost;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boosts := make(map[string]float64)
	for rows.Next() {
		var movementID string
		var multiplier float64
		if err := rows.Scan(&movementID, &multiplier); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		boosts[movementID] = multiplier
	}
	return boosts, rows.Err()
}
