package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrTransitionNotFound = errors.New("transition not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListMovements returns all movements of the given difficulty in stable
// catalog order. An empty difficulty returns the whole catalog.
func (r *Repo) ListMovements(ctx context.Context, difficulty Difficulty) (_ []Movement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listMovements")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("difficulty", string(difficulty)))

	query := `
		SELECT
			m.id, m.name, m.difficulty, m.family, m.start_position,
			m.levels, m.duration_seconds, m.sort_order
		FROM movement m`
	var args []any
	if difficulty != "" {
		query += ` WHERE m.difficulty = $1`
		args = append(args, difficulty)
	}
	query += ` ORDER BY m.sort_order, m.id;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		var levels []string
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Difficulty, &m.Family, &m.StartPosition,
			&levels, &m.DurationSeconds, &m.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		for _, l := range levels {
			m.Levels = append(m.Levels, Level(l))
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range movements {
		primary, secondary, err := r.muscleGroupsFor(ctx, movements[i].ID)
		if err != nil {
			return nil, fmt.Errorf("muscle groups for [%s]: %w", movements[i].ID, err)
		}
		movements[i].PrimaryMuscles = primary
		movements[i].SecondaryMuscles = secondary
	}

	return movements, nil
}

func (r *Repo) muscleGroupsFor(ctx context.Context, movementID string) (primary, secondary []string, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT mg.name, mmg.role
			FROM movement_muscle_group mmg
			JOIN muscle_group mg ON mg.name = mmg.muscle_group
			WHERE mmg.movement_id = $1
			ORDER BY mg.name;`,
		movementID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, role string
		if err := rows.Scan(&name, &role); err != nil {
			return nil, nil, fmt.Errorf("rows scan: %w", err)
		}
		if role == "primary" {
			primary = append(primary, name)
		} else {
			secondary = append(secondary, name)
		}
	}
	return primary, secondary, rows.Err()
}

// GetTransition returns the transition narrative for the exact
// (from, to) position pair, or ErrTransitionNotFound.
func (r *Repo) GetTransition(ctx context.Context, from, to Position) (_ *Transition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.getTransition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	)

	var t Transition
	err = r.db.QueryRow(
		ctx,
		`SELECT from_position, to_position, narrative, duration_seconds
			FROM transition
			WHERE from_position = $1 AND to_position = $2;`,
		from, to,
	).Scan(&t.FromPosition, &t.ToPosition, &t.Narrative, &t.DurationSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransitionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransitions returns the whole transition repertoire, so a generation
// request can snapshot it up front and stay free of mid-computation reads.
func (r *Repo) ListTransitions(ctx context.Context) (_ []Transition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listTransitions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT from_position, to_position, narrative, duration_seconds
			FROM transition
			ORDER BY from_position, to_position;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []Transition
	for rows.Next() {
		var t Transition
		if err := rows.Scan(&t.FromPosition, &t.ToPosition, &t.Narrative, &t.DurationSeconds); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		transitions = append(transitions, t)
	}
	return transitions, rows.Err()
}

// ListFlankingItems returns the active flanking content repertoire for a
// section type, in stable catalog order.
func (r *Repo) ListFlankingItems(ctx context.Context, sectionType SectionType) (_ []FlankingItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listFlankingItems")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("section_type", string(sectionType)))

	rows, err := r.db.Query(
		ctx,
		`SELECT f.id, f.section_type, f.narrative, f.duration_seconds, f.active, f.sort_order
			FROM flanking_item f
			WHERE f.section_type = $1 AND f.active
			ORDER BY f.sort_order, f.id;`,
		sectionType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []FlankingItem
	for rows.Next() {
		var item FlankingItem
		if err := rows.Scan(
			&item.ID, &item.SectionType, &item.Narrative,
			&item.DurationSeconds, &item.Active, &item.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		groups, err := r.flankingMuscleGroups(ctx, items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("muscle groups for flanking item [%s]: %w", items[i].ID, err)
		}
		items[i].MuscleGroups = groups
	}

	return items, nil
}

func (r *Repo) flankingMuscleGroups(ctx context.Context, itemID string) ([]string, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT muscle_group FROM flanking_item_muscle_group
			WHERE flanking_item_id = $1
			ORDER BY muscle_group;`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListMuscleGroups returns the muscle group reference data.
func (r *Repo) ListMuscleGroups(ctx context.Context) (_ []MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listMuscleGroups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT name, category FROM muscle_group ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []MuscleGroup
	for rows.Next() {
		var g MuscleGroup
		if err := rows.Scan(&g.Name, &g.Category); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
