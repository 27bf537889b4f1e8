package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/history"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/metrics"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=generator_test

type catalogReader interface {
	ListMovements(ctx context.Context, difficulty catalog.Difficulty) ([]catalog.Movement, error)
	ListTransitions(ctx context.Context) ([]catalog.Transition, error)
	ListFlankingItems(ctx context.Context, sectionType catalog.SectionType) ([]catalog.FlankingItem, error)
}

type paramsLoader interface {
	Load(ctx context.Context) (params.Params, error)
}

type historyReader interface {
	ListUsageForUser(ctx context.Context, userID string) (map[string]history.UsageRecord, error)
	GetExclusionProfile(ctx context.Context, studentProfileID string) (*history.ExclusionProfile, error)
}

type usageWriter interface {
	RecordUsage(userID string, movementIDs []string)
}

// Request is a single class generation request.
type Request struct {
	UserID           string             `json:"userId"`
	StudentProfileID string             `json:"studentProfileId,omitempty"`
	DurationMinutes  int                `json:"durationMinutes"`
	Difficulty       catalog.Difficulty `json:"difficultyLevel"`
	FocusAreas       []string           `json:"focusAreas,omitempty"`
}

func (r Request) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user id is empty")
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty level: %s", r.Difficulty)
	}
	return nil
}

// focusBoost is the novelty multiplier for movements matching a
// requested focus area. A nudge, not a guarantee.
const focusBoost = 1.25

// snapshot carries every input of a generation, fetched up front. After
// the snapshot is loaded the whole pipeline is a pure computation, no
// further I/O happens until the result is out.
type snapshot struct {
	Params      params.Params
	Movements   []catalog.Movement
	Transitions []catalog.Transition
	Flanking    map[catalog.SectionType][]catalog.FlankingItem
	Usage       map[string]history.UsageRecord
	Profile     *history.ExclusionProfile
	Now         time.Time
}

// Generator assembles and validates class sequences. Stateless between
// requests, so concurrent generations for different users are fully
// independent.
type Generator struct {
	catalog        catalogReader
	params         paramsLoader
	history        historyReader
	usageWriter    usageWriter
	metricsManager *metrics.Manager
	nowFunc        func() time.Time
}

func New(
	catalogRepo catalogReader,
	paramsRepo paramsLoader,
	historyRepo historyReader,
	writer usageWriter,
	metricsManager *metrics.Manager,
) *Generator {
	return &Generator{
		catalog:        catalogRepo,
		params:         paramsRepo,
		history:        historyRepo,
		usageWriter:    writer,
		metricsManager: metricsManager,
		nowFunc:        time.Now,
	}
}

// Generate runs the full pipeline: exclusion gate, snapshot load, budget,
// candidate selection, sequence building, flanking selection, validation.
// On success, usage history is recorded best-effort in the background.
func (g *Generator) Generate(ctx context.Context, req Request) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "generator.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", req.UserID),
		attribute.String("difficulty", string(req.Difficulty)),
		attribute.Int("duration.minutes", req.DurationMinutes),
	)

	defer func(begin time.Time) {
		if g.metricsManager != nil {
			g.metricsManager.HistGenerationDuration.Observe(time.Since(begin).Seconds())
		}
	}(time.Now())

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	// the exclusion gate runs before any catalog read
	var profile *history.ExclusionProfile
	if req.StudentProfileID != "" {
		profile, err = g.history.GetExclusionProfile(ctx, req.StudentProfileID)
		if err != nil {
			return nil, fmt.Errorf("get exclusion profile: %w", err)
		}
		if profile.BlocksGeneration() {
			g.countOutcome(req.Difficulty, "medical_exclusion")
			if g.metricsManager != nil {
				g.metricsManager.CounterMedicalExclusions.Inc()
			}
			return nil, &MedicalExclusionError{
				StudentProfileID: req.StudentProfileID,
				Reason:           "pregnancy contraindication",
			}
		}
	}

	snap, err := g.loadSnapshot(ctx, req, profile)
	if err != nil {
		g.countOutcome(req.Difficulty, "snapshot_error")
		return nil, err
	}

	result, err := generate(req, snap)
	if err != nil {
		g.countOutcome(req.Difficulty, outcomeLabel(err))
		return nil, err
	}

	g.countOutcome(req.Difficulty, "ok")
	g.countRelaxations(result.Report)
	if g.metricsManager != nil && len(result.Report.TransitionFallbacks) > 0 {
		g.metricsManager.CounterTransitionFallbacks.Add(float64(len(result.Report.TransitionFallbacks)))
	}

	var usedMovementIDs []string
	for _, section := range result.Sequence.Movements() {
		usedMovementIDs = append(usedMovementIDs, section.ItemID)
	}
	g.usageWriter.RecordUsage(req.UserID, usedMovementIDs)

	return result, nil
}

func (g *Generator) loadSnapshot(
	ctx context.Context,
	req Request,
	profile *history.ExclusionProfile,
) (_ *snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "generator.loadSnapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := g.params.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load planning params: %w", err)
	}

	movements, err := g.catalog.ListMovements(ctx, req.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	transitions, err := g.catalog.ListTransitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}

	flanking := make(map[catalog.SectionType][]catalog.FlankingItem)
	for _, sectionType := range []catalog.SectionType{
		catalog.SectionPreparation,
		catalog.SectionWarmup,
		catalog.SectionCooldown,
		catalog.SectionMeditation,
		catalog.SectionHomeCare,
	} {
		items, err := g.catalog.ListFlankingItems(ctx, sectionType)
		if err != nil {
			return nil, fmt.Errorf("list flanking items [%s]: %w", sectionType, err)
		}
		flanking[sectionType] = items
	}

	usage, err := g.history.ListUsageForUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}

	return &snapshot{
		Params:      p,
		Movements:   movements,
		Transitions: transitions,
		Flanking:    flanking,
		Usage:       usage,
		Profile:     profile,
		Now:         g.nowFunc(),
	}, nil
}

// generate is the pure pipeline over a loaded snapshot. Given identical
// snapshots and requests it always produces the identical sequence.
func generate(req Request, snap *snapshot) (*Result, error) {
	b, err := computeBudget(req.DurationMinutes, req.Difficulty, snap.Params)
	if err != nil {
		return nil, err
	}

	candidates := buildCandidates(
		snap.Movements, snap.Usage, snap.Profile.Avoided(), snap.Now, snap.Params,
	)
	candidates = applyFocusBoost(candidates, req.FocusAreas)

	built, err := buildMainSequence(
		candidates, b.TargetCount, req.Difficulty, snap.Transitions, snap.Params,
	)
	if err != nil {
		return nil, err
	}

	flanking := selectFlanking(built.Movements, snap.Flanking)
	sequence := assembleSequence(req.Difficulty, built, flanking, snap.Params)

	movementIndex := make(map[string]catalog.Movement, len(snap.Movements))
	for _, m := range snap.Movements {
		movementIndex[m.ID] = m
	}

	outcomes, err := validateSequence(
		sequence, movementIndex, snap.Usage, snap.Movements, snap.Now, snap.Params,
	)
	if err != nil {
		return nil, fmt.Errorf("validate sequence: %w", err)
	}

	return &Result{
		Sequence: sequence,
		Report: QualityReport{
			Outcomes:            outcomes,
			Score:               scoreFromOutcomes(outcomes),
			RelaxationsUsed:     built.RelaxationsUsed,
			TransitionFallbacks: built.TransitionFallbacks,
		},
	}, nil
}

// applyFocusBoost nudges movements working a requested focus area up the
// candidate list. Order within equal scores stays stable.
func applyFocusBoost(candidates []candidate, focusAreas []string) []candidate {
	if len(focusAreas) == 0 {
		return candidates
	}
	focus := make(map[string]bool, len(focusAreas))
	for _, area := range focusAreas {
		focus[area] = true
	}

	boosted := false
	for i := range candidates {
		for _, m := range candidates[i].movement.PrimaryMuscles {
			if focus[m] {
				candidates[i].novelty *= focusBoost
				boosted = true
				break
			}
		}
	}
	if !boosted {
		return candidates
	}
	return resortCandidates(candidates)
}

func assembleSequence(
	difficulty catalog.Difficulty,
	built *builtSequence,
	flanking flankingSelection,
	p params.Params,
) GeneratedSequence {
	var sections []Section

	appendFlanking := func(sectionType catalog.SectionType, item *catalog.FlankingItem) {
		if item == nil {
			log.Warnf("no active flanking item for section [%s]", sectionType)
			return
		}
		sections = append(sections, Section{
			Type:            sectionType,
			ItemID:          item.ID,
			DurationSeconds: p.SectionDurations[sectionType],
			Narrative:       item.Narrative,
		})
	}

	appendFlanking(catalog.SectionPreparation, flanking.Preparation)
	appendFlanking(catalog.SectionWarmup, flanking.Warmup)

	teachingSeconds := p.TeachingTimePerMovement[difficulty]
	for _, chosen := range built.Movements {
		sections = append(sections, Section{
			Type:            catalog.SectionMovement,
			ItemID:          chosen.Movement.ID,
			Name:            chosen.Movement.Name,
			ChosenLevel:     chosen.Level,
			DurationSeconds: teachingSeconds,
		})
		if chosen.Transition != nil {
			durationSeconds := chosen.Transition.DurationSeconds
			if durationSeconds == 0 {
				durationSeconds = p.TransitionTimeSeconds
			}
			sections = append(sections, Section{
				Type:            catalog.SectionTransition,
				DurationSeconds: durationSeconds,
				Narrative:       chosen.Transition.Narrative,
			})
		}
	}

	appendFlanking(catalog.SectionCooldown, flanking.Cooldown)
	appendFlanking(catalog.SectionMeditation, flanking.Meditation)
	appendFlanking(catalog.SectionHomeCare, flanking.HomeCare)

	total := 0
	for _, section := range sections {
		total += section.DurationSeconds
	}

	return GeneratedSequence{
		Sections:      sections,
		MovementCount: len(built.Movements),
		Difficulty:    difficulty,
		TotalSeconds:  total,
	}
}

func (g *Generator) countOutcome(difficulty catalog.Difficulty, outcome string) {
	if g.metricsManager == nil {
		return
	}
	g.metricsManager.CounterGeneratedClasses.With(prometheus.Labels{
		"difficulty": string(difficulty),
		"outcome":    outcome,
	}).Inc()
}

func (g *Generator) countRelaxations(report QualityReport) {
	if g.metricsManager == nil {
		return
	}
	for _, relaxation := range report.RelaxationsUsed {
		g.metricsManager.CounterRuleRelaxations.With(prometheus.Labels{
			"rule": relaxation.String(),
		}).Inc()
	}
}

func outcomeLabel(err error) string {
	switch err.(type) {
	case *DurationTooShortError:
		return "duration_too_short"
	case *InsufficientRepertoireError:
		return "insufficient_repertoire"
	default:
		return "error"
	}
}
