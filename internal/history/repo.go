package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/tracing"
	"github.com/Lauraredmond/pilates-class-generator-sub004/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProfileNotFound = errors.New("exclusion profile not found")

const exclusionProfileCacheExpire = 10 * time.Minute

// dbPool is the part of pgxpool.Pool the repo uses, kept narrow so
// tests can stand in for the pool.
type dbPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repo struct {
	db          dbPool
	redisClient *redis.Client
}

func NewRepo(db dbPool, redisClient *redis.Client) *Repo {
	return &Repo{
		db:          db,
		redisClient: redisClient,
	}
}

// GetUsage returns the usage record for a (user, movement) pair,
// or nil when the movement was never used by the user.
func (r *Repo) GetUsage(ctx context.Context, userID, movementID string) (_ *UsageRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.getUsage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("movement.id", movementID),
	)

	var rec UsageRecord
	err = r.db.QueryRow(
		ctx,
		`SELECT user_id, movement_id, last_used, count
			FROM usage_record
			WHERE user_id = $1 AND movement_id = $2;`,
		userID, movementID,
	).Scan(&rec.UserID, &rec.MovementID, &rec.LastUsed, &rec.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListUsageForUser returns all usage records of a user, keyed by movement ID.
func (r *Repo) ListUsageForUser(ctx context.Context, userID string) (_ map[string]UsageRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.listUsageForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT user_id, movement_id, last_used, count
			FROM usage_record
			WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]UsageRecord)
	for rows.Next() {
		var rec UsageRecord
		if err := rows.Scan(&rec.UserID, &rec.MovementID, &rec.LastUsed, &rec.Count); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		usage[rec.MovementID] = rec
	}
	return usage, rows.Err()
}

// IncrementUsage upserts the usage counter of a (user, movement) pair.
// Callers treat this as fire-and-forget; concurrent generations for the
// same user may lose an increment, which is fine for a novelty metric.
func (r *Repo) IncrementUsage(ctx context.Context, userID, movementID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.incrementUsage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("movement.id", movementID),
	)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO usage_record (user_id, movement_id, last_used, count)
			VALUES ($1, $2, NOW(), 1)
			ON CONFLICT (user_id, movement_id)
			DO UPDATE SET last_used = NOW(), count = usage_record.count + 1;`,
		userID, movementID,
	)
	if pkg.IsForeignKeyViolationError(err) {
		return fmt.Errorf("movement %s not in catalog: %w", movementID, err)
	}
	return err
}

// GetExclusionProfile returns a student's exclusion profile, trying the
// redis cache first. Cache problems are logged and ignored, the database
// stays authoritative for medical data.
func (r *Repo) GetExclusionProfile(ctx context.Context, studentProfileID string) (_ *ExclusionProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.getExclusionProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("student.profile.id", studentProfileID))

	cacheKey := fmt.Sprintf("exclusion-profile::%s", studentProfileID)
	if r.redisClient != nil {
		cmd := r.redisClient.Get(ctx, cacheKey)
		if cachedBytes := cmd.Val(); cachedBytes != "" {
			span.SetAttributes(attribute.Bool("profile.from-cache", true))
			profile := &ExclusionProfile{}
			unmarshalErr := json.Unmarshal([]byte(cachedBytes), profile)
			if unmarshalErr == nil {
				return profile, nil
			}
			log.Errorf("unmarshal cached exclusion profile [%s]: %s", studentProfileID, unmarshalErr)
		}
	}

	profile := &ExclusionProfile{}
	err = r.db.QueryRow(
		ctx,
		`SELECT student_profile_id, is_pregnant, contraindications, avoid_list
			FROM exclusion_profile
			WHERE student_profile_id = $1;`,
		studentProfileID,
	).Scan(&profile.StudentProfileID, &profile.IsPregnant, &profile.Contraindications, &profile.AvoidList)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		profileBytes, err := json.Marshal(profile)
		if err != nil {
			log.Errorf("marshal exclusion profile for cache [%s]: %s", studentProfileID, err)
			return profile, nil
		}
		if err := r.redisClient.Set(ctx, cacheKey, profileBytes, exclusionProfileCacheExpire).Err(); err != nil {
			log.Errorf("cache exclusion profile [%s]: %s", studentProfileID, err)
		}
	}

	return profile, nil
}
