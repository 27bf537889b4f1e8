package history

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const usageWriteTimeout = 10 * time.Second

type usageIncrementer interface {
	IncrementUsage(ctx context.Context, userID, movementID string) error
}

// AsyncWriter records movement usage in the background. Generation must
// never block on, or fail because of, a history write; failures are
// logged and dropped.
type AsyncWriter struct {
	repo usageIncrementer
}

func NewAsyncWriter(repo usageIncrementer) *AsyncWriter {
	return &AsyncWriter{
		repo: repo,
	}
}

// RecordUsage increments usage counters for all given movements without
// blocking the caller. The write detaches from the request context since
// the response will usually be sent before the write lands.
func (w *AsyncWriter) RecordUsage(userID string, movementIDs []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), usageWriteTimeout)
		defer cancel()

		for _, movementID := range movementIDs {
			if err := w.repo.IncrementUsage(ctx, userID, movementID); err != nil {
				log.Errorf("record usage [%s] [%s]: %s", userID, movementID, err)
			}
		}
	}()
}
