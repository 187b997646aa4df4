package observe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"signin-screen/pkg/logger"
)

// HashCounter is the subset of the redis client the tally needs.
type HashCounter interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// TallyRecorder keeps per action:result counters in a redis hash so they
// survive restarts and are shared between instances.
type TallyRecorder struct {
	store HashCounter
	key   string
	log   *logger.Logger
}

// NewTallyRecorder creates a TallyRecorder writing to the hash at key.
func NewTallyRecorder(store HashCounter, key string, log *logger.Logger) *TallyRecorder {
	return &TallyRecorder{store: store, key: key, log: log}
}

// Record implements Recorder. Store errors are logged and dropped.
func (r *TallyRecorder) Record(ctx context.Context, o Outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if _, err := r.store.HIncrBy(ctx, r.key, o.Field(), 1); err != nil {
		r.log.WithError(err).WithField("field", o.Field()).Warn("Failed to record outcome tally")
	}
}

// Tallies returns the current counters keyed by "action:result".
func (r *TallyRecorder) Tallies(ctx context.Context) (map[string]int64, error) {
	raw, err := r.store.HGetAll(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("read outcome tallies: %w", err)
	}

	tallies := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse tally %q: %w", field, err)
		}
		tallies[field] = n
	}
	return tallies, nil
}
