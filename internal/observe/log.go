package observe

import (
	"context"

	"signin-screen/internal/provider"
	"signin-screen/pkg/logger"
)

// LogRecorder writes outcomes to the structured log.
type LogRecorder struct {
	log *logger.Logger
}

// NewLogRecorder creates a LogRecorder.
func NewLogRecorder(log *logger.Logger) *LogRecorder {
	return &LogRecorder{log: log.Named("session")}
}

// Record implements Recorder.
func (r *LogRecorder) Record(_ context.Context, o Outcome) {
	entry := r.log.WithFields(map[string]interface{}{
		"action":      string(o.Action),
		"result":      o.Result,
		"duration_ms": o.Duration.Milliseconds(),
	})

	switch o.Result {
	case ResultSuccess:
		entry.Info("Session action completed")
	case string(provider.KindCancelled):
		entry.Info("User cancelled the sign-in flow")
	case string(provider.KindInProgress):
		entry.Info("Sign-in is already in progress")
	case string(provider.KindPrerequisitesUnavailable):
		entry.WithError(o.Err).Warn("Sign-in services unavailable")
	default:
		entry.WithError(o.Err).Error("Session action failed")
	}
}
