package audit

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pfengine/internal/engine/diagnostics"
)

// Recorder writes one RunRecord per evaluation pass. A nil DB (audit
// persistence disabled) makes every method a no-op, so callers never need to
// branch on whether auditing is configured.
type Recorder struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewRecorder builds a Recorder. db may be nil.
func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{DB: db, Logger: logger}
}

// Record persists one pass's outcome. solverConverged is nil when the caller
// supplies no convergence result; the HTTP evaluate handler always passes nil.
func (r *Recorder) Record(runID string, startedAt time.Time, diags []diagnostics.Diagnostic, solverConverged *bool) {
	if r == nil || r.DB == nil {
		return
	}

	payload, err := json.Marshal(diags)
	if err != nil {
		r.Logger.Warn("failed to marshal diagnostics for audit record", zap.Error(err))
		payload = []byte("[]")
	}

	hasErrors := false
	for _, d := range diags {
		if d.Severity == diagnostics.SeverityError {
			hasErrors = true
			break
		}
	}

	rec := RunRecord{
		RunID:           runID,
		StartedAt:       startedAt,
		DurationMs:      time.Since(startedAt).Milliseconds(),
		DiagnosticCount: len(diags),
		HasErrors:       hasErrors,
		Diagnostics:     payload,
		SolverConverged: solverConverged,
	}

	if err := r.DB.Create(&rec).Error; err != nil {
		r.Logger.Warn("failed to write audit record", zap.String("run_id", runID), zap.Error(err))
	}
}
