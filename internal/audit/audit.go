// Package audit persists a ledger of evaluation runs: one RunRecord per
// Evaluate call, recording its diagnostics and, when the caller supplies it,
// whether its debt sizer converged. It mirrors the teacher's migrator pattern
// (internal/database/migrator.go) scoped to a single table.
package audit

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RunRecord is one evaluation pass's audit trail.
type RunRecord struct {
	ID              uint           `gorm:"primaryKey"`
	RunID           string         `gorm:"uniqueIndex;size:64"`
	StartedAt       time.Time      `gorm:"index"`
	DurationMs      int64
	DiagnosticCount int
	HasErrors       bool
	Diagnostics     datatypes.JSON
	SolverConverged *bool
}

func (RunRecord) TableName() string { return "run_records" }

// AutoMigrate creates or updates the run_records table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&RunRecord{})
}

// VacuumOlderThan deletes run records started before the cutoff, for the
// periodic cron janitor.
func VacuumOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("started_at < ?", cutoff).Delete(&RunRecord{})
	return res.RowsAffected, res.Error
}
