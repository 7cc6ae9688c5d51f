package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pfengine/internal/engine/diagnostics"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestRecorder_RecordPersistsDiagnosticsAndConvergence(t *testing.T) {
	db := openTestDB(t)
	r := NewRecorder(db, nil)

	diags := []diagnostics.Diagnostic{
		diagnostics.New(diagnostics.CodeCircularDependency, diagnostics.SeverityError, "R1", "cycle"),
	}
	converged := true
	r.Record("run-1", time.Now(), diags, &converged)

	var got RunRecord
	require.NoError(t, db.First(&got, "run_id = ?", "run-1").Error)
	assert.Equal(t, 1, got.DiagnosticCount)
	assert.True(t, got.HasErrors)
	require.NotNil(t, got.SolverConverged)
	assert.True(t, *got.SolverConverged)
}

func TestRecorder_NilDBIsNoOp(t *testing.T) {
	r := NewRecorder(nil, nil)
	assert.NotPanics(t, func() {
		r.Record("run-2", time.Now(), nil, nil)
	})
}

func TestVacuumOlderThan_DeletesOldRows(t *testing.T) {
	db := openTestDB(t)
	r := NewRecorder(db, nil)
	r.Record("old", time.Now().Add(-48*time.Hour), nil, nil)
	r.Record("new", time.Now(), nil, nil)

	n, err := VacuumOlderThan(db, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var remaining []RunRecord
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].RunID)
}
