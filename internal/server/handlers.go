package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pfengine/internal/cache"
	"pfengine/internal/engine/diagnostics"
	"pfengine/internal/engine/orchestrator"
	"pfengine/internal/engine/workbook"
	"pfengine/internal/shared"
)

// evaluateResponse is the wire shape of a successful /evaluate call.
type evaluateResponse struct {
	RunID       string               `json:"runId"`
	Context     map[string][]float64 `json:"context"`
	Diagnostics []diagnosticResponse `json:"diagnostics"`
	CacheHit    bool                 `json:"cacheHit"`
}

type diagnosticResponse struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Ref      string `json:"ref,omitempty"`
	Message  string `json:"message"`
}

// Evaluate handles POST /evaluate: bind a workbook payload, run it (through
// the cache when configured), persist an audit record, and respond.
//
//	@Summary		Evaluate a workbook
//	@Description	Runs one full evaluation pass over a workbook payload
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	evaluateResponse
//	@Router			/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	var wb workbook.Workbook
	if err := c.ShouldBindJSON(&wb); err != nil {
		shared.RespondWithAppError(c, shared.ErrWorkbookInvalid.WithError(err))
		return
	}

	started := time.Now()
	runID := uuid.NewString()

	out, fromCache := evaluateWithCache(c.Request.Context(), h.Cache, wb)
	h.Recorder.Record(runID, started, out.Diagnostics, nil)

	h.Logger.Info("evaluate request handled",
		zap.String("run_id", runID),
		zap.Bool("cache_hit", fromCache),
		zap.Int("diagnostic_count", len(out.Diagnostics)),
		zap.Duration("duration", time.Since(started)),
	)

	shared.RespondWithSuccess(c, http.StatusOK, "", evaluateResponse{
		RunID:       runID,
		Context:     out.Context,
		Diagnostics: toDiagnosticResponses(out.Diagnostics),
		CacheHit:    fromCache,
	})
}

// evaluateWithCache resolves wb through the cache, falling back to a live
// Evaluate on a miss and writing the result back. A nil cache always misses.
func evaluateWithCache(ctx context.Context, c *cache.Cache, wb workbook.Workbook) (orchestrator.Output, bool) {
	key, err := cache.Key(wb)
	if err == nil && c != nil {
		if out, ok := c.Get(ctx, key); ok {
			return out, true
		}
	}

	out := workbook.Evaluate(wb)

	if err == nil && c != nil {
		c.Set(ctx, key, out)
	}
	return out, false
}

func toDiagnosticResponses(diags []diagnostics.Diagnostic) []diagnosticResponse {
	out := make([]diagnosticResponse, len(diags))
	for i, d := range diags {
		out[i] = diagnosticResponse{Code: string(d.Code), Severity: string(d.Severity), Ref: d.Ref, Message: d.Message}
	}
	return out
}
