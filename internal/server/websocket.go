package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pfengine/internal/engine/workbook"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// periodMessage is one frame of the streamed evaluation: every context ref's
// value at a single month index, plus whether this is the final frame.
type periodMessage struct {
	Period int                `json:"period"`
	Values map[string]float64 `json:"values"`
	Final  bool               `json:"final"`
}

// StreamEvaluate handles GET /ws/evaluate: evaluates the posted workbook once
// (synchronously, same as /evaluate) then streams its context one monthly
// period at a time so a client can render a running chart without waiting
// for the whole payload. This streams the finished context period-by-period
// rather than the solver's own search trajectory: Solve (§4.7) only records
// a final SolverLog, not a per-iteration trace, so there is nothing to
// stream mid-search.
func (h *Handler) StreamEvaluate(c *gin.Context) {
	var wb workbook.Workbook
	if err := c.ShouldBindJSON(&wb); err != nil {
		// A websocket handshake can't carry a JSON body via ShouldBindJSON in
		// every client; fall back to a query-string-carried payload isn't
		// supported, so an invalid/missing body just closes with a policy error.
		conn, upErr := upgrader.Upgrade(c.Writer, c.Request, nil)
		if upErr == nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid workbook payload"),
				time.Now().Add(time.Second))
			_ = conn.Close()
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	out := workbook.Evaluate(wb)

	n := 0
	for _, arr := range out.Context {
		if len(arr) > n {
			n = len(arr)
		}
	}

	for i := 0; i < n; i++ {
		values := make(map[string]float64, len(out.Context))
		for ref, arr := range out.Context {
			if i < len(arr) {
				values[ref] = arr[i]
			}
		}
		msg := periodMessage{Period: i, Values: values, Final: i == n-1}
		if err := conn.WriteJSON(msg); err != nil {
			h.Logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
	if n == 0 {
		_ = conn.WriteJSON(periodMessage{Final: true})
	}
}
