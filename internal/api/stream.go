package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/felixphool/healthtwin/internal/scoring"
	"github.com/felixphool/healthtwin/internal/twin"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The API is origin-agnostic; CORS policy is enforced at the HTTP
	// layer for the rest of the surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFrame is one websocket message: a simulated week, or the closing
// summary when Done is set.
type streamFrame struct {
	Week    int    `json:"week,omitempty"`
	Outcome any    `json:"outcome,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleSimulateStream upgrades to a websocket, reads one simulateRequest
// message, and streams a frame per projected week in order.
func (s *Server) handleSimulateStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var req simulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.writeStreamError(conn, "invalid simulation request: "+err.Error())
		return
	}
	if req.Baseline == nil || req.Weeks < 1 || req.Weeks > 52 {
		s.writeStreamError(conn, "baseline and weeks (1-52) are required")
		return
	}

	baseline, err := scoring.ParseParameters(req.Baseline)
	if err != nil {
		s.writeStreamError(conn, err.Error())
		return
	}

	ctx := c.Request.Context()
	for week := 1; week <= req.Weeks; week++ {
		projected := twin.Project(baseline, req.Intervention, week)
		result, err := s.deps.Engine.Score(ctx, projected)
		if err != nil {
			s.writeStreamError(conn, err.Error())
			return
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		frame := streamFrame{
			Week: week,
			Outcome: twin.WeekOutcome{
				Week:       week,
				Parameters: projected,
				Result:     result,
			},
		}
		if err := conn.WriteJSON(frame); err != nil {
			s.deps.Logger.WithError(err).Debug("Websocket client went away")
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(streamFrame{Done: true})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) writeStreamError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(streamFrame{Error: message})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""))
}
