package api

import (
	"crypto/sha256"
	"encoding/binary"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/cache"
	"github.com/felixphool/healthtwin/internal/domain"
	"github.com/felixphool/healthtwin/internal/scoring"
	"github.com/felixphool/healthtwin/internal/twin"
)

// handleHealth handles liveness checks
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   scoring.EngineVersion,
	})
}

// handleScore scores a raw parameter mapping. With a session_id query
// parameter the result is also persisted as that session's current score.
func (s *Server) handleScore(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "request body must be a JSON object", err)
		return
	}

	params, err := scoring.ParseParameters(raw)
	if err != nil {
		s.respondValidationError(c, err)
		return
	}

	key := cache.Key(params)
	result, hit := s.deps.Cache.Get(c.Request.Context(), key)
	if !hit {
		result, err = s.deps.Engine.Score(c.Request.Context(), params)
		if err != nil {
			s.respondError(c, http.StatusInternalServerError, domain.ErrCodeScoring, "scoring failed", err)
			return
		}
		s.deps.Cache.Set(c.Request.Context(), key, result)
	}

	if sessionID := c.Query("session_id"); sessionID != "" {
		if err := s.persistScore(c, sessionID, 0, result); err != nil {
			return
		}
	}

	c.JSON(http.StatusOK, result)
}

// twinRequest describes the patient a digital twin is generated for.
type twinRequest struct {
	Age        int      `json:"age" binding:"required,min=1,max=120"`
	Gender     string   `json:"gender" binding:"required,oneof=M F"`
	Conditions []string `json:"conditions"`
	Seed       int64    `json:"seed"`
}

// handleCreateTwin creates a patient session with a generated baseline
// and its initial score.
func (s *Server) handleCreateTwin(c *gin.Context) {
	var req twinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid twin request", err)
		return
	}

	session, err := s.deps.Sessions.Create(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, "creating session failed", err)
		return
	}

	seed := req.Seed
	if seed == 0 {
		// Derive a stable seed from the session ID so re-reads of the
		// twin reproduce the same baseline.
		sum := sha256.Sum256([]byte(session.ID))
		seed = int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	}

	baseline := twin.GenerateBaseline(twin.Profile{
		Age:        req.Age,
		Gender:     req.Gender,
		Conditions: req.Conditions,
		Seed:       seed,
	})

	result, err := s.deps.Engine.Score(c.Request.Context(), baseline)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeScoring, "scoring baseline failed", err)
		return
	}

	if err := s.persistScore(c, session.ID, 0, result); err != nil {
		return
	}

	s.deps.Logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"age":        req.Age,
		"score":      result.OverallScore,
	}).Info("Digital twin created")

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"seed":       seed,
		"baseline":   baseline,
		"result":     result,
	})
}

// simulateRequest is the body of POST /simulate and of the websocket
// stream's opening message.
type simulateRequest struct {
	SessionID    string            `json:"session_id"`
	Baseline     map[string]any    `json:"baseline" binding:"required"`
	Intervention twin.Intervention `json:"intervention"`
	Weeks        int               `json:"weeks" binding:"required,min=1,max=52"`
}

// handleSimulate projects a baseline under an intervention and returns
// the scored weekly series. With a session_id the weekly records are
// persisted.
func (s *Server) handleSimulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid simulation request", err)
		return
	}

	baseline, err := scoring.ParseParameters(req.Baseline)
	if err != nil {
		s.respondValidationError(c, err)
		return
	}

	outcomes, err := s.deps.Simulator.Simulate(c.Request.Context(), baseline, req.Intervention, req.Weeks)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeScoring, "simulation failed", err)
		return
	}

	if req.SessionID != "" {
		for _, outcome := range outcomes {
			if err := s.persistScore(c, req.SessionID, outcome.Week, outcome.Result); err != nil {
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"weeks":    req.Weeks,
		"outcomes": outcomes,
	})
}

// handleHistory returns a session's persisted score runs ordered by week.
func (s *Server) handleHistory(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := s.deps.Sessions.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, "looking up session failed", err)
		return
	}
	if session == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrCodeInvalidInput, "session not found", nil)
		return
	}

	records, err := s.deps.History.GetBySession(c.Request.Context(), sessionID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, "loading history failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"records":    records,
	})
}

// persistScore saves one score record and bumps the session. It writes
// the error response itself and reports success via nil.
func (s *Server) persistScore(c *gin.Context, sessionID string, week int, result *domain.HealthScoreResult) error {
	session, err := s.deps.Sessions.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, "looking up session failed", err)
		return err
	}
	if session == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrCodeInvalidInput, "session not found", nil)
		return errSessionMissing
	}

	record := &domain.ScoreRecord{
		SessionID:    sessionID,
		Week:         week,
		OverallScore: result.OverallScore,
		Category:     result.Category,
		Result:       result,
	}
	if err := s.deps.History.Save(c.Request.Context(), record); err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, "saving score failed", err)
		return err
	}

	if err := s.deps.Sessions.Touch(c.Request.Context(), sessionID); err != nil {
		s.deps.Logger.WithError(err).Warn("Failed to touch session")
	}
	return nil
}

var errSessionMissing = &domain.ValidationError{Field: "session_id", Message: "session not found"}

// respondValidationError maps validation failures to 400 with the field
// that caused them.
func (s *Server) respondValidationError(c *gin.Context, err error) {
	if verr, ok := domain.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      verr.Message,
			"field":      verr.Field,
			"code":       domain.ErrCodeValidation,
			"request_id": c.GetString("request_id"),
		})
		return
	}
	s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, "invalid parameters", err)
}

func (s *Server) respondError(c *gin.Context, status int, code, message string, err error) {
	if err != nil {
		s.deps.Logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"status":     status,
			"code":       code,
			"error":      err,
		}).Warn(message)
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": c.GetString("request_id"),
	})
}
