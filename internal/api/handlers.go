package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MilestoneView is a catalog rule with its unlock state.
type MilestoneView struct {
	milestone.Rule
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// EventRequest is the body of POST /v1/events. OccurredAt defaults to now
// and Completed to true.
type EventRequest struct {
	ID         string     `json:"id"`
	OccurredAt *time.Time `json:"occurred_at"`
	Completed  *bool      `json:"completed"`
	GoalIDs    []string   `json:"goal_ids"`
}

// GET /healthz
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /v1/metrics evaluates without persisting anything.
func (s *Server) metricsHandler(c *gin.Context) {
	res, ok := s.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/evaluate evaluates and persists unlocks and level-ups.
func (s *Server) evaluateHandler(c *gin.Context) {
	res, ok := s.evaluate(c)
	if !ok {
		return
	}
	if err := s.store.Persist(c.Request.Context(), res); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("evaluation persisted",
		"unlocked", len(res.Unlocks),
		"level_ups", len(res.LevelUps),
	)
	c.JSON(http.StatusOK, res)
}

// GET /v1/heatmap
func (s *Server) heatmapHandler(c *gin.Context) {
	now, ok := s.now(c)
	if !ok {
		return
	}
	in, err := s.store.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	cells, err := s.engine.Heatmap(now, in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cells": cells})
}

// POST /v1/events
func (s *Server) addEventHandler(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBody{
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		}})
		return
	}

	e := record.AlignmentEvent{
		ID:        req.ID,
		Completed: true,
		GoalIDs:   req.GoalIDs,
	}
	if req.OccurredAt != nil {
		e.OccurredAt = *req.OccurredAt
	} else {
		e.OccurredAt = s.clock.Now()
	}
	if req.Completed != nil {
		e.Completed = *req.Completed
	}

	saved, inserted, err := s.store.AddEvent(c.Request.Context(), e)
	if err != nil {
		s.fail(c, err)
		return
	}
	status := http.StatusCreated
	if !inserted {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"event": saved, "inserted": inserted})
}

// GET /v1/milestones
func (s *Server) milestonesHandler(c *gin.Context) {
	unlocked, err := s.store.Unlocked(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	at := make(map[string]time.Time, len(unlocked))
	for _, u := range unlocked {
		at[u.MilestoneID] = u.UnlockedAt
	}

	rules := s.engine.Catalog()
	views := make([]MilestoneView, len(rules))
	for i, r := range rules {
		views[i] = MilestoneView{Rule: r}
		if t, ok := at[r.ID]; ok {
			views[i].Unlocked = true
			views[i].UnlockedAt = &t
		}
	}
	c.JSON(http.StatusOK, gin.H{"milestones": views})
}

func (s *Server) evaluate(c *gin.Context) (*engine.Result, bool) {
	now, ok := s.now(c)
	if !ok {
		return nil, false
	}
	in, err := s.store.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	res, err := s.engine.Evaluate(now, in)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return res, true
}

// now reads the optional RFC 3339 "now" query parameter.
func (s *Server) now(c *gin.Context) (time.Time, bool) {
	raw := c.Query("now")
	if raw == "" {
		return s.clock.Now(), true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBody{
			Code:    "BAD_REQUEST",
			Message: fmt.Sprintf("invalid now %q: want RFC 3339", raw),
		}})
		return time.Time{}, false
	}
	return t, true
}

// fail maps engine runtime errors to 409/422 and everything else to 500.
func (s *Server) fail(c *gin.Context, err error) {
	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		status := http.StatusUnprocessableEntity
		if rtErr.Code == engine.ErrCodeClockSkew {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": ErrorBody{
			Code:    string(rtErr.Code),
			Message: rtErr.Message,
			Details: rtErr.Details,
		}})
		return
	}
	s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorBody{
		Code:    "INTERNAL",
		Message: "internal error",
	}})
}
