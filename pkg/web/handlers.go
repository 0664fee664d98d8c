package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/session"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleStatus returns the active session snapshot, or running=false.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	active := s.manager.Active()
	if active == nil {
		return c.JSON(fiber.Map{"running": false})
	}
	return c.JSON(fiber.Map{
		"running": true,
		"status":  active.Status(),
	})
}

// handleStats exposes ingest and speech counters.
func (s *Server) handleStats(c *fiber.Ctx) error {
	stats := fiber.Map{
		"dashboard_clients": s.dashHub.ClientCount(),
	}
	if s.ingest != nil {
		stats["ingest"] = s.ingest.GetStats()
	}
	if s.dispatch != nil {
		stats["speech"] = fiber.Map{
			"pending": s.dispatch.Pending(),
			"spoken":  s.dispatch.Spoken(),
			"dropped": s.dispatch.Dropped(),
			"busy":    s.dispatch.Busy(),
		}
	}
	return c.JSON(stats)
}

type startRequest struct {
	Exercise string `json:"exercise"`
	Mode     string `json:"mode"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
}

// handleStartSession begins a workout.
func (s *Server) handleStartSession(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	mode := exercise.Mode(req.Mode)
	if req.Mode != "" && !mode.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown mode"})
	}

	sess, err := s.manager.Start(session.Config{
		Exercise: req.Exercise,
		Mode:     mode,
		GoalSets: req.Sets,
		GoalReps: req.Reps,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionActive) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"session_id": sess.ID(),
		"status":     sess.Status(),
	})
}

// handleStopSession ends the workout and returns the aggregate result.
func (s *Server) handleStopSession(c *fiber.Ctx) error {
	res, err := s.manager.Stop(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"session_id":       res.SessionID,
		"exercise":         res.Exercise,
		"sets_completed":   res.SetsCompleted,
		"total_reps":       res.TotalReps,
		"warnings":         res.Warnings,
		"duration_seconds": int(res.Duration.Seconds()),
	})
}

// handleResetSession restarts the workout with the same goals.
func (s *Server) handleResetSession(c *fiber.Ctx) error {
	sess, err := s.manager.Reset(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"session_id": sess.ID(),
		"status":     sess.Status(),
	})
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// handleSetMode toggles between workout and test-posture coaching.
func (s *Server) handleSetMode(c *fiber.Ctx) error {
	var req modeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	mode := exercise.Mode(req.Mode)
	if !mode.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown mode"})
	}

	active := s.manager.Active()
	if active == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": session.ErrNoSession.Error()})
	}
	active.SetMode(mode)
	return c.JSON(fiber.Map{"mode": string(mode)})
}
