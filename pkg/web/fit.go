package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/formsense/go-formcoach/pkg/fit"
)

// RegisterFit mounts the Google Fit consent flow endpoints.
func (s *Server) RegisterFit(sink *fit.Sink) {
	api := s.app.Group("/api/fit")

	api.Get("/auth", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"authenticated": sink.Authenticated(),
			"auth_url":      sink.AuthURL(),
		})
	})

	api.Get("/callback", func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing code"})
		}
		if err := sink.HandleCallback(c.UserContext(), code); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"authenticated": true})
	})

	api.Post("/disconnect", func(c *fiber.Ctx) error {
		if err := sink.Disconnect(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"authenticated": false})
	})
}
