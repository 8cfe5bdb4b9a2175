package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/devgrowth-api/internal/models"
	"github.com/arnold/devgrowth-api/internal/services"
)

type GoalHandler struct {
	goals *services.GoalService
}

func NewGoalHandler(goals *services.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) GetWeeklyGoals(c *fiber.Ctx) error {
	goals, err := h.goals.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not load goals, please try again")
	}
	return c.JSON(goals)
}

// PreviewLinks shows which goals a log with the given tags would be linked to
// before it is saved.
func (h *GoalHandler) PreviewLinks(c *fiber.Ctx) error {
	var req models.LinkPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	previews, err := h.goals.PreviewLinks(c.UserContext(), req.Tags)
	if err != nil {
		return respondError(c, err, "Could not load goals, please try again")
	}
	return c.JSON(models.LinkPreviewResponse{Goals: previews})
}
