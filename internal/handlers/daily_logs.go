package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arnold/devgrowth-api/internal/linker"
	"github.com/arnold/devgrowth-api/internal/middleware"
	"github.com/arnold/devgrowth-api/internal/models"
	"github.com/arnold/devgrowth-api/internal/services"
)

type DailyLogHandler struct {
	logs *services.DailyLogService
}

func NewDailyLogHandler(logs *services.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{logs: logs}
}

// CreateDailyLog answers 201 whenever the log itself was saved, even if some
// or all goal links could not be written.
//
// When linkedGoalIds is omitted or null the server links the log to every
// catalog goal sharing a tag with it. Send "linkedGoalIds": [] to save the log
// without any links.
func (h *DailyLogHandler) CreateDailyLog(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateDailyLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := h.logs.Create(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err, "Could not save entry, please try again")
	}

	resp := models.CreateDailyLogResponse{
		DailyLog:    res.Log,
		LinkedGoals: res.LinkedGoals,
	}
	if res.LinkErr != nil {
		resp.Warning = "Entry saved, but it could not be linked to your goals"
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *DailyLogHandler) GetDailyLogs(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	// Unparsable numbers fall through as 0 and get clamped by the service.
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.logs.List(c.UserContext(), userID, services.ListQuery{
		Page:  page,
		Limit: limit,
		Tags:  linker.SplitTags(c.Query("tags")),
	})
	if err != nil {
		return respondError(c, err, "Could not load entries, please try again")
	}
	return c.JSON(res)
}

func (h *DailyLogHandler) GetTags(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	counts, err := h.logs.Tags(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Could not load tags, please try again")
	}
	return c.JSON(counts)
}
