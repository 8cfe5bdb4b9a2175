// Package client talks to the devgrowth API and keeps the per-session state a
// UI needs on top of it: the paginated log feed and the log composer.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arnold/devgrowth-api/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the API. Message is the server's
// user-facing text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("devgrowth api: %d %s", e.Status, e.Message)
}

type ListParams struct {
	Page  int
	Limit int
	Tags  []string
}

func (p ListParams) encode() string {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(p.Tags) > 0 {
		v.Set("tags", strings.Join(p.Tags, ","))
	}
	return v.Encode()
}

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: defaultTimeout,
	}
}

// WithTimeout returns a copy of c using d as the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

func (c *Client) CreateLog(ctx context.Context, req models.CreateDailyLogRequest) (*models.CreateDailyLogResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out models.CreateDailyLogResponse
	a := fiber.Post(c.baseURL + "/api/daily-logs").JSON(req)
	if err := c.do(ctx, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListLogs(ctx context.Context, p ListParams) (*models.DailyLogsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out models.DailyLogsResponse
	a := fiber.Get(c.baseURL + "/api/daily-logs").QueryString(p.encode())
	if err := c.do(ctx, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Tags(ctx context.Context) ([]models.TagCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []models.TagCount
	if err := c.do(ctx, fiber.Get(c.baseURL+"/api/daily-logs/tags"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) WeeklyGoals(ctx context.Context) ([]models.WeeklyGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []models.WeeklyGoal
	if err := c.do(ctx, fiber.Get(c.baseURL+"/api/weekly-goals"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PreviewLinks(ctx context.Context, tags []string) ([]models.LinkedGoalPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out models.LinkPreviewResponse
	a := fiber.Post(c.baseURL + "/api/daily-logs/link-preview").JSON(models.LinkPreviewRequest{Tags: tags})
	if err := c.do(ctx, a, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

func (c *Client) do(ctx context.Context, a *fiber.Agent, out any) error {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		return fmt.Errorf("devgrowth api: %w", err)
	}

	var (
		code int
		body []byte
		errs []error
	)
	if out == nil {
		code, body, errs = a.Bytes()
	} else {
		code, body, errs = a.Struct(out)
	}
	// Error answers carry {"error": ...}, which never fits out.
	if code >= fiber.StatusBadRequest {
		return decodeAPIError(code, body)
	}
	if len(errs) > 0 {
		return fmt.Errorf("devgrowth api: %w", errors.Join(errs...))
	}
	return nil
}

func decodeAPIError(code int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = fiber.ErrInternalServerError.Message
		if code < fiber.StatusInternalServerError {
			payload.Error = strings.TrimSpace(string(body))
		}
	}
	return &APIError{Status: code, Message: payload.Error}
}

// friendly turns any failure into text fit for the person using the app.
func friendly(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Status < fiber.StatusInternalServerError && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
