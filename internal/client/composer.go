package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/arnold/devgrowth-api/internal/apperr"
	"github.com/arnold/devgrowth-api/internal/linker"
	"github.com/arnold/devgrowth-api/internal/models"
)

// Creator saves a new log. *Client implements it.
type Creator interface {
	CreateLog(ctx context.Context, req models.CreateDailyLogRequest) (*models.CreateDailyLogResponse, error)
}

var ErrSubmitInProgress = errors.New("a log is already being submitted")

const composerErrorMessage = "Could not save entry, please try again"

// LogComposer backs the "new log" form: it previews which goals the entered
// tags link to and submits the log with those links.
type LogComposer struct {
	creator   Creator
	onSuccess func(*models.CreateDailyLogResponse)
	onError   func(err error, message string)

	mu         sync.Mutex
	candidates []models.WeeklyGoal
	submitting bool
	err        error
	message    string
}

type ComposerOption func(*LogComposer)

func OnCreated(fn func(*models.CreateDailyLogResponse)) ComposerOption {
	return func(c *LogComposer) { c.onSuccess = fn }
}

// OnFailed receives the error and the text to show for it.
func OnFailed(fn func(err error, message string)) ComposerOption {
	return func(c *LogComposer) { c.onError = fn }
}

func NewLogComposer(creator Creator, opts ...ComposerOption) *LogComposer {
	c := &LogComposer{creator: creator}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCandidates replaces the goals considered for auto-linking, usually the
// user's current weekly goals.
func (c *LogComposer) SetCandidates(goals []models.WeeklyGoal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candidates = append([]models.WeeklyGoal(nil), goals...)
}

// LinkedGoals previews the goals a log with tags would be linked to.
func (c *LogComposer) LinkedGoals(tags []string) []models.WeeklyGoal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return linker.MatchGoals(linker.NormalizeTags(tags), c.candidates)
}

func (c *LogComposer) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Err is the last submission error, nil after a success.
func (c *LogComposer) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Message is the text to show for the last submission: the failure reason,
// or the server's warning when the log was saved without all its links.
func (c *LogComposer) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Submit validates the form, then creates the log linked to the goals its
// tags match. Only one submission runs at a time.
func (c *LogComposer) Submit(ctx context.Context, title, content string, tags []string) (*models.CreateDailyLogResponse, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		err := apperr.Validation("title", "Title and content are required")
		c.err, c.message = err, err.Message
		c.mu.Unlock()
		c.failed(err, err.Message)
		return nil, err
	}
	tags = linker.NormalizeTags(tags)
	req := models.CreateDailyLogRequest{
		Title:         title,
		Content:       content,
		Tags:          tags,
		LinkedGoalIDs: linker.GoalIDs(linker.MatchGoals(tags, c.candidates)),
	}
	c.submitting = true
	c.err, c.message = nil, ""
	c.mu.Unlock()

	res, err := c.creator.CreateLog(ctx, req)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		msg := friendly(err, composerErrorMessage)
		c.err, c.message = err, msg
		c.mu.Unlock()
		c.failed(err, msg)
		return nil, err
	}
	c.message = res.Warning
	c.mu.Unlock()

	if c.onSuccess != nil {
		c.onSuccess(res)
	}
	return res, nil
}

func (c *LogComposer) failed(err error, msg string) {
	if c.onError != nil {
		c.onError(err, msg)
	}
}
