// Package api implements the HTTP client for the remote Motivatchi API.
//
// Every request carries the session cookie; the server resolves the acting
// user from it. Responses are decoded into the task domain types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/motivatchi/tchi/internal/core/config"
	"github.com/motivatchi/tchi/internal/core/task"
)

// Action values accepted by the pet health endpoint.
const (
	ActionTaskCompleted = "task_completed"
	ActionTaskMissed    = "task_missed"
)

// Client talks to the Motivatchi REST API.
type Client struct {
	http        *http.Client
	baseURL     string
	cookieName  string
	cookieValue string
	log         zerolog.Logger
}

// New creates a Client from API configuration.
func New(cfg config.APIConfig, log zerolog.Logger) *Client {
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		cookieName:  cfg.CookieName,
		cookieValue: cfg.SessionCookie,
		log:         log.With().Str("component", "api-client").Logger(),
	}
}

// NewTask carries the user-supplied fields of a task creation request.
// The server assigns the ID and the initial in_progress status.
type NewTask struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Deadline task.Date     `json:"deadline"`
	Priority task.Priority `json:"priority"`
}

// TaskPatch is a partial update body. Nil fields are omitted from the wire.
type TaskPatch struct {
	Name     *string        `json:"name,omitempty"`
	Category *string        `json:"category,omitempty"`
	Deadline *task.Date     `json:"deadline,omitempty"`
	Priority *task.Priority `json:"priority,omitempty"`
	Status   *task.Status   `json:"status,omitempty"`
}

// ListTasks fetches the full task collection for the session user.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a task with an implicit in_progress status and returns
// the server-canonical record.
func (c *Client) CreateTask(ctx context.Context, nt NewTask) (task.Task, error) {
	body := struct {
		NewTask
		Status task.Status `json:"status"`
	}{NewTask: nt, Status: task.StatusInProgress}

	var created task.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks/", body, &created); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// UpdateTask applies a partial update and returns the canonical record.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/", id), patch, &updated); err != nil {
		return task.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return updated, nil
}

// DeleteTask removes the task server-side.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d/", id), nil, nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// CompleteTask marks the task completed and returns the reward payload.
func (c *Client) CompleteTask(ctx context.Context, id int64) (task.Reward, error) {
	var reward task.Reward
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete/", id), nil, &reward); err != nil {
		return task.Reward{}, fmt.Errorf("complete task %d: %w", id, err)
	}
	return reward, nil
}

// MarkIncomplete reverts a completed task and returns the penalty payload.
func (c *Client) MarkIncomplete(ctx context.Context, id int64) (task.Reward, error) {
	var penalty task.Reward
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/mark_incomplete/", id), nil, &penalty); err != nil {
		return task.Reward{}, fmt.Errorf("mark task %d incomplete: %w", id, err)
	}
	return penalty, nil
}

type healthBody struct {
	Action string `json:"action"`
}

type healthResponse struct {
	Health float64 `json:"health"`
}

// PetHealth returns the pet's current health.
func (c *Client) PetHealth(ctx context.Context) (float64, error) {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/api/tamagotchi/health/", nil, &resp); err != nil {
		return 0, fmt.Errorf("get pet health: %w", err)
	}
	return resp.Health, nil
}

// AdjustPetHealth applies a health action (task_completed or task_missed)
// and returns the resulting health.
func (c *Client) AdjustPetHealth(ctx context.Context, action string) (float64, error) {
	var resp healthResponse
	if err := c.do(ctx, http.MethodPost, "/api/tamagotchi/health/", healthBody{Action: action}, &resp); err != nil {
		return 0, fmt.Errorf("adjust pet health: %w", err)
	}
	return resp.Health, nil
}

// do executes one request/response round trip. A non-2xx response becomes a
// *StatusError carrying the body; out is skipped when nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.cookieValue})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).
			Str("request_id", requestID).Msg("transport failure")
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Str("path", path).Msg("close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).
			Str("path", path).Str("request_id", requestID).
			Str("body", string(detail)).Msg("api failure")
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
