// Package googletasks publishes the local task list to Google Tasks.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gtasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/tasks"
)

const (
	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// APITimeout is the timeout for a single API call.
	APITimeout = 5 * time.Second

	// Remote task statuses.
	statusOpen      = "needsAction"
	statusCompleted = "completed"
)

// Client implements service.Publisher using the Google Tasks API.
type Client struct {
	svc *gtasks.Service
}

var _ service.Publisher = (*Client)(nil)

// New creates a client from the OAuth client and token files in the config dir.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("not logged in: failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes expired access tokens
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gtasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// EnsureList finds a list by title (case-insensitive, trimmed) or creates it.
func (c *Client) EnsureList(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	want := strings.ToLower(title)

	listCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var found string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(listCtx, func(resp *gtasks.TaskLists) error {
		for _, l := range resp.Items {
			if found == "" && strings.ToLower(strings.TrimSpace(l.Title)) == want {
				found = l.Id
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}
	if found != "" {
		return found, nil
	}

	insertCtx, cancelInsert := context.WithTimeout(ctx, APITimeout)
	defer cancelInsert()

	created, err := c.svc.Tasklists.Insert(&gtasks.TaskList{Title: title}).Context(insertCtx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return created.Id, nil
}

// Publish makes the remote list mirror the local tasks.
// Local tasks are matched to remote ones by title; unmatched tasks are
// created after their local predecessor, matched ones get their status
// patched when it differs. Remote tasks with no local counterpart are
// left alone.
func (c *Client) Publish(ctx context.Context, listID string, list []tasks.Task) (service.PublishResult, error) {
	var result service.PublishResult

	remote, err := c.remoteTasks(ctx, listID)
	if err != nil {
		return result, err
	}

	byTitle := make(map[string][]*gtasks.Task)
	for _, rt := range remote {
		byTitle[rt.Title] = append(byTitle[rt.Title], rt)
	}

	previous := ""
	for _, t := range list {
		status := statusOpen
		if t.Completed {
			status = statusCompleted
		}

		if matches := byTitle[t.Text]; len(matches) > 0 {
			rt := matches[0]
			byTitle[t.Text] = matches[1:]
			previous = rt.Id

			if rt.Status == status {
				result.Unchanged++
				continue
			}
			if err := c.setStatus(ctx, listID, rt.Id, status); err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		id, err := c.insert(ctx, listID, previous, t.Text, status)
		if err != nil {
			return result, err
		}
		previous = id
		result.Created++
	}

	return result, nil
}

func (c *Client) remoteTasks(ctx context.Context, listID string) ([]*gtasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var all []*gtasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(100).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *gtasks.Tasks) error {
			all = append(all, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return all, nil
}

func (c *Client) insert(ctx context.Context, listID, previous, title, status string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Insert(listID, &gtasks.Task{Title: title, Status: status})
	if previous != "" {
		call = call.Previous(previous)
	}
	created, err := call.Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return created.Id, nil
}

func (c *Client) setStatus(ctx context.Context, listID, taskID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := &gtasks.Task{Status: status}
	if status == statusOpen {
		// reopening requires clearing the completion time
		patch.NullFields = []string{"Completed"}
	}
	_, err := c.svc.Tasks.Patch(listID, taskID, patch).Context(ctx).Do()
	return wrapError(err)
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}
	return err
}
