package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is the payload a fired trigger delivers to the worker.
type Task struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Queue is where fired triggers are pushed for the worker to consume.
// The scheduler never runs handlers in-process.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
}

// Client wraps a cron runner with a named-entry registry so callers can
// list and remove recurring triggers by id, the way a repeatable-job
// queue exposes them.
type Client struct {
	cron  *cron.Cron
	queue Queue

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewClient(queue Queue) *Client {
	c := &Client{
		cron:    cron.New(),
		queue:   queue,
		entries: make(map[string]cron.EntryID),
	}
	c.cron.Start()
	return c
}

// Add registers a recurring trigger. spec is a standard 5-field cron
// expression, tz an IANA zone name applied via a CRON_TZ prefix. If a
// trigger with the same jobID already exists it is replaced.
func (c *Client) Add(spec, tz, jobID string, task Task) error {
	full := spec
	if tz != "" {
		full = "CRON_TZ=" + tz + " " + spec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entryID, err := c.cron.AddFunc(full, func() {
		if err := c.queue.Enqueue(context.Background(), task); err != nil {
			zap.L().Error("enqueue fired trigger failed",
				zap.String("jobID", jobID), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	if old, ok := c.entries[jobID]; ok {
		c.cron.Remove(old)
	}
	c.entries[jobID] = entryID
	return nil
}

// JobIDs returns the ids of all registered triggers.
func (c *Client) JobIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	return ids
}

// Remove deletes the trigger with the given id. Unknown ids are ignored.
func (c *Client) Remove(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entryID, ok := c.entries[jobID]; ok {
		c.cron.Remove(entryID)
		delete(c.entries, jobID)
	}
}

// Stop halts the cron runner. Registered entries are lost; callers are
// expected to resync from persisted settings on the next start.
func (c *Client) Stop() {
	c.cron.Stop()
}
