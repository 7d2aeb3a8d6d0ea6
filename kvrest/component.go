package kvrest

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/kvrest/component"
)

// Component manages a Client's lifecycle for the component registry.
// Health probes the service with ListBuckets.
type Component struct {
	cfg  Config
	opts []Option

	mu     sync.RWMutex
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component that builds its Client on Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, opts: opts}
}

// Client returns the started client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *Component) Name() string { return "kvrest" }

func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return fmt.Errorf("kvrest: component already started")
	}
	client, err := New(c.cfg, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	return nil
}

func (c *Component) Health(ctx context.Context) component.Health {
	client := c.Client()
	if client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if _, err := client.ListBuckets(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "kvrest client",
		Type:    "http-client",
		Details: fmt.Sprintf("%s timeout=%s", c.cfg.BaseURL, c.cfg.Timeout),
	}
}
