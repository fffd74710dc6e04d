package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GLH08/TuneBot/internal/logging"
)

// ErrDescriptorNotFound marks a descriptor the service could not supply.
var ErrDescriptorNotFound = errors.New("hub: descriptor not found")

// MethodDescriptor is the server-supplied recipe for building a request and
// normalizing its response for one (platform, operation) pair. Immutable
// once fetched.
type MethodDescriptor struct {
	Platform        string            `json:"platform"`
	Operation       string            `json:"operation"`
	URLTemplate     string            `json:"url_template"`
	Params          map[string]any    `json:"params"`
	Headers         map[string]string `json:"headers"`
	HTTPMethod      string            `json:"http_method"`
	Body            map[string]any    `json:"body"`
	TransformScript string            `json:"transform_script"`
}

type descriptorKey struct {
	platform  string
	operation string
}

// Cache memoizes method descriptors for the process lifetime. Entries are
// never expired; a stale descriptor is only replaced by Reset or a restart.
type Cache struct {
	client *Client
	logger *slog.Logger

	mu      sync.Mutex
	entries map[descriptorKey]*MethodDescriptor
}

// NewCache constructs a descriptor cache backed by the given client.
func NewCache(client *Client) *Cache {
	return &Cache{
		client:  client,
		logger:  client.logger,
		entries: make(map[descriptorKey]*MethodDescriptor),
	}
}

// Get returns the descriptor for (platform, operation), fetching it from the
// service on first use. Fetch failures return ErrDescriptorNotFound and leave
// the cache unpopulated so the next call retries. Concurrent callers for the
// same key may both fetch; the first stored entry wins.
func (c *Cache) Get(ctx context.Context, platform, operation string) (*MethodDescriptor, error) {
	key := descriptorKey{platform: platform, operation: operation}

	c.mu.Lock()
	if desc, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return desc, nil
	}
	c.mu.Unlock()

	desc, err := c.client.FetchDescriptor(ctx, platform, operation)
	if err != nil {
		logging.FromContext(ctx, c.logger).Warn("descriptor fetch failed",
			slog.String("platform", platform),
			slog.String("operation", operation),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s/%s: %s", ErrDescriptorNotFound, platform, operation, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}
	c.entries[key] = desc
	return desc, nil
}

// Reset clears all cached descriptors.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[descriptorKey]*MethodDescriptor)
}

// Len reports the number of cached descriptors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// FetchDescriptor retrieves one method descriptor from the service.
func (c *Client) FetchDescriptor(ctx context.Context, platform, operation string) (*MethodDescriptor, error) {
	endpoint := c.baseURL.JoinPath("v1", "methods", platform, operation)
	env, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var desc MethodDescriptor
	if err := json.Unmarshal(env.Data, &desc); err != nil {
		return nil, fmt.Errorf("hub: decode descriptor: %w", err)
	}
	if desc.Platform == "" {
		desc.Platform = platform
	}
	if desc.Operation == "" {
		desc.Operation = operation
	}
	return &desc, nil
}
