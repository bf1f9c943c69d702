package notifications

import (
	"context"
	"sync"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// MemoryCenters keeps every device registry in process.
type MemoryCenters struct {
	opts Options

	mu      sync.Mutex
	devices map[string]*memoryCenter
}

// NewMemoryCenters creates an empty set of registries.
func NewMemoryCenters(opts Options) *MemoryCenters {
	return &MemoryCenters{opts: opts, devices: make(map[string]*memoryCenter)}
}

// ForDevice returns the registry of one device, creating it on first use.
func (m *MemoryCenters) ForDevice(deviceID string) ports.NotificationCenter {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.devices[deviceID]
	if !ok {
		c = &memoryCenter{
			permission: m.opts.defaultPermission(),
			pending:    make(map[string]domain.Notification),
		}
		m.devices[deviceID] = c
	}

	return c
}

// Name implements ports.HealthChecker.
func (m *MemoryCenters) Name() string { return "notifications" }

// Check implements ports.HealthChecker.
func (m *MemoryCenters) Check(context.Context) error { return nil }

type memoryCenter struct {
	mu         sync.Mutex
	permission domain.PermissionStatus
	pending    map[string]domain.Notification
}

func (c *memoryCenter) RequestPermission(context.Context) (domain.PermissionStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.permission, nil
}

func (c *memoryCenter) SetPermission(_ context.Context, status domain.PermissionStatus) error {
	if !status.Valid() {
		return domain.NewValidationErrorWithValue("status", "unknown permission status", string(status))
	}

	c.mu.Lock()
	c.permission = status
	c.mu.Unlock()

	return nil
}

func (c *memoryCenter) RemoveAllPending(context.Context) error {
	c.mu.Lock()
	clear(c.pending)
	c.mu.Unlock()

	return nil
}

func (c *memoryCenter) Add(_ context.Context, n domain.Notification) error {
	c.mu.Lock()
	c.pending[n.Identifier] = n
	c.mu.Unlock()

	return nil
}

func (c *memoryCenter) Pending(context.Context) ([]domain.Notification, error) {
	c.mu.Lock()
	out := make([]domain.Notification, 0, len(c.pending))
	for _, n := range c.pending {
		out = append(out, n)
	}
	c.mu.Unlock()

	sortByFiringTime(out)

	return out, nil
}
