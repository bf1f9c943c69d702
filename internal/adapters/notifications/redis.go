package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/ports"
)

const (
	pendingKeySuffix    = "notifications:pending"
	permissionKeySuffix = "notifications:permission"
)

// RedisCenters stores each device's pending notifications in a hash keyed
// by identifier, next to a plain permission key.
type RedisCenters struct {
	client redis.UniversalClient
	prefix string
	opts   Options
}

// NewRedisCenters wraps client. prefix namespaces every key.
func NewRedisCenters(client redis.UniversalClient, prefix string, opts Options) *RedisCenters {
	return &RedisCenters{client: client, prefix: prefix, opts: opts}
}

// ForDevice returns the registry of one device.
func (r *RedisCenters) ForDevice(deviceID string) ports.NotificationCenter {
	return &redisCenter{
		client:        r.client,
		opts:          r.opts,
		pendingKey:    r.key(deviceID, pendingKeySuffix),
		permissionKey: r.key(deviceID, permissionKeySuffix),
	}
}

func (r *RedisCenters) key(deviceID, suffix string) string {
	parts := []string{deviceID, suffix}
	if r.prefix != "" {
		parts = append([]string{r.prefix}, parts...)
	}

	return strings.Join(parts, ":")
}

type redisCenter struct {
	client        redis.UniversalClient
	opts          Options
	pendingKey    string
	permissionKey string
}

func (c *redisCenter) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	val, err := c.client.Get(ctx, c.permissionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return c.opts.defaultPermission(), nil
		}

		return "", fmt.Errorf("reading permission: %w", err)
	}

	status := domain.PermissionStatus(val)
	if !status.Valid() {
		return c.opts.defaultPermission(), nil
	}

	return status, nil
}

func (c *redisCenter) SetPermission(ctx context.Context, status domain.PermissionStatus) error {
	if !status.Valid() {
		return domain.NewValidationErrorWithValue("status", "unknown permission status", string(status))
	}

	if err := c.client.Set(ctx, c.permissionKey, string(status), 0).Err(); err != nil {
		return fmt.Errorf("recording permission: %w", err)
	}

	return nil
}

// RemoveAllPending returns once Redis acknowledged the delete.
func (c *redisCenter) RemoveAllPending(ctx context.Context) error {
	if err := c.client.Del(ctx, c.pendingKey).Err(); err != nil {
		return fmt.Errorf("clearing pending notifications: %w", err)
	}

	return nil
}

func (c *redisCenter) Add(ctx context.Context, n domain.Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification %s: %w", n.Identifier, err)
	}

	if err := c.client.HSet(ctx, c.pendingKey, n.Identifier, raw).Err(); err != nil {
		return fmt.Errorf("registering notification %s: %w", n.Identifier, err)
	}

	return nil
}

func (c *redisCenter) Pending(ctx context.Context) ([]domain.Notification, error) {
	fields, err := c.client.HGetAll(ctx, c.pendingKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing pending notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(fields))

	for id, raw := range fields {
		var n domain.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, domain.NewDecodingError("notifications", fmt.Errorf("notification %s: %w", id, err))
		}

		out = append(out, n)
	}

	sortByFiringTime(out)

	return out, nil
}
