package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps an optional redis client. A nil client disables every
// operation cleanly so the server runs without redis.
type Cache struct {
	client *redis.Client
}

func New(addr, password string) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + email
}

// IncrLoginAttempts bumps the failed-login counter for an email and
// returns the new count. First failure in a window starts the TTL.
func (c *Cache) IncrLoginAttempts(ctx context.Context, email string, window time.Duration) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	count, err := c.client.Incr(ctx, loginAttemptsKey(email)).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = c.client.Expire(ctx, loginAttemptsKey(email), window).Err()
	}
	return count, nil
}

func (c *Cache) LoginAttempts(ctx context.Context, email string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	count, err := c.client.Get(ctx, loginAttemptsKey(email)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

func (c *Cache) ClearLoginAttempts(ctx context.Context, email string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, loginAttemptsKey(email)).Err()
}

func otpResendKey(namespace, email string) string {
	return "otp_resend:" + namespace + ":" + email
}

// MarkOTPSent records that a code was just issued so resends can be
// throttled. Returns false when a code was sent within the window.
func (c *Cache) MarkOTPSent(ctx context.Context, namespace, email string, window time.Duration) (bool, error) {
	if !c.Enabled() {
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, otpResendKey(namespace, email), "1", window).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
