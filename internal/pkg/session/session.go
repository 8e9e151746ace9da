package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/velolab/velolab/internal/pkg/cache"
	"github.com/velolab/velolab/internal/pkg/env"
)

const cookieName = "velolab_session"

var sessionStore *session.Store

// NewSessionStore builds the app session store on Redis DB 1.
// DB 0 belongs to the cache, DB 2 to the OAuth state store.
func NewSessionStore() *session.Store {
	host, port, password := redisParams()

	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	lifetime := env.GetEnvInt("SESSION_LIFETIME_HOURS", 12)
	if lifetime <= 0 {
		lifetime = 12
	}

	sessionStore = session.New(session.Config{
		Storage:        storage,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Duration(lifetime) * time.Hour,
	})

	return sessionStore
}

// redisParams reads connection details from the shared cache client so the
// session store never needs its own Redis configuration.
func redisParams() (string, int, string) {
	host, port := "localhost", 6379
	password := env.GetEnv("CACHE_PASSWORD", "")

	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return host, port, password
	}

	opts := cacheClient.Options()
	if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	if opts.Password != "" {
		password = opts.Password
	}
	return host, port, password
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// SetSessionValue stores a string under key in the caller's session.
func SetSessionValue(c *fiber.Ctx, key string, value string) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue returns the string stored under key, or "" when absent.
func GetSessionValue(c *fiber.Ctx, key string) string {
	if sessionStore == nil {
		return ""
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}

	if s, ok := sess.Get(key).(string); ok {
		return s
	}
	return ""
}
