// Package ratelimit provides per-client request rate limiting for the HTTP
// server using token buckets.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults used when the RATE_LIMIT_* environment variables are unset.
const (
	DefaultRequestsPerSecond = 10.0
	DefaultBurstSize         = 20
	defaultCleanupInterval   = 5 * time.Minute
	clientIdleTimeout        = 10 * time.Minute
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// LoadConfig reads rate limiting configuration from the environment.
// RATE_LIMIT_ENABLED=false disables limiting entirely.
func LoadConfig() Config {
	cfg := Config{
		Enabled:           true,
		RequestsPerSecond: DefaultRequestsPerSecond,
		BurstSize:         DefaultBurstSize,
	}
	if os.Getenv("RATE_LIMIT_ENABLED") == "false" {
		cfg.Enabled = false
	}
	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			cfg.RequestsPerSecond = v
		}
	}
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.BurstSize = v
		}
	}
	return cfg
}

// client pairs a limiter with its last access time for idle cleanup.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages one token bucket per client.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	cfg     Config
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a rate limiter and starts its idle-client cleanup
// goroutine. Call Stop on shutdown.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		clients: make(map[string]*client),
		cfg:     cfg,
		ticker:  time.NewTicker(defaultCleanupInterval),
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client identified by clientID may proceed.
func (l *Limiter) Allow(clientID string) bool {
	if !l.cfg.Enabled {
		return true
	}

	l.mu.Lock()
	c, ok := l.clients[clientID]
	if !ok {
		c = &client{
			limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.BurstSize),
		}
		l.clients[clientID] = c
	}
	c.lastSeen = time.Now()
	l.mu.Unlock()

	return c.limiter.Allow()
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	l.ticker.Stop()
	close(l.stop)
}

// cleanupLoop drops buckets for clients idle longer than clientIdleTimeout.
func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.stop:
			return
		case <-l.ticker.C:
			cutoff := time.Now().Add(-clientIdleTimeout)
			l.mu.Lock()
			for id, c := range l.clients {
				if c.lastSeen.Before(cutoff) {
					delete(l.clients, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
