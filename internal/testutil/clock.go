// Package testutil общие помощники для тестов
package testutil

import (
	"sync"
	"time"
)

// Clock управляемые часы, реализуют TimeProvider всех usecase-ов
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock создает часы, показывающие now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now текущее время часов
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переставляет часы
func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance сдвигает часы на d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
