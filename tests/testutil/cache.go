// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"github.com/cityconnect/cityconnect/internal/cache"
)

// NewTestCache creates an in-memory read cache with all migrations
// applied. It is closed automatically when the test completes.
func NewTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	c, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test cache: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})

	return c
}
