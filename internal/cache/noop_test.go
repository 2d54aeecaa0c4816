package cache

import (
	"context"
	"testing"
	"time"

	"email-assistant/internal/store"
)

// TestNoOpCache verifies that NoOpCache implements the Cache interface correctly
func TestNoOpCache(t *testing.T) {
	var c Cache = NewNoOpCache()
	ctx := context.Background()

	got, err := c.GetSettings(ctx, "user-1")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil result (cache miss), got %v", got)
	}

	if err := c.SetSettings(ctx, "user-1", store.Settings{APIKey: "sk", MaxTokens: 2000}, time.Minute); err != nil {
		t.Errorf("Expected no error on SetSettings, got %v", err)
	}

	// Still a miss: nothing was stored.
	got, err = c.GetSettings(ctx, "user-1")
	if err != nil || got != nil {
		t.Errorf("Expected miss after set, got %v, %v", got, err)
	}

	if err := c.Invalidate(ctx, "user-1"); err != nil {
		t.Errorf("Expected no error on Invalidate, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Expected no error on Close, got %v", err)
	}
}

func TestKey(t *testing.T) {
	if got := Key("42"); got != "assistant:settings:42" {
		t.Errorf("unexpected key %q", got)
	}
}
