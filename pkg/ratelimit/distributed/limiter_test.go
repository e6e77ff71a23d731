package distributed

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/threadflow/internal/testutil"
)

func TestValidateConfig(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"missing redis", Config{Key: "k", Limit: 10}, true},
		{"missing key", Config{Redis: client, Limit: 10}, true},
		{"zero limit", Config{Redis: client, Key: "k"}, true},
		{"valid", Config{Redis: client, Key: "k", Limit: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFixedWindow(tt.config)
			if tt.wantErr {
				testutil.AssertError(t, err)
			} else {
				testutil.AssertNoError(t, err)
			}
		})
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := applyConfigDefaults(Config{Key: "k", Limit: 5})
	testutil.AssertEqual(t, cfg.Window, time.Second)
	testutil.AssertEqual(t, cfg.RedisTimeout, 500*time.Millisecond)
	if cfg.InstanceID == "" {
		t.Error("expected a generated instance ID")
	}
}

func TestWindowKeyStableWithinWindow(t *testing.T) {
	rfw := newRedisFixedWindow(applyConfigDefaults(Config{Key: "jobs", Limit: 5, Window: time.Minute}))

	now := time.Unix(1700000000, 0)
	a := rfw.windowKey(now)
	b := rfw.windowKey(now.Add(30 * time.Second))
	c := rfw.windowKey(now.Add(61 * time.Second))

	testutil.AssertEqual(t, a, b)
	if a == c {
		t.Errorf("keys for different windows should differ: %s", a)
	}
}
