package telemetry

import (
	"context"
	"errors"
	"testing"
)

type memStore struct {
	settings map[string]string
}

func newMemStore() *memStore {
	return &memStore{settings: make(map[string]string)}
}

func (m *memStore) GetSetting(ctx context.Context, key string) (string, error) {
	v, ok := m.settings[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memStore) SetSetting(ctx context.Context, key, value string) error {
	m.settings[key] = value
	return nil
}

func noProps() Properties { return Properties{} }

func TestNewDisabledByEnv(t *testing.T) {
	for _, val := range []string{"0", "false", "off"} {
		t.Setenv("LOBBY_TELEMETRY", val)
		if tr := New(context.Background(), newMemStore(), noProps); tr != nil {
			t.Errorf("LOBBY_TELEMETRY=%s: got a tracker, want nil", val)
		}
	}
}

func TestNewDisabledBySetting(t *testing.T) {
	store := newMemStore()
	store.settings["telemetry.enabled"] = "false"

	if tr := New(context.Background(), store, noProps); tr != nil {
		t.Error("got a tracker despite telemetry.enabled=false")
	}
}

func TestNewEnabledByDefault(t *testing.T) {
	tr := New(context.Background(), newMemStore(), noProps)
	if tr == nil {
		t.Fatal("got nil tracker with no opt-out")
	}
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker
	tr.Start()
	tr.Shutdown()
}

func TestInstanceIDPersists(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	first := resolveInstanceID(ctx, store)
	if first == "" {
		t.Fatal("empty instance ID")
	}
	second := resolveInstanceID(ctx, store)
	if second != first {
		t.Errorf("instance ID changed between resolutions: %q then %q", first, second)
	}
	if store.settings["instance_id"] != first {
		t.Error("instance ID was not stored")
	}
}
