package branding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/model"
)

type fakeRemote struct {
	branding model.Branding
	err      error
	calls    int
}

func (f *fakeRemote) FetchBranding(ctx context.Context, sandboxID string) (model.Branding, error) {
	f.calls++
	return f.branding, f.err
}

type fakeStore struct {
	override *model.BrandingOverride
	err      error
}

func (f *fakeStore) GetOverride(ctx context.Context, deploymentID string) (*model.BrandingOverride, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.override, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveDefaultsOnly(t *testing.T) {
	r := NewResolver(nil, nil, model.Branding{}, discardLogger())

	got := r.Resolve(context.Background(), "")
	want := Defaults()
	if got != want {
		t.Errorf("got %+v, want compiled-in defaults", got)
	}
	if got.CompanyName == "" || got.AccentColor == "" || got.StartButtonText == "" {
		t.Error("defaults must cover the fields every page render needs")
	}
}

func TestResolveLayerPrecedence(t *testing.T) {
	remote := &fakeRemote{branding: model.Branding{
		CompanyName: "Remote Co",
		LogoURL:     "https://cdn.remote.test/logo.png",
	}}
	store := &fakeStore{override: &model.BrandingOverride{
		DeploymentID: "sandbox-1",
		Branding: model.Branding{
			CompanyName: "Override Co",
			AccentColor: "#aa0000",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}}

	r := NewResolver(remote, store, model.Branding{}, discardLogger())
	got := r.Resolve(context.Background(), "sandbox-1")

	// Remote wins for fields it sets.
	if got.CompanyName != "Remote Co" {
		t.Errorf("got company %q, want remote value", got.CompanyName)
	}
	if got.LogoURL != "https://cdn.remote.test/logo.png" {
		t.Errorf("got logo %q, want remote value", got.LogoURL)
	}
	// Override fills fields the remote left unset.
	if got.AccentColor != "#aa0000" {
		t.Errorf("got accent %q, want override value", got.AccentColor)
	}
	// Defaults fill the rest.
	if got.StartButtonText != Defaults().StartButtonText {
		t.Errorf("got button text %q, want default", got.StartButtonText)
	}
}

func TestResolveRemoteFailureFallsThrough(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}
	store := &fakeStore{override: &model.BrandingOverride{
		DeploymentID: "sandbox-1",
		Branding:     model.Branding{CompanyName: "Override Co"},
	}}

	r := NewResolver(remote, store, model.Branding{}, discardLogger())
	got := r.Resolve(context.Background(), "sandbox-1")

	if got.CompanyName != "Override Co" {
		t.Errorf("got company %q, want override after remote failure", got.CompanyName)
	}
	if remote.calls != 1 {
		t.Errorf("remote called %d times, want 1", remote.calls)
	}
}

func TestResolveStoreFailureFallsThrough(t *testing.T) {
	store := &fakeStore{err: config.ErrNotFound}
	r := NewResolver(nil, store, model.Branding{CompanyName: "YAML Co"}, discardLogger())

	got := r.Resolve(context.Background(), "sandbox-1")
	if got.CompanyName != "YAML Co" {
		t.Errorf("got company %q, want configured default", got.CompanyName)
	}
}

func TestResolveSkipsRemoteWithoutDeploymentID(t *testing.T) {
	remote := &fakeRemote{branding: model.Branding{CompanyName: "Remote Co"}}
	r := NewResolver(remote, nil, model.Branding{}, discardLogger())

	r.Resolve(context.Background(), "")
	if remote.calls != 0 {
		t.Errorf("remote called %d times without a deployment ID, want 0", remote.calls)
	}
}

func TestResolveConfiguredDefaultsMergeOverBuiltins(t *testing.T) {
	r := NewResolver(nil, nil, model.Branding{CompanyName: "YAML Co"}, discardLogger())
	got := r.Resolve(context.Background(), "")

	if got.CompanyName != "YAML Co" {
		t.Errorf("got company %q, want configured value", got.CompanyName)
	}
	if got.AccentColor != Defaults().AccentColor {
		t.Errorf("got accent %q, want built-in default", got.AccentColor)
	}
}
