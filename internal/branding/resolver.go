// Package branding resolves the presentation values for a render pass.
// Resolution is layered: remote sandbox config, then the locally stored
// override, then compiled-in defaults. It never returns an error; every
// failing layer is skipped.
package branding

import (
	"context"
	"log/slog"

	"github.com/agentlobby/lobby/internal/model"
)

// RemoteSource fetches branding from the sandbox config service.
type RemoteSource interface {
	FetchBranding(ctx context.Context, sandboxID string) (model.Branding, error)
}

// OverrideStore reads locally stored branding overrides.
type OverrideStore interface {
	GetOverride(ctx context.Context, deploymentID string) (*model.BrandingOverride, error)
}

// Defaults returns the compiled-in branding used when nothing else is
// configured.
func Defaults() model.Branding {
	return model.Branding{
		CompanyName:     "Lobby",
		PageTitle:       "Voice Agent",
		PageDescription: "Talk to an AI voice agent, right from your browser.",
		AccentColor:     "#002cf2",
		AccentDarkColor: "#1fd5f9",
		StartButtonText: "Start call",
	}
}

// Resolver merges the branding layers for a deployment.
type Resolver struct {
	remote   RemoteSource
	store    OverrideStore
	defaults model.Branding
	logger   *slog.Logger
}

// NewResolver creates a Resolver. remote and store may be nil, in which case
// the corresponding layer is skipped. defaults is merged over the compiled-in
// values, so callers only set the fields they care about.
func NewResolver(remote RemoteSource, store OverrideStore, defaults model.Branding, logger *slog.Logger) *Resolver {
	return &Resolver{
		remote:   remote,
		store:    store,
		defaults: defaults.Merge(Defaults()),
		logger:   logger,
	}
}

// Resolve returns the branding for one render pass. It is called once per
// request and the result is passed down as an immutable value, so the pass
// never observes two different values for the same field. Errors from the
// remote fetch or the store degrade silently to the next layer.
func (r *Resolver) Resolve(ctx context.Context, deploymentID string) model.Branding {
	resolved := r.defaults

	if r.store != nil && deploymentID != "" {
		if o, err := r.store.GetOverride(ctx, deploymentID); err == nil {
			resolved = o.Branding.Merge(resolved)
		}
	}

	if r.remote != nil && deploymentID != "" {
		remote, err := r.remote.FetchBranding(ctx, deploymentID)
		if err != nil {
			r.logger.Debug("sandbox config fetch failed, using local branding",
				"deployment_id", deploymentID, "error", err)
		} else {
			resolved = remote.Merge(resolved)
		}
	}

	return resolved
}
