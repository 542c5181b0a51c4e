package model

import (
	"encoding/json"
	"testing"
)

func TestBrandingMerge(t *testing.T) {
	base := Branding{
		CompanyName: "Acme",
		AccentColor: "#ff5500",
	}
	fallback := Branding{
		CompanyName:     "Lobby",
		PageTitle:       "Voice Agent",
		AccentColor:     "#002cf2",
		StartButtonText: "Start call",
	}

	got := base.Merge(fallback)

	if got.CompanyName != "Acme" {
		t.Errorf("got company %q, want %q (set fields must win)", got.CompanyName, "Acme")
	}
	if got.AccentColor != "#ff5500" {
		t.Errorf("got accent %q, want %q", got.AccentColor, "#ff5500")
	}
	if got.PageTitle != "Voice Agent" {
		t.Errorf("got title %q, want fallback %q", got.PageTitle, "Voice Agent")
	}
	if got.StartButtonText != "Start call" {
		t.Errorf("got button text %q, want fallback %q", got.StartButtonText, "Start call")
	}

	// Merge must not mutate its receiver.
	if base.PageTitle != "" {
		t.Errorf("receiver mutated: PageTitle = %q", base.PageTitle)
	}
}

func TestBrandingMergeEmptyFallback(t *testing.T) {
	b := Branding{CompanyName: "Acme"}
	got := b.Merge(Branding{})
	if got != b {
		t.Errorf("merge with zero fallback changed value: %+v", got)
	}
}

func TestBrandingLogoFor(t *testing.T) {
	tests := []struct {
		name  string
		b     Branding
		theme string
		want  string
	}{
		{"light theme", Branding{LogoURL: "light.png", LogoDarkURL: "dark.png"}, "light", "light.png"},
		{"dark theme with variant", Branding{LogoURL: "light.png", LogoDarkURL: "dark.png"}, "dark", "dark.png"},
		{"dark theme without variant", Branding{LogoURL: "light.png"}, "dark", "light.png"},
		{"no logos", Branding{}, "dark", ""},
		{"unknown theme", Branding{LogoURL: "light.png", LogoDarkURL: "dark.png"}, "solarized", "light.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.LogoFor(tt.theme); got != tt.want {
				t.Errorf("LogoFor(%q) = %q, want %q", tt.theme, got, tt.want)
			}
		})
	}
}

func TestBrandingIsZero(t *testing.T) {
	if !(Branding{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (Branding{SupportURL: "https://help.test"}).IsZero() {
		t.Error("non-empty branding should not report IsZero")
	}
}

func TestBrandingJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Branding{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"companyName":"Acme"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
