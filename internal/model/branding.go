package model

import "time"

// Branding holds the per-deployment presentation values used to parametrize
// page markup and the Open Graph image. All fields are plain strings; an
// empty string means "unset" and defers to the next resolution layer.
type Branding struct {
	CompanyName     string `json:"companyName,omitempty" yaml:"company_name"`
	PageTitle       string `json:"pageTitle,omitempty" yaml:"page_title"`
	PageDescription string `json:"pageDescription,omitempty" yaml:"page_description"`
	LogoURL         string `json:"logo,omitempty" yaml:"logo"`
	LogoDarkURL     string `json:"logoDark,omitempty" yaml:"logo_dark"`
	FaviconURL      string `json:"favicon,omitempty" yaml:"favicon"`
	AccentColor     string `json:"accent,omitempty" yaml:"accent"`
	AccentDarkColor string `json:"accentDark,omitempty" yaml:"accent_dark"`
	BackgroundURL   string `json:"background,omitempty" yaml:"background"`
	FontURL         string `json:"font,omitempty" yaml:"font"`
	StartButtonText string `json:"startButtonText,omitempty" yaml:"start_button_text"`
	SupportURL      string `json:"supportUrl,omitempty" yaml:"support_url"`
}

// Merge returns a copy of b with every empty field filled in from fallback.
// Non-empty fields in b always win.
func (b Branding) Merge(fallback Branding) Branding {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&b.CompanyName, fallback.CompanyName)
	fill(&b.PageTitle, fallback.PageTitle)
	fill(&b.PageDescription, fallback.PageDescription)
	fill(&b.LogoURL, fallback.LogoURL)
	fill(&b.LogoDarkURL, fallback.LogoDarkURL)
	fill(&b.FaviconURL, fallback.FaviconURL)
	fill(&b.AccentColor, fallback.AccentColor)
	fill(&b.AccentDarkColor, fallback.AccentDarkColor)
	fill(&b.BackgroundURL, fallback.BackgroundURL)
	fill(&b.FontURL, fallback.FontURL)
	fill(&b.StartButtonText, fallback.StartButtonText)
	fill(&b.SupportURL, fallback.SupportURL)
	return b
}

// LogoFor picks the logo URL for the given theme. The dark logo is used only
// when the theme is "dark" and a dark variant is set; otherwise the light
// logo is returned (which may itself be empty).
func (b Branding) LogoFor(theme string) string {
	if theme == "dark" && b.LogoDarkURL != "" {
		return b.LogoDarkURL
	}
	return b.LogoURL
}

// IsZero reports whether every branding field is unset.
func (b Branding) IsZero() bool {
	return b == Branding{}
}

// BrandingOverride is a locally stored branding record for one deployment,
// layered between the remote sandbox config and the compiled-in defaults.
type BrandingOverride struct {
	ID           int64     `json:"id" db:"id"`
	DeploymentID string    `json:"deploymentId" db:"deployment_id"`
	Branding     Branding  `json:"branding"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
