// Package openapi describes Lobby's public HTTP surface as an OpenAPI 3
// document, served at /openapi.json.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// GenerateSpec builds the OpenAPI document for the public API.
func GenerateSpec(baseURL, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Lobby API",
			Description: "Branded front-end endpoints for a voice-agent deployment: resolved branding, connection details, and preview images.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		"ErrorResponse":     errorSchema(),
		"Branding":          brandingSchema(),
		"ConnectionDetails": connectionDetailsSchema(),
	}
	components.SecuritySchemes = openapi3.SecuritySchemes{
		"adminKey": &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:   "http",
				Scheme: "bearer",
			},
		},
	}
	doc.Components = &components

	doc.Paths = openapi3.NewPaths()
	doc.Paths.Set("/api/config", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getResolvedConfig",
			Summary:     "Resolved branding for the requesting deployment",
			Parameters:  openapi3.Parameters{sandboxHeaderParam()},
			Responses:   jsonResponses("Branding"),
		},
	})
	doc.Paths.Set("/api/connection-details", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getConnectionDetails",
			Summary:     "Mint room connection details for a demo session",
			Responses:   jsonResponses("ConnectionDetails"),
		},
	})
	doc.Paths.Set("/api/og", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getOpenGraphImage",
			Summary:     "Rendered Open Graph preview image",
			Parameters:  openapi3.Parameters{sandboxHeaderParam()},
			Responses:   pngResponses(),
		},
	})
	doc.Paths.Set("/api/qr", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getJoinQR",
			Summary:     "QR code pointing at the public page URL",
			Responses:   pngResponses(),
		},
	})

	return doc
}

func sandboxHeaderParam() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:   "X-Sandbox-ID",
			In:     "header",
			Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
	}
}

func jsonResponses(schemaName string) *openapi3.Responses {
	responses := openapi3.NewResponses()
	desc := "OK"
	responses.Set("200", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &desc,
			Content: openapi3.NewContentWithJSONSchemaRef(
				openapi3.NewSchemaRef("#/components/schemas/"+schemaName, nil)),
		},
	})
	return responses
}

func pngResponses() *openapi3.Responses {
	responses := openapi3.NewResponses()
	desc := "PNG image"
	responses.Set("200", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &desc,
			Content: openapi3.Content{
				"image/png": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{
						Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "binary"},
					},
				},
			},
		},
	})
	return responses
}

func errorSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}
}

func brandingSchema() *openapi3.SchemaRef {
	props := openapi3.Schemas{}
	for _, name := range []string{
		"companyName", "pageTitle", "pageDescription", "logo", "logoDark",
		"favicon", "accent", "accentDark", "background", "font",
		"startButtonText", "supportUrl",
	} {
		props[name] = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
	}
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: props},
	}
}

func connectionDetailsSchema() *openapi3.SchemaRef {
	props := openapi3.Schemas{}
	for _, name := range []string{
		"serverUrl", "roomName", "participantIdentity", "participantName", "participantToken",
	} {
		props[name] = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
	}
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: props},
	}
}
