package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all short link routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, healthHandler *HealthHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/shorturls",
		Summary:       "Create short link",
		Description:   "Shortens a URL, with an optional custom shortcode and validity window.",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Links"},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-short-url-stats",
		Method:      http.MethodGet,
		Path:        "/shorturls/{code}",
		Summary:     "Short link statistics",
		Description: "Returns the link's fields, total click count, and recent click history.",
		Tags:        []string{"Links"},
	}, urlHandler.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Ops"},
	}, healthHandler.Check)

	// Registered last so /shorturls and /health take precedence over the
	// catch-all code path.
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and records the click asynchronously.",
		Tags:        []string{"Links"},
	}, urlHandler.RedirectToURL)
}
