package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRouter wires the handler into chi through humachi with all routes
// registered, the way the container does, so tests exercise the actual wire
// format and not just the Go structs.
func setupRouter(
	t *testing.T,
	repo shortener.Repository,
	publish messaging.Publish[shortener.ClickEvent],
) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	handlers.RegisterRoutes(api,
		newTestHandler(t, repo, publish, fixedNow),
		handlers.NewHealthHandler(nil),
	)

	return router
}

func TestHTTPSurface(t *testing.T) {
	t.Run("create then redirect carries the Location header", func(t *testing.T) {
		repo := store.NewMemoryStore()

		var published []shortener.ClickEvent
		capture := func(event *shortener.ClickEvent) error {
			published = append(published, *event)

			return nil
		}

		router := setupRouter(t, repo, capture)

		// Create.
		body := strings.NewReader(`{"url": "https://example.com", "validity": 30}`)
		req := httptest.NewRequest(http.MethodPost, "/shorturls", body)
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			ShortLink string `json:"shortLink"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.True(t, strings.HasPrefix(created.ShortLink, testBaseURL+"/"))
		assert.Equal(t, created.ShortLink, w.Header().Get("Location"))

		code := strings.TrimPrefix(created.ShortLink, testBaseURL+"/")
		assert.Len(t, code, shortener.GeneratedCodeLength)

		// Redirect.
		req = httptest.NewRequest(http.MethodGet, "/"+code, nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.2")
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")

		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com", w.Header().Get("Location"))

		require.Len(t, published, 1)
		assert.Equal(t, shortener.Code(code), published[0].Code)
		assert.Equal(t, "198.51.100.1", published[0].IP)
		assert.Equal(t, "DE", published[0].Country)
	})

	t.Run("stats reports the recorded click over the wire", func(t *testing.T) {
		repo := store.NewMemoryStore()
		require.NoError(t, repo.InsertLink(context.Background(), &shortener.Link{
			Code:        "promo24",
			OriginalURL: "https://example.com",
			CreatedAt:   testNow,
			ExpiresAt:   testNow.Add(30 * time.Minute),
		}))
		require.NoError(t, repo.InsertClick(context.Background(), &shortener.ClickEvent{
			Code:      "promo24",
			Timestamp: testNow,
			IP:        "198.51.100.1",
			UserAgent: "TestAgent/1.0",
			Country:   "DE",
		}))

		router := setupRouter(t, repo, noopPublish[shortener.ClickEvent]())

		req := httptest.NewRequest(http.MethodGet, "/shorturls/promo24", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stats struct {
			Shortcode   string `json:"shortcode"`
			TotalClicks int64  `json:"totalClicks"`
			Clicks      []struct {
				IP        string `json:"ip"`
				UserAgent string `json:"user_agent"`
				Country   string `json:"country"`
			} `json:"clicks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, "promo24", stats.Shortcode)
		assert.Equal(t, int64(1), stats.TotalClicks)
		require.Len(t, stats.Clicks, 1)
		assert.Equal(t, "TestAgent/1.0", stats.Clicks[0].UserAgent)
	})

	t.Run("answers 404 for a malformed redirect code", func(t *testing.T) {
		router := setupRouter(t, store.NewMemoryStore(), noopPublish[shortener.ClickEvent]())

		req := httptest.NewRequest(http.MethodGet, "/no", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("answers 400 for a malformed stats code", func(t *testing.T) {
		router := setupRouter(t, store.NewMemoryStore(), noopPublish[shortener.ClickEvent]())

		req := httptest.NewRequest(http.MethodGet, "/shorturls/no", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("health is not shadowed by the redirect catch-all", func(t *testing.T) {
		router := setupRouter(t, store.NewMemoryStore(), noopPublish[shortener.ClickEvent]())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":true`)
	})
}
