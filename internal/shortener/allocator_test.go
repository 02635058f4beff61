package shortener_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestAllocator(t *testing.T, repo shortener.Repository) *shortener.Allocator {
	t.Helper()

	gen, err := shortener.NewCodeGenerator()
	require.NoError(t, err)

	return shortener.NewAllocator(repo, gen).WithClock(fixedClock)
}

func intPtr(n int) *int { return &n }

func TestAllocate(t *testing.T) {
	t.Run("generates a code and applies the default validity", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		link, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL: "https://example.com",
		})

		require.NoError(t, err)
		assert.Len(t, string(link.Code), shortener.GeneratedCodeLength)
		assert.True(t, shortener.ValidCode(link.Code))
		assert.Equal(t, "https://example.com", link.OriginalURL)
		assert.Equal(t, fixedNow, link.CreatedAt)
		assert.Equal(t, fixedNow.Add(30*time.Minute), link.ExpiresAt)

		stored, err := repo.GetLink(context.Background(), link.Code)
		require.NoError(t, err)
		assert.Equal(t, link.OriginalURL, stored.OriginalURL)
	})

	t.Run("honours an explicit validity", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		link, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL:             "https://example.com",
			ValidityMinutes: intPtr(1),
		})

		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(time.Minute), link.ExpiresAt)
	})

	t.Run("uses a free custom code verbatim", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		link, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL:        "https://example.com",
			CustomCode: "promo24",
		})

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("promo24"), link.Code)
	})

	t.Run("rejects a non-positive validity", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		for _, validity := range []int{0, -1, -30} {
			_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
				URL:             "https://example.com",
				ValidityMinutes: intPtr(validity),
			})

			assert.ErrorIs(t, err, shortener.ErrInvalidValidity)
		}
	})

	t.Run("rejects a malformed url", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		for _, raw := range []string{"", "example.com", "ftp://example.com", "https://", "not a url"} {
			_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{URL: raw})

			assert.ErrorIs(t, err, shortener.ErrInvalidURL, "url %q", raw)
		}
	})

	t.Run("rejects a malformed custom code", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		for _, code := range []string{"abc", "has-dash", "way_too_long_for_a_code_x"} {
			_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
				URL:        "https://example.com",
				CustomCode: shortener.Code(code),
			})

			assert.ErrorIs(t, err, shortener.ErrInvalidCode, "code %q", code)
		}
	})

	t.Run("rejects a taken custom code", func(t *testing.T) {
		repo := store.NewMemoryStore()
		allocator := newTestAllocator(t, repo)

		_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL:        "https://example.com",
			CustomCode: "promo24",
		})
		require.NoError(t, err)

		_, err = allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL:        "https://other.com",
			CustomCode: "promo24",
		})

		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("validation happens before any store mutation", func(t *testing.T) {
		repo := &stubRepo{}
		allocator := newTestAllocator(t, repo)

		_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL: "not-absolute",
		})

		assert.ErrorIs(t, err, shortener.ErrInvalidURL)
		assert.Zero(t, repo.insertLinkCalls)
	})
}

func TestAllocate_Collisions(t *testing.T) {
	t.Run("gives up after six colliding candidates", func(t *testing.T) {
		// Every candidate already exists.
		repo := &stubRepo{getLinkResult: &shortener.Link{Code: "taken01"}}
		allocator := newTestAllocator(t, repo)

		_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL: "https://example.com",
		})

		assert.ErrorIs(t, err, shortener.ErrAllocationExhausted)
		assert.Equal(t, 6, repo.getLinkCalls)
		assert.Zero(t, repo.insertLinkCalls)
	})

	t.Run("surfaces a late uniqueness violation as taken", func(t *testing.T) {
		// The pre-check sees the code as free, but the insert loses the race.
		repo := &stubRepo{
			getLinkErr:    shortener.ErrNotFound,
			insertLinkErr: shortener.ErrCodeTaken,
		}
		allocator := newTestAllocator(t, repo)

		_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL:        "https://example.com",
			CustomCode: "promo24",
		})

		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("propagates unexpected store errors", func(t *testing.T) {
		repo := &stubRepo{getLinkErr: errMock}
		allocator := newTestAllocator(t, repo)

		_, err := allocator.Allocate(context.Background(), shortener.AllocateInput{
			URL: "https://example.com",
		})

		assert.ErrorIs(t, err, errMock)
	})
}
