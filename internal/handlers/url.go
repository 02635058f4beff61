package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/clicks"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles short link creation, redirects, and statistics.
type URLHandler struct {
	allocator    *shortener.Allocator
	resolver     *shortener.Resolver
	stats        *shortener.StatsAggregator
	baseURL      string
	publishClick messaging.Publish[shortener.ClickEvent]
	logger       *zap.Logger
}

// NewURLHandler creates a handler wired to the core components.
func NewURLHandler(
	allocator *shortener.Allocator,
	resolver *shortener.Resolver,
	stats *shortener.StatsAggregator,
	baseURL string,
	publishClick messaging.Publish[shortener.ClickEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		allocator:    allocator,
		resolver:     resolver,
		stats:        stats,
		baseURL:      baseURL,
		publishClick: publishClick,
		logger:       logger,
	}
}

// CreateShortURL allocates a shortcode for the submitted URL.
func (h *URLHandler) CreateShortURL(
	ctx context.Context, req *CreateShortURLRequest,
) (*CreateShortURLResponse, error) {
	link, err := h.allocator.Allocate(ctx, shortener.AllocateInput{
		URL:             req.Body.URL,
		CustomCode:      shortener.Code(req.Body.Shortcode),
		ValidityMinutes: req.Body.Validity,
	})
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidURL),
			errors.Is(err, shortener.ErrInvalidValidity),
			errors.Is(err, shortener.ErrInvalidCode):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, shortener.ErrCodeTaken):
			return nil, huma.Error409Conflict("shortcode already in use")
		case errors.Is(err, shortener.ErrAllocationExhausted):
			h.logger.Error("shortcode allocation exhausted")

			return nil, huma.Error500InternalServerError("could not allocate shortcode, please retry")
		default:
			h.logger.Error("failed to create short link", zap.Error(err))

			return nil, huma.Error500InternalServerError("internal error")
		}
	}

	resp := &CreateShortURLResponse{}
	resp.Location = fmt.Sprintf("%s/%s", h.baseURL, link.Code)
	resp.Body.ShortLink = resp.Location
	resp.Body.Expiry = link.ExpiresAt

	return resp, nil
}

// RedirectToURL resolves a shortcode and answers with a redirect. The click
// is published fire-and-forget after a successful resolve; a publish failure
// is logged and never affects the response.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	code := shortener.Code(req.Code)

	destination, err := h.resolver.Resolve(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrNotFound):
			return nil, huma.Error404NotFound("short link not found")
		case errors.Is(err, shortener.ErrExpired):
			return nil, huma.Error410Gone("short link expired")
		default:
			h.logger.Error("failed to resolve short link",
				zap.String("code", req.Code),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("internal error")
		}
	}

	event := clicks.FromRequest(code, clicks.MetaFromContext(ctx), time.Now())
	if err := h.publishClick(&event); err != nil {
		h.logger.Error("failed to publish click event",
			zap.String("code", req.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: destination,
	}, nil
}

// GetStats returns the click statistics for a shortcode. Pure read.
func (h *URLHandler) GetStats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	summary, err := h.stats.Stats(ctx, shortener.Code(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidCode):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, shortener.ErrNotFound):
			return nil, huma.Error404NotFound("short link not found")
		default:
			h.logger.Error("failed to load stats",
				zap.String("code", req.Code),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("internal error")
		}
	}

	resp := &StatsResponse{}
	resp.Body.Shortcode = string(summary.Code)
	resp.Body.URL = summary.OriginalURL
	resp.Body.CreatedAt = summary.CreatedAt
	resp.Body.Expiry = summary.ExpiresAt
	resp.Body.TotalClicks = summary.TotalClicks
	resp.Body.Clicks = make([]ClickRecord, 0, len(summary.Clicks))

	for _, click := range summary.Clicks {
		resp.Body.Clicks = append(resp.Body.Clicks, ClickRecord{
			Timestamp: click.Timestamp,
			Referrer:  click.Referrer,
			IP:        click.IP,
			UserAgent: click.UserAgent,
			Country:   click.Country,
		})
	}

	return resp, nil
}
