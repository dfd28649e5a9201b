package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/analytics"
	"github.com/hmendes/linkly/internal/auth"
	"github.com/hmendes/linkly/internal/messaging"
	"github.com/hmendes/linkly/internal/shortener"
)

// ListLimit caps how many links a single list request returns.
const ListLimit = 50

// RefMarker is the query parameter value appended to redirect targets to
// identify this service as the referrer.
const RefMarker = "linkly"

// LinkHandler handles link shortening, listing, deletion, and resolution.
type LinkHandler struct {
	service        *shortener.Service
	repo           shortener.Repository
	baseURL        string
	homeURL        string
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	publishVisited messaging.Publish[analytics.LinkVisitedEvent]
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent]
	logger         *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *shortener.Service,
	repo shortener.Repository,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishVisited messaging.Publish[analytics.LinkVisitedEvent],
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:        service,
		repo:           repo,
		baseURL:        baseURL,
		homeURL:        baseURL + "/",
		publishCreated: publishCreated,
		publishVisited: publishVisited,
		publishDeleted: publishDeleted,
		logger:         logger,
	}
}

// CreateLink shortens a URL for the authenticated caller.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	owner, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if req.Body.URL == "" {
		return nil, huma.Error400BadRequest("url is required")
	}

	link, err := h.service.Shorten(ctx, req.Body.URL, owner)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidURL):
			return nil, huma.Error400BadRequest("invalid url")
		case errors.Is(err, shortener.ErrGenerationExhausted):
			h.logger.Error("short code generation exhausted", zap.String("owner", owner))

			return nil, huma.Error500InternalServerError("failed to generate a unique short code")
		default:
			h.logger.Error("failed to create link", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to save link")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:        string(link.Code),
		OriginalURL: link.OriginalURL,
		OwnerEmail:  link.OwnerEmail,
		CreatedAt:   link.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{}
	resp.Headers.Location = fmt.Sprintf("%s/%s", h.baseURL, link.Code)
	resp.Body = linkRecord(link)

	return resp, nil
}

// ListLinks returns the caller's most recent links.
func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	owner, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	links, err := h.repo.ListByOwner(ctx, owner, ListLimit)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkRecord, 0, len(links))

	for _, link := range links {
		resp.Body.Links = append(resp.Body.Links, linkRecord(link))
	}

	return resp, nil
}

// DeleteLink deletes a link owned by the caller. A code that does not
// exist and a code owned by someone else are reported identically, so the
// response never leaks whether a foreign code exists.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	owner, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if req.Body.ShortCode == "" {
		return nil, huma.Error400BadRequest("shortCode is required")
	}

	deleted, err := h.repo.DeleteByOwner(ctx, owner, shortener.Code(req.Body.ShortCode))
	if err != nil {
		h.logger.Error("failed to delete link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	if !deleted {
		return nil, huma.Error404NotFound("short link not found")
	}

	event := &analytics.LinkDeletedEvent{
		Code:       req.Body.ShortCode,
		OwnerEmail: owner,
		DeletedAt:  time.Now(),
	}

	if err := h.publishDeleted(event); err != nil {
		h.logger.Error("failed to publish deleted event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &DeleteLinkResponse{}
	resp.Body.Success = true

	return resp, nil
}

// Redirect resolves a short code to its original URL. Unknown codes
// redirect to the home location rather than erroring; the click increment
// rides on the visited event and is never awaited.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.repo.GetByCode(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			resp := &RedirectResponse{Status: http.StatusFound}
			resp.Headers.Location = h.homeURL

			return resp, nil
		}

		h.logger.Error("failed to resolve link",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkVisitedEvent{
		Code:      req.Code,
		VisitedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish visited event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = withRefMarker(link.OriginalURL)

	return resp, nil
}

// withRefMarker appends the referrer marker query parameter to the target.
func withRefMarker(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	q := u.Query()
	q.Set("ref", RefMarker)
	u.RawQuery = q.Encode()

	return u.String()
}

func linkRecord(link *shortener.Link) LinkRecord {
	return LinkRecord{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   string(link.Code),
		CreatedAt:   link.CreatedAt,
		Clicks:      link.Clicks,
	}
}
