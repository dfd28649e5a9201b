package handlers

import "time"

// LinkRecord is the JSON representation of a shortened link.
type LinkRecord struct {
	ID          int64     `doc:"Opaque identifier"    example:"42"                          json:"id"`
	OriginalURL string    `doc:"The normalized URL"   example:"https://example.com/page"    json:"originalUrl"`
	ShortCode   string    `doc:"The short code"       example:"V1StGXR8"                    json:"shortCode"`
	CreatedAt   time.Time `doc:"Creation time"        json:"createdAt"`
	Clicks      int64     `doc:"Redirect click count" example:"7"                           json:"clicks"`
}

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// CreateLinkResponse is the response for a successfully created short link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkRecord
}

// ListLinksResponse is the response for listing the caller's links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkRecord `doc:"The caller's links, newest first" json:"links"`
	}
}

// DeleteLinkRequest is the request body for deleting a short link.
type DeleteLinkRequest struct {
	Body struct {
		ShortCode string `doc:"The short code to delete" example:"V1StGXR8" json:"shortCode"`
	}
}

// DeleteLinkResponse is the response for a successful deletion.
type DeleteLinkResponse struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"V1StGXR8" path:"code"`
}

// RedirectResponse redirects the visitor to the original URL, or to the
// home location when the code is unknown.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The redirect target" header:"Location"`
	}
}
