package shortener

import (
	"net/url"
	"strings"
)

// NormalizeURL turns user input into an absolute URL suitable for storage
// and redirects. A missing scheme defaults to https. Anything that does
// not parse into an http(s) URL with a host is ErrInvalidURL.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}

	if u.Host == "" {
		return "", ErrInvalidURL
	}

	u.Host = strings.ToLower(u.Host)

	return u.String(), nil
}
