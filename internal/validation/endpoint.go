package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// opaqueScheme matches "mailto:x" or "javascript:x" but not "host:8080".
var opaqueScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:[^0-9]`)

var (
	ErrEmptyURL      = errors.New("URL cannot be empty")
	ErrURLTooLong    = errors.New("URL too long")
	ErrScheme        = errors.New("URL must use http or https protocol")
	ErrMissingHost   = errors.New("URL must have a valid hostname")
	ErrLocalhost     = errors.New("localhost URLs are not permitted")
	ErrPrivateIP     = errors.New("private IP addresses are not permitted")
	ErrUnsafeURLPath = errors.New("URL path contains traversal patterns")
)

// EndpointValidator checks URLs the application talks to or hands to the
// system opener: the catalog base URL and result info links.
type EndpointValidator struct {
	// AllowLocal permits localhost and private addresses (tests, self-hosted mirrors).
	AllowLocal bool
	// RequireHTTPS rejects plain http.
	RequireHTTPS bool
	MaxLength    int
}

// NewEndpointValidator returns a validator with strict defaults.
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{MaxLength: 2048}
}

// Validate parses raw and returns the normalized URL. A missing scheme
// defaults to https. Trailing slashes are stripped from the path so callers
// can append segments.
func (v *EndpointValidator) Validate(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyURL
	}
	maxLen := v.MaxLength
	if maxLen <= 0 {
		maxLen = 2048
	}
	if len(raw) > maxLen {
		return nil, fmt.Errorf("%w (max %d characters)", ErrURLTooLong, maxLen)
	}
	if strings.ContainsAny(raw, "<>\"'` ") {
		return nil, fmt.Errorf("URL contains invalid characters")
	}
	if !strings.Contains(raw, "://") {
		if opaqueScheme.MatchString(raw) {
			return nil, ErrScheme
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}

	switch u.Scheme {
	case "https":
	case "http":
		if v.RequireHTTPS {
			return nil, ErrScheme
		}
	default:
		return nil, ErrScheme
	}

	host := u.Hostname()
	if host == "" {
		return nil, ErrMissingHost
	}
	if !v.AllowLocal {
		if isLocalhost(host) {
			return nil, ErrLocalhost
		}
		if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
			return nil, ErrPrivateIP
		}
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return nil, ErrUnsafeURLPath
		}
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.Fragment = ""
	return u, nil
}

// ValidateString is Validate returning the normalized string form.
func (v *EndpointValidator) ValidateString(raw string) (string, error) {
	u, err := v.Validate(raw)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func isLocalhost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "::1" ||
		strings.HasSuffix(host, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsUnspecified()
}
