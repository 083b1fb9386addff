package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const maxURLLength = 2048

// URLValidator checks URLs before folio sends a request to them or hands
// them to the platform opener.
type URLValidator struct {
	// AllowHTTP permits plain http in addition to https
	AllowHTTP bool
	// AllowLocalhost permits loopback and private hosts
	AllowLocalhost bool
	MaxLength      int
}

// NewLinkValidator accepts only public https links. Used for storefront
// links opened in the browser.
func NewLinkValidator() *URLValidator {
	return &URLValidator{MaxLength: maxURLLength}
}

// NewEndpointValidator accepts http and local hosts so the catalog
// endpoint can point at a mirror or a test server.
func NewEndpointValidator() *URLValidator {
	return &URLValidator{
		AllowHTTP:      true,
		AllowLocalhost: true,
		MaxLength:      maxURLLength,
	}
}

// Validate parses input and returns it normalized.
func (v *URLValidator) Validate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'`\x00") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	switch u.Scheme {
	case "https":
	case "http":
		if !v.AllowHTTP {
			return "", fmt.Errorf("URL must use https")
		}
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if u.User != nil {
		return "", fmt.Errorf("URL must not carry credentials")
	}

	if !v.AllowLocalhost {
		if isLocalhost(hostname) {
			return "", fmt.Errorf("localhost URLs are not permitted")
		}
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return "", fmt.Errorf("private IP addresses are not permitted")
		}
	}

	if strings.Contains(strings.ToLower(u.RawQuery), "javascript:") {
		return "", fmt.Errorf("suspicious query parameters detected")
	}

	return u.String(), nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "0.0.0.0" ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
