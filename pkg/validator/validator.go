package validator

import (
	"net/url"
	"strings"
)

// ValidateURL checks that a string is a well-formed absolute HTTP/HTTPS URL
func ValidateURL(urlStr string) error {
	// Trim whitespace
	urlStr = strings.TrimSpace(urlStr)

	if urlStr == "" {
		return ErrEmptyURL
	}

	// Parse URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return ErrInvalidURL
	}

	// Check scheme
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return ErrInvalidScheme
	}

	// Check host
	if parsedURL.Host == "" {
		return ErrInvalidHost
	}

	return nil
}

// IsValidURL is a convenience wrapper over ValidateURL
func IsValidURL(urlStr string) bool {
	return ValidateURL(urlStr) == nil
}
