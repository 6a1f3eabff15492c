// Package whatsapp turns orders into wa.me deep links addressed to the store
// administrators.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoAdminNumbers is returned when no administrator number is configured.
// It is a server misconfiguration, not a client error.
var ErrNoAdminNumbers = errors.New("no admin numbers configured")

const linkBase = "https://wa.me/"

// Config holds the administrator numbers, loaded once at startup.
type Config struct {
	AdminNumbers []string
}

// LinkBuilder builds one deep link per configured administrator.
type LinkBuilder struct {
	cfg *Config
}

// NewLinkBuilder creates a LinkBuilder over cfg.
func NewLinkBuilder(cfg *Config) *LinkBuilder {
	return &LinkBuilder{cfg: cfg}
}

// Build returns https://wa.me/<number>?text=<message> for every configured
// number, in configuration order. A single leading "+" is stripped from each
// number; nothing else is rewritten.
func (b *LinkBuilder) Build(message string) ([]string, error) {
	if b.cfg == nil || len(b.cfg.AdminNumbers) == 0 {
		return nil, ErrNoAdminNumbers
	}

	text := encodeURIComponent(message)
	links := make([]string, 0, len(b.cfg.AdminNumbers))
	for _, number := range b.cfg.AdminNumbers {
		number = strings.TrimPrefix(number, "+")
		links = append(links, linkBase+number+"?text="+text)
	}
	return links, nil
}

// encodeURIComponent escapes s for use as a query value, with spaces as %20
// rather than "+".
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
