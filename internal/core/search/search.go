package search

import (
	"fmt"
	"strings"

	"github.com/trolleyhk/trolley/internal/core/domain"
)

// Mode selects where a submitted query executes. ModeClient filters the
// in-memory snapshot with Filter; ModeServer delegates to the catalog
// backend's category search, which is prefix-on-category only. The two
// match differently and are deliberately kept as separate strategies.
type Mode string

const (
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// ParseMode maps a configuration value to a Mode.
// The empty value defaults to ModeClient.
func ParseMode(v string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeClient, "":
		return ModeClient, nil
	case ModeServer:
		return ModeServer, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", v)
	}
}

// Filter returns the products whose name or category contains term
// case-insensitively, preserving catalog order. The empty term returns
// catalog as is. The catalog slice is never mutated.
func Filter(catalog []domain.Product, term string) []domain.Product {
	if term == "" {
		return catalog
	}
	needle := strings.ToLower(term)
	filtered := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if matches(p, needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matches(p domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}
