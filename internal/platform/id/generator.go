package id

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque IDs, used to tag sync runs in logs and spans.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases value and collapses runs of other characters into
// single dashes: "Real Madrid" becomes "real-madrid".
func Slug(value string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-"), "-")
}
