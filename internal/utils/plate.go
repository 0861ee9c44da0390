package utils

import (
	"fmt"
	"regexp"
	"strings"

	"carrental-backend/internal/domain"
)

var platePattern = regexp.MustCompile(`^\d{2} [A-Z] \d{3} [A-Z]{2}$`)

// NormalizePlate trims, uppercases and collapses inner whitespace
func NormalizePlate(plate string) string {
	return strings.Join(strings.Fields(strings.ToUpper(plate)), " ")
}

// ParsePlate normalizes a plate number and checks it against the "12 A 345 BC" layout
func ParsePlate(plate string) (string, error) {
	normalized := NormalizePlate(plate)
	if !platePattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: got %q", domain.ErrPlateFormat, plate)
	}
	return normalized, nil
}
