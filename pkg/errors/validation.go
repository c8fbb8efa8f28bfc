package errors

import (
	"regexp"
	"unicode"
)

// nodeIDRegex matches valid node identifiers: numbered map nodes ("42"),
// town ids ("fort_istra"), and special area ids ("fw_ice_fields").
var nodeIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_ -]*$`)

// ValidateNodeID validates a map-graph node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Letters, digits, underscores, hyphens, and spaces only
//   - Maximum length of 64 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidNodeID, "node id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains control characters")
		}
	}

	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidNodeID, "invalid node id: %q", id)
	}

	return nil
}

// ValidatePosition validates a node position against the map image bounds.
// Positions are pixel coordinates on the traced map; negative or out-of-range
// values indicate a corrupted snapshot or a bad editor command.
func ValidatePosition(x, y, maxX, maxY float64) error {
	if x != x || y != y { // NaN
		return New(ErrCodeInvalidPosition, "position is not a number")
	}
	if x < 0 || y < 0 {
		return New(ErrCodeInvalidPosition, "position (%.0f, %.0f) is negative", x, y)
	}
	if x > maxX || y > maxY {
		return New(ErrCodeInvalidPosition, "position (%.0f, %.0f) outside map bounds %gx%g", x, y, maxX, maxY)
	}
	return nil
}
