package core

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SplitList splits a comma separated list, cleaning every item and dropping empty ones.
func SplitList(s string, lower ...bool) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanString(p, lower...); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// ParseID parses a hex ObjectID, failing with an InvalidInput error named after `what`.
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(CleanString(hex))
	if err != nil {
		return primitive.NilObjectID, NewInvalidInputError("Invalid " + what + " ID")
	}
	return id, nil
}
