package domain

import (
	"fmt"
	"strings"
	"time"
)

// BeeName is an accepted name served to users
type BeeName struct {
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BeeNameSuggestion is a user submitted name awaiting moderation
type BeeNameSuggestion struct {
	Name        string    `json:"name" bson:"name"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

// NormalizeBeeName trims and lowercases a name and checks its length
func NormalizeBeeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidInput)
	}
	if len(name) > MaxBeeNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, MaxBeeNameLength)
	}
	return name, nil
}
