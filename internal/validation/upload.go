package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLength = 120
)

// ValidateTitle checks a user-supplied video title
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("title too long: maximum is %d characters", maxTitleLength)
	}
	return nil
}

// ValidateExerciseType checks the exercise label sent to the analysis service
func ValidateExerciseType(exerciseType string) error {
	exerciseType = strings.TrimSpace(exerciseType)
	if exerciseType == "" {
		return fmt.Errorf("exercise type is required")
	}
	for _, r := range exerciseType {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-' || r == ' '
		if !ok {
			return fmt.Errorf("exercise type contains invalid character %q", r)
		}
	}
	return nil
}
