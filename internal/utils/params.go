package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cleanops/internal/models"
	"cleanops/internal/types"

	"github.com/google/uuid"
)

// ParseDateParam parses an optional YYYY-MM-DD request value. A blank value
// yields nil.
func ParseDateParam(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	date, err := models.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", types.ErrValidation, name, value)
	}
	return &date, nil
}

func RequireDateParam(name, value string) (time.Time, error) {
	date, err := ParseDateParam(name, value)
	if err != nil {
		return time.Time{}, err
	}
	if date == nil {
		return time.Time{}, fmt.Errorf("%w: %s is required", types.ErrValidation, name)
	}
	return *date, nil
}

// ParseDateRange requires both ends and rejects a range that runs backwards.
func ParseDateRange(from, to string) (time.Time, time.Time, error) {
	start, err := RequireDateParam("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := RequireDateParam("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to %s is before from %s", types.ErrValidation, to, from)
	}
	return start, end, nil
}

func ParseUUIDParam(name, value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid id", types.ErrValidation, name)
	}
	return &id, nil
}

// ParseIntParam returns fallback for a blank value.
func ParseIntParam(name, value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", types.ErrValidation, name, value)
	}
	return parsed, nil
}
