package forms

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errNotNumber = errors.New("must be a number")
	errTooLarge  = errors.New("is too large")
)

// ParseFee turns free text into a consultation fee. Empty text means
// unknown. Integer text is taken as is, decimal text is floored and the
// result is never below zero.
func ParseFee(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errNotNumber
		}
		f = math.Floor(f)
		if f > math.MaxInt32 {
			return nil, errTooLarge
		}
		value = int(math.Max(f, 0))
	}
	if value > math.MaxInt32 {
		return nil, errTooLarge
	}
	if value < 0 {
		value = 0
	}
	return &value, nil
}

// ParseRating turns free text into a rating. Empty text means unknown and
// the range is not checked.
func ParseRating(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errNotNumber
	}
	return &value, nil
}
