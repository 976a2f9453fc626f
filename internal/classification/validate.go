package classification

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxLabelLength is SQL Server's limit for a sensitivity label.
const MaxLabelLength = 128

var (
	ErrInvalidRank  = errors.New("invalid sensitivity rank")
	ErrLabelTooLong = errors.New("sensitivity label too long")
)

// InvalidClassificationError reports a triple that cannot be emitted.
// It unwraps to ErrInvalidRank or ErrLabelTooLong.
type InvalidClassificationError struct {
	Coordinate  Coordinate
	DisplayName string
	Value       string
	Err         error
}

func (e *InvalidClassificationError) Error() string {
	switch e.Err {
	case ErrInvalidRank:
		return fmt.Sprintf("invalid classification on %s: rank %q is not one of %s",
			e.target(), e.Value, allowedRanksString())
	case ErrLabelTooLong:
		return fmt.Sprintf("invalid classification on %s: label is %d characters, max %d",
			e.target(), utf8.RuneCountInString(e.Value), MaxLabelLength)
	default:
		return fmt.Sprintf("invalid classification on %s: %v", e.target(), e.Err)
	}
}

func (e *InvalidClassificationError) Unwrap() error {
	return e.Err
}

func (e *InvalidClassificationError) target() string {
	if e.DisplayName != "" {
		return fmt.Sprintf("'%s' (%s)", e.DisplayName, e.Coordinate)
	}
	return fmt.Sprintf("'%s'", e.Coordinate)
}

// Validate checks a triple before any SQL is produced for it. Empty triples are valid.
func Validate(at Coordinate, displayName string, t Triple) error {
	if t.IsEmpty() {
		return nil
	}
	if !t.Rank.IsBlank() {
		if _, err := ParseRank(string(t.Rank)); err != nil {
			return &InvalidClassificationError{Coordinate: at.Normalize(), DisplayName: displayName, Value: string(t.Rank), Err: ErrInvalidRank}
		}
	}
	if utf8.RuneCountInString(t.Label) > MaxLabelLength {
		return &InvalidClassificationError{Coordinate: at.Normalize(), DisplayName: displayName, Value: t.Label, Err: ErrLabelTooLong}
	}
	return nil
}
