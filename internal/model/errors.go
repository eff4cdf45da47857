package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. These allow errors.Is checks by callers.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoRecords     = errors.New("no swim records")
	ErrBadTime       = errors.New("malformed time")
	ErrBadDate       = errors.New("malformed date")
)

// InputError reports a missing or unusable input file.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("input: %v", e.Err)
	}
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed time or date value in a data row.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
