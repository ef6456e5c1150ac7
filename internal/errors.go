package internal

import (
	"fmt"
	"strings"
)

// ValidationError rejects input before it reaches engine state. The state is left unchanged.
type ValidationError struct {
	Op      string
	Row     int
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation error")
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ", "))
	}
	return b.String()
}

// ParseError reports an unreadable payload or cell along with the underlying cause.
type ParseError struct {
	Source string
	Row    int
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse error: %s: row %d: %v", e.Source, e.Row, e.Cause)
	}
	return fmt.Sprintf("parse error: %s: %v", e.Source, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
