package parser

import "fmt"

// SyntaxError is a recoverable parse failure with the position (when
// participle can supply one) where the grammar rejected the input (§7
// Parse-error).
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error: %s", e.Message)
	}
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}
