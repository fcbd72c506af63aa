// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Queue operations
	OpQueueAdd     Op = "add to queue"
	OpQueueIngest  Op = "ingest folder"
	OpQueueAdvance Op = "advance queue"

	// Metadata operations
	OpMetadataRead    Op = "read file metadata"
	OpMetadataResolve Op = "resolve metadata"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpLogOpen    Op = "open log file"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
