package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Format errors: corrupt or foreign input. Terminal for the current operation.
var (
	ErrBadMagic          = errors.New("format: bad magic")
	ErrTruncated         = errors.New("format: truncated input")
	ErrMalformedMetadata = errors.New("format: malformed metadata")
	ErrMalformedPayload  = errors.New("format: malformed payload")
)

// Security errors. Authentication failures must fail closed: no partially
// decrypted data is ever returned.
var (
	ErrAuthenticationFailed = errors.New("security: authentication failed")
)

// ErrInvalidArgument reports caller misuse, such as a non-positive chunk size
// or a key of the wrong length.
var ErrInvalidArgument = errors.New("invalid argument")

// IsFormatError reports whether err belongs to the format error class.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrBadMagic) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrMalformedMetadata) ||
		errors.Is(err, ErrMalformedPayload)
}

// SchemaViolationError reports a record that failed schema validation.
// No envelope is produced when validation fails.
type SchemaViolationError struct {
	SchemaID uint32
	Causes   []string
}

// Error implements the error interface.
func (e *SchemaViolationError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("schema %d: record rejected", e.SchemaID)
	}
	return fmt.Sprintf("schema %d: %s", e.SchemaID, strings.Join(e.Causes, "; "))
}
