package importer

import (
	"fmt"
	"time"
)

// Error codes carried by ImportError
const (
	CodeReadFailed     = "READ_FAILED"
	CodeMissingColumns = "MISSING_COLUMNS"
	CodeUnknownFormat  = "UNKNOWN_FORMAT"
	CodeWriteFailed    = "WRITE_FAILED"
)

type ImportError struct {
	Code      string
	Message   string
	Timestamp time.Time
	Context   map[string]string
	Err       error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func newImportError(code, message string, err error, context map[string]string) *ImportError {
	return &ImportError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   context,
		Err:       err,
	}
}
