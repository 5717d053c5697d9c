package statement

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat aborts an import when the file extension maps to
// no known reader.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

// ErrZeroAmount marks a row whose amount is zero. Such rows are dropped,
// not imported and not reported.
var ErrZeroAmount = errors.New("zero amount row")

// RowError is a row-local parse failure. It is recorded in the import
// summary and never aborts the batch.
type RowError struct {
	Row     int    // 1-based data row position
	Message string
	Raw     string // the raw row, joined for the summary
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}
