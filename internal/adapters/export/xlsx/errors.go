package xlsx

import "errors"

// ErrWrite wraps failures while building or writing a workbook.
var ErrWrite = errors.New("xlsx write failed")
