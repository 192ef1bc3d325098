package output

import "errors"

// ErrUnsupportedFormat is returned when no formatter is registered for a name.
var ErrUnsupportedFormat = errors.New("unsupported report format")
