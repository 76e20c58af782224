package dispatcher

import "errors"

// ErrPanic indicates a custom command panicked. The document is left
// unchanged.
var ErrPanic = errors.New("dispatcher: command panic")
