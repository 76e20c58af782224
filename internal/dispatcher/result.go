package dispatcher

// Status indicates the outcome of a command.
type Status uint8

const (
	// StatusOK indicates the command ran.
	StatusOK Status = iota
	// StatusNoOp indicates the command was recognized but changed nothing.
	StatusNoOp
	// StatusUnhandled indicates no command matched. Hosts may fall back to
	// their own handling.
	StatusUnhandled
	// StatusError indicates a custom command failed.
	StatusError
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusUnhandled:
		return "unhandled"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving and running a command.
type Result struct {
	Status Status

	// Command is the resolved command name, empty for plain input.
	Command string

	// Error is set for StatusError.
	Error error

	// Message is an optional status message for display.
	Message string
}

// Handled reports whether the command was consumed, whether or not it
// changed anything.
func (r Result) Handled() bool {
	return r.Status == StatusOK || r.Status == StatusNoOp
}

// IsOK returns true if the command ran.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// Success creates a successful result.
func Success(command string) Result {
	return Result{Status: StatusOK, Command: command}
}

// NoOp creates a no-operation result.
func NoOp(command string) Result {
	return Result{Status: StatusNoOp, Command: command}
}

// Unhandled creates an unhandled result.
func Unhandled(command string) Result {
	return Result{Status: StatusUnhandled, Command: command}
}

// Error creates an error result.
func Error(command string, err error) Result {
	return Result{Status: StatusError, Command: command, Error: err}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}
