package apperror

// AppError is a custom error type that carries an HTTP status code and a
// stable machine-readable business code alongside the user-facing message.
type AppError struct {
	Status  int    // HTTP status code (e.g., 400, 409)
	Code    string // Stable business code (e.g., "SLOT_ALREADY_BOOKED"), may be empty
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(status int, message string) *AppError {
	return &AppError{
		Status:  status,
		Message: message,
	}
}

// NewCoded creates a new AppError with a stable business code.
// Clients are expected to branch on Code, not on Message.
func NewCoded(status int, code, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, status int, message string) *AppError {
	return &AppError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy of the error with a more specific message,
// keeping the status and code intact. The copy wraps the original, so
// errors.Is against the sentinel still matches.
func (e *AppError) WithMessage(message string) *AppError {
	clone := *e
	clone.Message = message
	clone.Err = e
	return &clone
}
