package orchestrators

// InvalidInputError marks a failure caused by the caller's input rather than
// by storage. The HTTP layer maps it to 400.
type InvalidInputError struct {
	Err error
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the underlying domain error to errors.Is.
func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

func invalidInput(err error) error {
	return &InvalidInputError{Err: err}
}
