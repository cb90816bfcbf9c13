package apperr

import "errors"

// Kinds returned by the services. Match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication failed")
	ErrDuplicate  = errors.New("duplicate upload")
	ErrStorage    = errors.New("storage error")
)

// Error carries a message meant for the user and the kind it belongs to.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the kind of err, or nil when err is not one of ours.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrAuth, ErrDuplicate, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
