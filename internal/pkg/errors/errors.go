package errors

import "errors"

var (
	ErrInvalid       = errors.New("invalid")
	ErrTooMany       = errors.New("too many requests")
	ErrInternal      = errors.New("internal")
	ErrUploadTooBig  = errors.New("upload too large")
	ErrUploadBadType = errors.New("unsupported upload type")
)

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
