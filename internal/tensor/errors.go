package tensor

import "github.com/pkg/errors"

// Validation errors returned by roll planning and backends.
// Callers match them with errors.Is; the wrapped message carries the details.
var (
	ErrInvalidAxis       = errors.New("invalid axis")
	ErrShapeMismatch     = errors.New("shifts and axes length mismatch")
	ErrUnsupportedDType  = errors.New("unsupported data type")
	ErrIncompatibleShape = errors.New("incompatible shapes")
)
