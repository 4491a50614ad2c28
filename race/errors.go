package race

import "errors"

var (
	// ErrConfiguration reports an invalid option or option combination.
	ErrConfiguration = errors.New("configuration error")
	// ErrDataShape reports a table whose shape breaks the input contract.
	ErrDataShape = errors.New("data shape error")
	// ErrUnresolvedMissingValue reports a null that survived past the point
	// where the caller was expected to resolve it.
	ErrUnresolvedMissingValue = errors.New("unresolved missing value")
)
