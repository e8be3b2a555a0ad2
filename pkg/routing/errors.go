package routing

import "errors"

var (
	ErrMalformedRoutes = errors.New("routing: route file is not a mapping of pattern to target")
	ErrReadRoutes      = errors.New("routing: failed to read route file")
	ErrWriteRoutes     = errors.New("routing: failed to write route file")
)
