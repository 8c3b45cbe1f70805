package cluster2d

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned, wrapped with a description of the
// offending value, when an engine is called with out-of-range input.
// Validation always happens before any work starts.
var ErrInvalidParameter = errors.New("cluster2d: invalid parameter")

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}
