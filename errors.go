package coursegrid

import "errors"

// ErrIndexRequired is returned when a schedule is opened without a catalog index.
var ErrIndexRequired = errors.New("search index required")
