package destinationcatalog

import "errors"

var ErrNotFound = errors.New("destination not found")
