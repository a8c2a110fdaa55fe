package templatecatalog

import "errors"

var ErrNotFound = errors.New("template not found")
