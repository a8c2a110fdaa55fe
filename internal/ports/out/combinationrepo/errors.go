package combinationrepo

import "errors"

var (
	ErrNotFound      = errors.New("combination entry not found")
	ErrAlreadyExists = errors.New("combination entry already exists")
)
