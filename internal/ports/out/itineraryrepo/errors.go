package itineraryrepo

import "errors"

var (
	ErrNotFound      = errors.New("itinerary not found")
	ErrAlreadyExists = errors.New("itinerary already exists")
	ErrCodeTaken     = errors.New("itinerary unique code already taken")
)
