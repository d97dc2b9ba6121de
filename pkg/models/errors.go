package models

import "errors"

var (
	ErrInvalidDay         = errors.New("invalid day, expected YYYY-MM-DD")
	ErrInvalidSymptom     = errors.New("unknown symptom tag")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
