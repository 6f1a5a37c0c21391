package service

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPredictionFailed = errors.New("prediction error")
)
