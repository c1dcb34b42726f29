package service

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrAlreadyProcessed      = errors.New("activity FIT data already processed")
	ErrInvalidFormat         = errors.New("invalid FIT file")
	ErrNoHeartRateData       = errors.New("no heart rate data")
	ErrInvalidZoneBoundaries = errors.New("zone boundaries must be ascending and between 0 and 250")
)
