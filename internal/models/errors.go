package models

import (
	"errors"
	"fmt"
)

var (
	// ErrCardNotFound covers both a missing card and a card owned by someone
	// else. Callers must not be able to tell the two apart.
	ErrCardNotFound = errors.New("card not found")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	ErrAmountPrecision  = fmt.Errorf("%w: at most two fractional digits", ErrInvalidAmount)
	ErrAmountOutOfRange = fmt.Errorf("%w: too large", ErrInvalidAmount)

	// ErrInvalidPaging is only produced when strict paging is enabled.
	ErrInvalidPaging = errors.New("invalid paging parameters")
)
