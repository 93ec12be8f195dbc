package services

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidOffer     = errors.New("offered price must be a positive number")
	ErrInvalidTier      = errors.New("observation tier must be truth, market or noise")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrDecisionLog wraps audit write failures. The call that produced the
	// decision fails with it.
	ErrDecisionLog = errors.New("decision log write failed")
)
