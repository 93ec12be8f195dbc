package domain

import "errors"

var ErrImmutableDecision = errors.New("pricing decisions are write-once")
