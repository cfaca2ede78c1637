package ratingdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates no rating row exists for the player and track.
	ErrNotFound = errors.New("player rating not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
