package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// Store error taxonomy. Errors returned by the repositories wrap one of these,
// so callers test with errors.Is.
var (
	// ErrStoreUnavailable covers connectivity loss and timeouts.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrDuplicateKey means a unique index rejected an insert.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound means no active record matched. It is an expected outcome.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input was rejected before reaching the store.
	ErrValidation = errors.New("validation failure")
)

// classify maps a driver error onto the taxonomy, keeping the original
// error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	}

	var selErr topology.ServerSelectionError
	switch {
	case mongo.IsTimeout(err),
		mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.As(err, &selErr):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
