package service

import (
	"context"
	"errors"

	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/sentinel"
)

// slotError translates slot store facts.
func slotError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeSlotNotFound, "slot not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeSlotAlreadyBooked, "slot is already booked")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "a slot already exists for this centre, inspector and date")
	}
	return storageError(err, msg)
}

// candidateError translates candidate store facts. A lost compare-and-set
// means another booking of the same candidate committed first.
func candidateError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "candidate not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "candidate booking changed concurrently")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "a candidate with this NEPH code or email already exists")
	}
	return storageError(err, msg)
}

func storageError(err error, msg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeStorageFailure, msg)
}

// resultOf labels an operation outcome for metrics.
func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	if de, ok := dErrors.As(err); ok {
		return string(de.Code)
	}
	return string(dErrors.CodeInternal)
}
