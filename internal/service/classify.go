package service

import (
	"context"
	"errors"

	"stock_harvester/internal/domain"
)

// Classifier decides how a failed task attempt is treated.
type Classifier func(err error) domain.ErrorClass

// DefaultClassifier treats network errors, timeouts, 5xx responses and
// malformed payloads as transient, and explicit permanent errors, not-found
// and non-auth 4xx responses as permanent.
func DefaultClassifier(err error) domain.ErrorClass {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		return domain.ClassStoreUnavailable
	case errors.Is(err, domain.ErrConstraintViolation):
		return domain.ClassConstraint
	case errors.Is(err, domain.ErrTaskTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.ClassTimeout
	case errors.Is(err, domain.ErrNotFound):
		return domain.ClassPermanent
	}

	var perm *domain.PermanentError
	if errors.As(err, &perm) {
		return domain.ClassPermanent
	}

	var status *domain.HTTPStatusError
	if errors.As(err, &status) && status.PermanentStatus() {
		return domain.ClassPermanent
	}

	return domain.ClassTransient
}
