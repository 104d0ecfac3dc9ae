package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/lib/pq"

	"stock_harvester/internal/domain"
)

// wrapErr maps driver failures onto the domain error taxonomy so the
// harvester can tell bad rows from a dead database.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConstraintViolation, pqErr.Message)
		case "08", "53", "57":
			return fmt.Errorf("%s: %w: %s", op, domain.ErrStoreUnavailable, pqErr.Message)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
