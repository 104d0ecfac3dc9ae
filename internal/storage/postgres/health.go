package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type HealthChecker struct {
	db *sqlx.DB
}

func NewHealthChecker(db *sqlx.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Ping(ctx context.Context) error {
	return wrapErr("ping", h.db.PingContext(ctx))
}
