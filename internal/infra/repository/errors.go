package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

const (
	pgExclusionViolation = "23P01"
	pgSerializationFail  = "40001"
	pgDeadlockDetected   = "40P01"
	pgLockNotAvailable   = "55P03"
	pgAdminShutdown      = "57P01"
	pgCannotConnectNow   = "57P03"
)

// IsExclusionConflict reports a violation of appointments_no_overlap.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFail, pgDeadlockDetected, pgLockNotAvailable,
			pgAdminShutdown, pgCannotConnectNow:
			return true
		}
	}
	return false
}

// translate maps gorm/postgres failures onto the domain taxonomy.
func translate(op, entity string, id uint, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity, id)
	}
	if IsExclusionConflict(err) {
		return domain.ConflictError{Code: domain.CodeTimeConflict}
	}
	if isTransient(err) {
		return domain.Transient(op, err)
	}
	return err
}
