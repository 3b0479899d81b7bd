package service

import (
	"errors"

	"gorm.io/gorm"
)

// Service-level errors. Handlers map these onto HTTP statuses; none of them
// leaves partial state behind.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)

// notFoundIfMissing translates the ORM's missing-record error into the
// service taxonomy.
func notFoundIfMissing(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
