package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/repository/tenantdb"
)

// translateError maps driver and helper errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, tenantdb.ErrNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}

// validID reports whether id can be a primary key. Postgres rejects a
// malformed uuid literal outright, so callers answer not found instead.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// tenantScopes builds the writer and reader helpers for one tenant.
func tenantScopes(writerDB, readerDB *gorm.DB, tenantID string) (*tenantdb.TenantDB, *tenantdb.TenantDB, error) {
	writer, err := tenantdb.New(writerDB, tenantID)
	if err != nil {
		return nil, nil, err
	}
	reader, err := tenantdb.New(readerDB, tenantID)
	if err != nil {
		return nil, nil, err
	}
	return writer, reader, nil
}
