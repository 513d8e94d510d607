package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates an update or delete targeted a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a create violated a unique natural key.
	ErrDuplicate = errors.New("duplicate natural key")
)

// translate maps GORM errors onto the store taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
