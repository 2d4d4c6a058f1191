package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicateKey is returned when a write violates a storage uniqueness
// constraint. Postgres surfaces this on the second of two concurrent
// conflicting writes; services remap it to the matching domain conflict.
var ErrDuplicateKey = errors.New("duplicate key")

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a uniqueness violation.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
