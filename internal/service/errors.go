package service

import (
	"errors"

	"gorm.io/gorm"
)

// isNotFound reports whether a repository error means the row is absent.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
