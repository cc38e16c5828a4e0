package postgres

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GORM runs with TranslateError, so dialect-specific constraint failures
// arrive as the generic gorm sentinel errors.

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
