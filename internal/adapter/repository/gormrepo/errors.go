package gormrepo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

// writeErr maps a unique index violation that slipped past the pre-check,
// usually a concurrent write of the same value. The DB must be opened with
// TranslateError for gorm to report it as ErrDuplicatedKey.
func writeErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicate
	}
	return err
}
