package implementation

import (
	"testing"

	"fubot-be/pkg/database/dbtest"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t)
}
