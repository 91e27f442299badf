// Package migrations registers the schema migrations. Importing this
// package (for side effects) makes them available to the runner.
package migrations

import (
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000001_create_users_table", &createUsersTable{})
}

type createUsersTable struct{}

func (m *createUsersTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.User{})
}

func (m *createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}
