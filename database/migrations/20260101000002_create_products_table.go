package migrations

import (
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000002_create_products_table", &createProductsTable{})
}

type createProductsTable struct{}

func (m *createProductsTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Product{})
}

func (m *createProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}
