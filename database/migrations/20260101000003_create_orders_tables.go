package migrations

import (
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000003_create_orders_tables", &createOrdersTables{})
}

// createOrdersTables creates orders and the order_products join table
// with its composite primary key.
type createOrdersTables struct{}

func (m *createOrdersTables) Up(db *gorm.DB) error {
	if err := db.Migrator().CreateTable(&models.Order{}); err != nil {
		return err
	}
	if !db.Migrator().HasTable(&models.OrderProduct{}) {
		return db.Migrator().CreateTable(&models.OrderProduct{})
	}
	return nil
}

func (m *createOrdersTables) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.OrderProduct{}); err != nil {
		return err
	}
	return db.Migrator().DropTable(&models.Order{})
}
