package models

// Product is a catalog item. Price is the current unit price; order
// totals are computed from it at query time, not frozen at order time.
type Product struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"column:product_name;size:100;not null" json:"product_name"`
	Price  float64 `gorm:"not null" json:"price"`
	Orders []Order `gorm:"many2many:order_products" json:"orders,omitempty"`
}

func (Product) TableName() string { return "products" }
