package models

import "time"

// Order belongs to a user and holds a set of products through the
// order_products join table.
type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderDate time.Time `gorm:"column:order_date;autoCreateTime" json:"order_date"`
	Products  []Product `gorm:"many2many:order_products" json:"products,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderProduct is the join row between orders and products. The
// composite primary key makes a duplicate pairing a constraint error.
type OrderProduct struct {
	OrderID   uint `gorm:"primaryKey" json:"order_id"`
	ProductID uint `gorm:"primaryKey" json:"product_id"`
}

func (OrderProduct) TableName() string { return "order_products" }
