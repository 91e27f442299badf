package models

// User is an account holder. The password column stores a bcrypt hash
// and is never serialized.
type User struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"size:50;not null" json:"name"`
	Address  string  `gorm:"size:100" json:"address,omitempty"`
	Email    string  `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string  `gorm:"size:255;not null" json:"-"`
	Orders   []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

func (User) TableName() string { return "users" }
