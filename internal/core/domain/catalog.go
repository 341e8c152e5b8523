package domain

import "time"

type Item struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"not null;index" validate:"required"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price" gorm:"not null;default:0" validate:"gte=0"`
	SKU         string    `json:"sku" gorm:"column:sku;uniqueIndex;not null" validate:"required"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1" validate:"gte=1"`
	PhotoURL    string    `json:"photo_url,omitempty" gorm:"column:photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `json:"name" gorm:"not null;index" validate:"required"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientStats struct {
	TotalBookings     int     `json:"total_bookings"`
	TotalSpent        float64 `json:"total_spent"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
}
