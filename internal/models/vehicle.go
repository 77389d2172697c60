package models

import (
	"github.com/lib/pq"
)

type Vehicle struct {
	BaseModel
	SellerEmail string         `gorm:"type:varchar(255);not null;index" json:"sellerEmail"`
	Make        string         `gorm:"not null" json:"make"`
	Model       string         `gorm:"not null" json:"model"`
	Year        int            `gorm:"not null" json:"year"`
	Price       int64          `gorm:"not null" json:"price"`
	Mileage     int            `json:"mileage"`
	City        string         `gorm:"index" json:"city"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	ImageURLs   pq.StringArray `gorm:"type:text[]" json:"imageUrls"`
	Status      VehicleStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	IsFeatured  bool           `gorm:"not null;default:false" json:"isFeatured"`
	IsCertified bool           `gorm:"not null;default:false" json:"isCertified"`

	Seller *User `gorm:"foreignKey:SellerEmail;references:Email;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

type CreateVehicleRequest struct {
	SellerEmail string   `json:"sellerEmail" validate:"required,email"`
	Make        string   `json:"make" validate:"required,max=64"`
	Model       string   `json:"model" validate:"required,max=64"`
	Year        int      `json:"year" validate:"required,gte=1900,lte=2100"`
	Price       int64    `json:"price" validate:"gte=0"`
	Mileage     int      `json:"mileage" validate:"gte=0"`
	City        string   `json:"city" validate:"omitempty,max=100"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	ImageURLs   []string `json:"imageUrls" validate:"omitempty,max=20,dive,url"`
}
