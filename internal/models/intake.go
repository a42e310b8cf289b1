package models

import "time"

// Intake: ingreso de residuos a la ubicación Acopio (un producto por registro).
type Intake struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company
	UserID    uint `gorm:"not null"`
	User      User
	ProductID uint `gorm:"index;not null"`
	Product   Product
	LotID     *uint
	Lot       *Lot
	Date      time.Time `gorm:"index;not null"`
	Quantity  float64   `gorm:"not null"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
