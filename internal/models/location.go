package models

import "time"

type LocationUsage string

const (
	LocationInterna LocationUsage = "interna"
	LocationCliente LocationUsage = "cliente" // destino de salidas
)

type Location struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company
	Name      string        `gorm:"size:100;not null"`
	Usage     LocationUsage `gorm:"size:20;not null;default:interna"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
