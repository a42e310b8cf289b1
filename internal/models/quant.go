package models

import "time"

// StockQuant: existencia por (producto, ubicación, lote). Solo lo mutan los
// ingresos y las transferencias realizadas; las consultas de disponibilidad
// suman sobre estas filas.
type StockQuant struct {
	ID         uint `gorm:"primaryKey"`
	ProductID  uint `gorm:"not null;index:idx_quant_prod_loc_lot,unique"`
	Product    Product
	LocationID uint `gorm:"not null;index:idx_quant_prod_loc_lot,unique"`
	Location   Location
	LotID      *uint `gorm:"index:idx_quant_prod_loc_lot,unique"`
	Lot        *Lot
	Quantity   float64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
