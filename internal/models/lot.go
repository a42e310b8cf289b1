package models

import "time"

// Lot: lote de un producto con seguimiento. El código se genera en el
// ingreso si no viene dado.
type Lot struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null;uniqueIndex:idx_lot_product_code"`
	Product   Product
	Code      string `gorm:"size:50;not null;uniqueIndex:idx_lot_product_code"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
