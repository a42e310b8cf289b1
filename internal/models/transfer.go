package models

import "time"

type TransferState string

const (
	TransferBorrador   TransferState = "borrador"
	TransferConfirmada TransferState = "confirmada"
	TransferReservada  TransferState = "reservada" // reservada pero sin validar (falta lote)
	TransferRealizada  TransferState = "realizada"
)

type TransferTypeCode string

const (
	TransferSalida  TransferTypeCode = "salida"
	TransferEntrada TransferTypeCode = "entrada"
)

// TransferType: tipo de operación configurado por compañía. La confirmación
// de una salida falla si no existe un tipo "salida".
type TransferType struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company
	Name      string           `gorm:"size:100;not null"`
	Code      TransferTypeCode `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transfer: transferencia de inventario generada por una salida de acopio.
type Transfer struct {
	ID             uint `gorm:"primaryKey"`
	CompanyID      uint `gorm:"index;not null"`
	Company        Company
	TransferTypeID uint `gorm:"not null"`
	TransferType   TransferType
	Origin         string `gorm:"size:150"` // ej. "Salida Acopio: SAL-20250901-001"
	PartnerID      *uint
	Partner        *Partner
	LocationID     uint `gorm:"not null"` // origen
	Location       Location
	LocationDestID uint `gorm:"not null"`
	LocationDest   Location
	State          TransferState `gorm:"size:20;not null;default:borrador"`
	DisposalID     *uint         `gorm:"index"` // salida que generó esta transferencia
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Moves []TransferMove `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`
}

type TransferMove struct {
	ID             uint   `gorm:"primaryKey"`
	TransferID     uint   `gorm:"index;not null"`
	Name           string `gorm:"size:150"`
	ProductID      uint   `gorm:"index;not null"`
	Product        Product
	Quantity       float64 `gorm:"not null"`
	LocationID     uint    `gorm:"not null"`
	LocationDestID uint    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Details []TransferMoveDetail `gorm:"foreignKey:MoveID;constraint:OnDelete:CASCADE"`
}

// TransferMoveDetail: detalle a nivel lote de un movimiento.
type TransferMoveDetail struct {
	ID             uint `gorm:"primaryKey"`
	MoveID         uint `gorm:"index;not null"`
	ProductID      uint `gorm:"not null"`
	LotID          uint `gorm:"not null"`
	Lot            Lot
	Quantity       float64 `gorm:"not null"`
	LocationID     uint    `gorm:"not null"`
	LocationDestID uint    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
