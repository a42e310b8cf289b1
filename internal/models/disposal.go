package models

import "time"

type DisposalState string

const (
	DisposalBorrador  DisposalState = "borrador"
	DisposalRealizada DisposalState = "realizada"
	DisposalCancelada DisposalState = "cancelada"
)

// Disposal: registro de salida de acopio. El folio se asigna una sola vez al
// crear, con la fecha LOCAL de la salida (no la fecha UTC del servidor).
// TransferID y ManifestID se fijan únicamente al confirmar; una salida
// realizada siempre tiene ambos.
type Disposal struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company

	NumeroReferencia string    `gorm:"size:50;not null;uniqueIndex"`
	FechaSalida      time.Time `gorm:"not null"`
	UserID           uint      `gorm:"not null"` // usuario que procesó la salida
	User             User

	TransportistaID *uint
	Transportista   *Partner
	DestinatarioID  *uint
	Destinatario    *Partner

	State DisposalState `gorm:"size:20;not null;default:borrador"`

	TransferID *uint
	Transfer   *Transfer
	ManifestID *uint
	Manifest   *Manifest

	Observaciones string `gorm:"type:text"`

	// Derivados, recalculados en cada mutación de líneas
	TotalResiduos int     `gorm:"not null;default:0"`
	CantidadTotal float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []DisposalLine `gorm:"foreignKey:DisposalID;constraint:OnDelete:CASCADE"`
}

// DisplayName: "<folio>" o "<folio> - Manifiesto: <número>" una vez ligado.
func (d *Disposal) DisplayName() string {
	if d.Manifest != nil {
		return d.NumeroReferencia + " - Manifiesto: " + d.Manifest.NumeroManifiesto
	}
	return d.NumeroReferencia
}

// DisposalLine: línea de salida. La disponibilidad nunca se guarda, se
// recalcula contra los quants de Acopio.
type DisposalLine struct {
	ID         uint `gorm:"primaryKey"`
	DisposalID uint `gorm:"index;not null"`
	ProductID  uint `gorm:"index;not null"`
	Product    Product
	LotID      *uint
	Lot        *Lot
	Cantidad   float64 `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
