package models

import "time"

// Partner: empresa externa (transportista, destinatario o generador).
// Los campos regulatorios son opcionales con valor cero explícito; el
// manifiesto los copia por valor al confirmarse.
type Partner struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company

	Name        string `gorm:"size:150;not null"`
	IsCompany   bool   `gorm:"not null;default:false"`
	IsCarrier   bool   `gorm:"not null;default:false"` // es_transportista
	IsGenerator bool   `gorm:"not null;default:false"` // es_generador

	// Dirección
	Calle        string `gorm:"size:150"`
	NumExt       string `gorm:"size:20"`
	NumInt       string `gorm:"size:20"`
	Colonia      string `gorm:"size:100"`
	Municipio    string `gorm:"size:100"`
	Estado       string `gorm:"size:100"`
	CodigoPostal string `gorm:"size:10"`
	Telefono     string `gorm:"size:50"`
	Email        string `gorm:"size:100"`

	// Datos regulatorios
	RegistroAmbiental    string `gorm:"size:50"` // numero_registro_ambiental
	AutorizacionSemarnat string `gorm:"size:50"`
	PermisoSCT           string `gorm:"size:50"`
	TipoVehiculo         string `gorm:"size:50"`
	NumeroPlaca          string `gorm:"size:20"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
