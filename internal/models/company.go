package models

import "time"

// Company: empresa operadora (SAI). Es la generadora legal de los residuos
// que salen de Acopio; sus datos alimentan el partner generador del manifiesto.
type Company struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;unique"`
	RFC  string `gorm:"size:20"`

	// Dirección (se copia al partner generador si hay que crearlo)
	Calle        string `gorm:"size:150"`
	NumExt       string `gorm:"size:20"`
	NumInt       string `gorm:"size:20"`
	Colonia      string `gorm:"size:100"`
	Municipio    string `gorm:"size:100"`
	Estado       string `gorm:"size:100"`
	CodigoPostal string `gorm:"size:10"`
	Telefono     string `gorm:"size:50"`
	Email        string `gorm:"size:100"`

	// Zona horaria IANA para el folio por fecha local (ej. America/Mexico_City)
	Timezone string `gorm:"size:50;not null;default:America/Mexico_City"`

	// Partner generador configurado explícitamente (evita la búsqueda por nombre)
	GeneratorPartnerID *uint
	GeneratorPartner   *Partner

	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
