package models

import "time"

type ProductTracking string

const (
	TrackingNone ProductTracking = "none"
	TrackingLote ProductTracking = "lote"
)

// Product: producto/residuo almacenable en Acopio.
type Product struct {
	ID       uint            `gorm:"primaryKey"`
	Name     string          `gorm:"size:150;not null;unique"`
	Unit     string          `gorm:"size:20;not null;default:kg"`
	Tracking ProductTracking `gorm:"size:10;not null;default:none"`

	// Clasificaciones CRETIB del residuo
	Corrosivo  bool `gorm:"not null;default:false"`
	Reactivo   bool `gorm:"not null;default:false"`
	Explosivo  bool `gorm:"not null;default:false"`
	Toxico     bool `gorm:"not null;default:false"`
	Inflamable bool `gorm:"not null;default:false"`
	Biologico  bool `gorm:"not null;default:false"`

	// Envase por defecto para las líneas de manifiesto
	EnvaseTipoDefault      string  `gorm:"size:50"`
	EnvaseCapacidadDefault float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClasificacionesCRETIB: resumen tipo "C,T,I" para mostrar en listados.
func (p *Product) ClasificacionesCRETIB() string {
	letras := ""
	add := func(on bool, l string) {
		if on {
			if letras != "" {
				letras += ","
			}
			letras += l
		}
	}
	add(p.Corrosivo, "C")
	add(p.Reactivo, "R")
	add(p.Explosivo, "E")
	add(p.Toxico, "T")
	add(p.Inflamable, "I")
	add(p.Biologico, "B")
	return letras
}
