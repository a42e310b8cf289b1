package models

import "time"

type ManifestState string

const (
	ManifestConfirmed ManifestState = "confirmado"
)

// Manifest: manifiesto ambiental de salida. Lleva el MISMO folio que la
// salida de acopio que lo generó. Los datos de transportista y destinatario
// son copias por valor tomadas al confirmar; editar el partner después no
// cambia el manifiesto.
type Manifest struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company

	NumeroManifiesto string        `gorm:"size:50;not null;index"`
	EsSalida         bool          `gorm:"not null;default:false"`
	State            ManifestState `gorm:"size:20;not null;default:confirmado"`

	GeneradorID    uint `gorm:"not null"`
	Generador      Partner
	GeneradorFecha time.Time

	// Snapshot transportista
	TransportistaID                uint   `gorm:"not null"`
	TransportistaNombre            string `gorm:"size:150"`
	TransportistaCodigoPostal      string `gorm:"size:10"`
	TransportistaCalle             string `gorm:"size:150"`
	TransportistaNumExt            string `gorm:"size:20"`
	TransportistaNumInt            string `gorm:"size:20"`
	TransportistaColonia           string `gorm:"size:100"`
	TransportistaMunicipio         string `gorm:"size:100"`
	TransportistaEstado            string `gorm:"size:100"`
	TransportistaTelefono          string `gorm:"size:50"`
	TransportistaEmail             string `gorm:"size:100"`
	NumeroAutorizacionSemarnat     string `gorm:"size:50"`
	NumeroPermisoSCT               string `gorm:"size:50"`
	TipoVehiculo                   string `gorm:"size:50"`
	NumeroPlaca                    string `gorm:"size:20"`
	TransportistaResponsableNombre string `gorm:"size:150"`
	TransportistaFecha             time.Time

	// Snapshot destinatario
	DestinatarioID                         uint   `gorm:"not null"`
	DestinatarioNombre                     string `gorm:"size:150"`
	DestinatarioCodigoPostal               string `gorm:"size:10"`
	DestinatarioCalle                      string `gorm:"size:150"`
	DestinatarioNumExt                     string `gorm:"size:20"`
	DestinatarioNumInt                     string `gorm:"size:20"`
	DestinatarioColonia                    string `gorm:"size:100"`
	DestinatarioMunicipio                  string `gorm:"size:100"`
	DestinatarioEstado                     string `gorm:"size:100"`
	DestinatarioTelefono                   string `gorm:"size:50"`
	DestinatarioEmail                      string `gorm:"size:100"`
	NumeroAutorizacionSemarnatDestinatario string `gorm:"size:50"`
	DestinatarioFecha                      time.Time

	InstruccionesEspeciales string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Residuos []ManifestWasteLine `gorm:"foreignKey:ManifestID;constraint:OnDelete:CASCADE"`
}

// ManifestWasteLine: residuo declarado en el manifiesto. El lote queda como
// referencia de texto libre, no como relación.
type ManifestWasteLine struct {
	ID         uint `gorm:"primaryKey"`
	ManifestID uint `gorm:"index;not null"`
	ProductID  uint `gorm:"not null"`
	Product    Product

	NombreResiduo string  `gorm:"size:150;not null"`
	Cantidad      float64 `gorm:"not null"`

	Corrosivo  bool `gorm:"not null;default:false"`
	Reactivo   bool `gorm:"not null;default:false"`
	Explosivo  bool `gorm:"not null;default:false"`
	Toxico     bool `gorm:"not null;default:false"`
	Inflamable bool `gorm:"not null;default:false"`
	Biologico  bool `gorm:"not null;default:false"`

	EnvaseTipo      string  `gorm:"size:50"`
	EnvaseCapacidad float64 `gorm:"not null;default:0"`
	EtiquetaSi      bool    `gorm:"not null;default:true"`
	EtiquetaNo      bool    `gorm:"not null;default:false"`

	LoteReferencia string `gorm:"size:50"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
