package manifest

import (
	"acopio-backend/internal/models"

	"gorm.io/gorm"
)

// FindOrCreateGenerator resuelve el partner generador (la propia compañía
// operadora). Orden: referencia configurada en la compañía; si no hay,
// búsqueda difusa "SAI" con banderas de empresa y generador; si tampoco,
// se crea uno a partir del perfil de la compañía.
func FindOrCreateGenerator(tx *gorm.DB, company *models.Company) (*models.Partner, error) {
	if company.GeneratorPartnerID != nil {
		var partner models.Partner
		if err := tx.First(&partner, "id = ?", *company.GeneratorPartnerID).Error; err == nil {
			return &partner, nil
		}
		// Referencia rota: cae a la resolución por búsqueda
	}

	var partner models.Partner
	err := tx.Where("company_id = ? AND is_company = ? AND is_generator = ? AND LOWER(name) LIKE ?",
		company.ID, true, true, "%sai%").
		First(&partner).Error
	if err == nil {
		return &partner, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	name := company.Name
	if name == "" {
		name = "SAI"
	}
	partner = models.Partner{
		CompanyID:         company.ID,
		Name:              name,
		IsCompany:         true,
		IsGenerator:       true,
		RegistroAmbiental: company.RFC,
		Calle:             company.Calle,
		NumExt:            company.NumExt,
		NumInt:            company.NumInt,
		Colonia:           company.Colonia,
		Municipio:         company.Municipio,
		Estado:            company.Estado,
		CodigoPostal:      company.CodigoPostal,
		Telefono:          company.Telefono,
		Email:             company.Email,
	}
	if err := tx.Create(&partner).Error; err != nil {
		return nil, err
	}

	return &partner, nil
}

// CreateOutbound crea el manifiesto de salida de una salida de acopio, con
// el mismo folio, el generador resuelto y los datos de transportista y
// destinatario copiados por valor. Después crea un residuo por cada línea.
// La salida debe venir con Lines (producto y lote), Transportista y
// Destinatario precargados.
func CreateOutbound(tx *gorm.DB, d *models.Disposal, company *models.Company) (*models.Manifest, error) {
	generator, err := FindOrCreateGenerator(tx, company)
	if err != nil {
		return nil, err
	}

	carrier := d.Transportista
	recipient := d.Destinatario

	m := models.Manifest{
		CompanyID: d.CompanyID,

		NumeroManifiesto: d.NumeroReferencia, // mismo folio que la salida
		EsSalida:         true,
		State:            models.ManifestConfirmed,

		GeneradorID:    generator.ID,
		GeneradorFecha: d.FechaSalida,

		TransportistaID:                *d.TransportistaID,
		TransportistaNombre:            carrier.Name,
		TransportistaCodigoPostal:      carrier.CodigoPostal,
		TransportistaCalle:             carrier.Calle,
		TransportistaNumExt:            carrier.NumExt,
		TransportistaNumInt:            carrier.NumInt,
		TransportistaColonia:           carrier.Colonia,
		TransportistaMunicipio:         carrier.Municipio,
		TransportistaEstado:            carrier.Estado,
		TransportistaTelefono:          carrier.Telefono,
		TransportistaEmail:             carrier.Email,
		NumeroAutorizacionSemarnat:     carrier.AutorizacionSemarnat,
		NumeroPermisoSCT:               carrier.PermisoSCT,
		TipoVehiculo:                   carrier.TipoVehiculo,
		NumeroPlaca:                    carrier.NumeroPlaca,
		TransportistaResponsableNombre: "",
		TransportistaFecha:             d.FechaSalida,

		DestinatarioID:                         *d.DestinatarioID,
		DestinatarioNombre:                     recipient.Name,
		DestinatarioCodigoPostal:               recipient.CodigoPostal,
		DestinatarioCalle:                      recipient.Calle,
		DestinatarioNumExt:                     recipient.NumExt,
		DestinatarioNumInt:                     recipient.NumInt,
		DestinatarioColonia:                    recipient.Colonia,
		DestinatarioMunicipio:                  recipient.Municipio,
		DestinatarioEstado:                     recipient.Estado,
		DestinatarioTelefono:                   recipient.Telefono,
		DestinatarioEmail:                      recipient.Email,
		NumeroAutorizacionSemarnatDestinatario: recipient.AutorizacionSemarnat,
		DestinatarioFecha:                      d.FechaSalida,

		InstruccionesEspeciales: d.Observaciones,
	}

	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}

	for i := range d.Lines {
		linea := &d.Lines[i]
		residuo := models.ManifestWasteLine{
			ManifestID:    m.ID,
			ProductID:     linea.ProductID,
			NombreResiduo: linea.Product.Name,
			Cantidad:      linea.Cantidad,

			Corrosivo:  linea.Product.Corrosivo,
			Reactivo:   linea.Product.Reactivo,
			Explosivo:  linea.Product.Explosivo,
			Toxico:     linea.Product.Toxico,
			Inflamable: linea.Product.Inflamable,
			Biologico:  linea.Product.Biologico,

			EnvaseTipo:      linea.Product.EnvaseTipoDefault,
			EnvaseCapacidad: linea.Product.EnvaseCapacidadDefault,
			EtiquetaSi:      true,
			EtiquetaNo:      false,
		}

		// El lote queda como referencia de texto, no como relación
		if linea.Lot != nil {
			residuo.LoteReferencia = linea.Lot.Code
		}

		if err := tx.Create(&residuo).Error; err != nil {
			return nil, err
		}
	}

	return &m, nil
}
