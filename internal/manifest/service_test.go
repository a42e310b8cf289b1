package manifest_test

import (
	"testing"
	"time"

	"acopio-backend/internal/manifest"
	"acopio-backend/internal/models"
	"acopio-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustCompany(t *testing.T, db *gorm.DB) models.Company {
	t.Helper()
	c := models.Company{
		Name: "SAI Residuos", Timezone: "America/Mexico_City",
		RFC: "SAI010101ABC", Calle: "Av. Industria", NumExt: "100",
		Municipio: "Monterrey", Estado: "Nuevo León", CodigoPostal: "64000",
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func TestGeneratorPrefersConfiguredPartner(t *testing.T) {
	db := testdb.Open(t)
	c := mustCompany(t, db)

	configured := models.Partner{CompanyID: c.ID, Name: "Generador Oficial", IsCompany: true, IsGenerator: true}
	require.NoError(t, db.Create(&configured).Error)
	require.NoError(t, db.Model(&c).Update("generator_partner_id", configured.ID).Error)
	c.GeneratorPartnerID = &configured.ID

	// Aunque exista también un candidato por búsqueda difusa
	otro := models.Partner{CompanyID: c.ID, Name: "SAI Sucursal", IsCompany: true, IsGenerator: true}
	require.NoError(t, db.Create(&otro).Error)

	g, err := manifest.FindOrCreateGenerator(db, &c)
	require.NoError(t, err)
	assert.Equal(t, configured.ID, g.ID)
}

func TestGeneratorFallsBackToFuzzySearch(t *testing.T) {
	db := testdb.Open(t)
	c := mustCompany(t, db)

	candidato := models.Partner{CompanyID: c.ID, Name: "Servicios SAI del Norte", IsCompany: true, IsGenerator: true}
	require.NoError(t, db.Create(&candidato).Error)

	// Un partner con "sai" pero sin bandera de generador no califica
	impostor := models.Partner{CompanyID: c.ID, Name: "SAI Transportes", IsCompany: true}
	require.NoError(t, db.Create(&impostor).Error)

	g, err := manifest.FindOrCreateGenerator(db, &c)
	require.NoError(t, err)
	assert.Equal(t, candidato.ID, g.ID)
}

func TestGeneratorCreatedFromCompanyProfile(t *testing.T) {
	db := testdb.Open(t)
	c := mustCompany(t, db)

	g, err := manifest.FindOrCreateGenerator(db, &c)
	require.NoError(t, err)

	assert.Equal(t, "SAI Residuos", g.Name)
	assert.True(t, g.IsCompany)
	assert.True(t, g.IsGenerator)
	assert.Equal(t, c.RFC, g.RegistroAmbiental)
	assert.Equal(t, "Av. Industria", g.Calle)
	assert.Equal(t, "64000", g.CodigoPostal)

	// Idempotente: la segunda llamada encuentra al mismo
	g2, err := manifest.FindOrCreateGenerator(db, &c)
	require.NoError(t, err)
	assert.Equal(t, g.ID, g2.ID)
}

func TestCreateOutboundSnapshotsPartnerData(t *testing.T) {
	db := testdb.Open(t)
	c := mustCompany(t, db)

	carrier := models.Partner{
		CompanyID: c.ID, Name: "Transportes Peligrosos SA", IsCompany: true, IsCarrier: true,
		Calle: "Carretera 57", Municipio: "Saltillo", Estado: "Coahuila",
		CodigoPostal: "25000", Telefono: "844-000-0000",
		AutorizacionSemarnat: "SEM-001", PermisoSCT: "SCT-001",
		TipoVehiculo: "Tolva", NumeroPlaca: "ABC-123",
	}
	require.NoError(t, db.Create(&carrier).Error)

	recipient := models.Partner{
		CompanyID: c.ID, Name: "Destino Final SA", IsCompany: true,
		Municipio: "García", Estado: "Nuevo León", AutorizacionSemarnat: "SEM-777",
	}
	require.NoError(t, db.Create(&recipient).Error)

	producto := models.Product{
		Name: "Aceite gastado", Unit: "kg", Tracking: models.TrackingLote,
		Toxico: true, Inflamable: true,
		EnvaseTipoDefault: "Tambor metálico", EnvaseCapacidadDefault: 200,
	}
	require.NoError(t, db.Create(&producto).Error)
	lot := models.Lot{ProductID: producto.ID, Code: "L1"}
	require.NoError(t, db.Create(&lot).Error)

	fecha := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	d := models.Disposal{
		CompanyID:        c.ID,
		NumeroReferencia: "SAL-20250901-001",
		FechaSalida:      fecha,
		UserID:           1,
		TransportistaID:  &carrier.ID,
		Transportista:    &carrier,
		DestinatarioID:   &recipient.ID,
		Destinatario:     &recipient,
		Observaciones:    "Manejar con cuidado",
	}
	require.NoError(t, db.Create(&d).Error)
	d.Lines = []models.DisposalLine{{
		DisposalID: d.ID, ProductID: producto.ID, Product: producto,
		LotID: &lot.ID, Lot: &lot, Cantidad: 55,
	}}

	m, err := manifest.CreateOutbound(db, &d, &c)
	require.NoError(t, err)

	assert.Equal(t, "SAL-20250901-001", m.NumeroManifiesto)
	assert.True(t, m.EsSalida)
	assert.Equal(t, models.ManifestConfirmed, m.State)
	assert.Equal(t, fecha, m.GeneradorFecha)

	// Transportista copiado por valor
	assert.Equal(t, "Transportes Peligrosos SA", m.TransportistaNombre)
	assert.Equal(t, "Carretera 57", m.TransportistaCalle)
	assert.Equal(t, "SEM-001", m.NumeroAutorizacionSemarnat)
	assert.Equal(t, "SCT-001", m.NumeroPermisoSCT)
	assert.Equal(t, "Tolva", m.TipoVehiculo)
	assert.Equal(t, "ABC-123", m.NumeroPlaca)

	// Destinatario copiado por valor
	assert.Equal(t, "Destino Final SA", m.DestinatarioNombre)
	assert.Equal(t, "SEM-777", m.NumeroAutorizacionSemarnatDestinatario)

	assert.Equal(t, "Manejar con cuidado", m.InstruccionesEspeciales)

	// Editar el partner después no altera el manifiesto
	require.NoError(t, db.Model(&carrier).Update("numero_placa", "XYZ-999").Error)
	var stored models.Manifest
	require.NoError(t, db.First(&stored, "id = ?", m.ID).Error)
	assert.Equal(t, "ABC-123", stored.NumeroPlaca)

	// Línea de residuo con CRETIB y envase del producto, lote como texto
	var residuo models.ManifestWasteLine
	require.NoError(t, db.First(&residuo, "manifest_id = ?", m.ID).Error)
	assert.Equal(t, "Aceite gastado", residuo.NombreResiduo)
	assert.Equal(t, 55.0, residuo.Cantidad)
	assert.True(t, residuo.Toxico)
	assert.True(t, residuo.Inflamable)
	assert.False(t, residuo.Corrosivo)
	assert.Equal(t, "Tambor metálico", residuo.EnvaseTipo)
	assert.Equal(t, 200.0, residuo.EnvaseCapacidad)
	assert.True(t, residuo.EtiquetaSi)
	assert.Equal(t, "L1", residuo.LoteReferencia)
}
