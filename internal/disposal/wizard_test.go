package disposal_test

import (
	"testing"

	"acopio-backend/internal/disposal"
	"acopio-backend/internal/models"
	"acopio-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardConfirmCreatesAndConfirms(t *testing.T) {
	db := testdb.Open(t)
	f := seed(t, db)
	p := mustProduct(t, db, "Aceite gastado", models.TrackingNone)
	mustStock(t, db, f, p.ID, nil, 100)

	d, err := disposal.ConfirmWizard(db, f.company.ID, f.user.ID, disposal.WizardParams{
		TransportistaID: &f.transportista.ID,
		DestinatarioID:  &f.destinatario.ID,
		Lines:           []disposal.LineParams{{ProductID: p.ID, Cantidad: 25}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.DisposalRealizada, d.State)
	assert.NotNil(t, d.TransferID)
	assert.NotNil(t, d.ManifestID)
}

func TestWizardRejectsZeroQuantity(t *testing.T) {
	db := testdb.Open(t)
	f := seed(t, db)
	p := mustProduct(t, db, "Aceite gastado", models.TrackingNone)
	mustStock(t, db, f, p.ID, nil, 100)

	_, err := disposal.ConfirmWizard(db, f.company.ID, f.user.ID, disposal.WizardParams{
		TransportistaID: &f.transportista.ID,
		DestinatarioID:  &f.destinatario.ID,
		Lines:           []disposal.LineParams{{ProductID: p.ID, Cantidad: 0}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "La cantidad para el producto Aceite gastado debe ser mayor a cero.")
}

func TestWizardRejectsEmptyLines(t *testing.T) {
	db := testdb.Open(t)
	f := seed(t, db)

	_, err := disposal.ConfirmWizard(db, f.company.ID, f.user.ID, disposal.WizardParams{
		TransportistaID: &f.transportista.ID,
		DestinatarioID:  &f.destinatario.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No hay residuos para dar de salida.")
}

// Si la confirmación falla, no debe quedar ni el borrador intermedio.
func TestWizardAllOrNothing(t *testing.T) {
	db := testdb.Open(t)
	f := seed(t, db)
	p := mustProduct(t, db, "Aceite gastado", models.TrackingNone)
	mustStock(t, db, f, p.ID, nil, 100)

	require.NoError(t, db.Where("company_id = ?", f.company.ID).
		Delete(&models.TransferType{}).Error)

	_, err := disposal.ConfirmWizard(db, f.company.ID, f.user.ID, disposal.WizardParams{
		TransportistaID: &f.transportista.ID,
		DestinatarioID:  &f.destinatario.ID,
		Lines:           []disposal.LineParams{{ProductID: p.ID, Cantidad: 25}},
	})
	require.Error(t, err)

	var disposals int64
	db.Model(&models.Disposal{}).Count(&disposals)
	assert.Zero(t, disposals)
	var lines int64
	db.Model(&models.DisposalLine{}).Count(&lines)
	assert.Zero(t, lines)
}

func TestResolveDefaultCarrier(t *testing.T) {
	db := testdb.Open(t)
	f := seed(t, db)

	// seed ya creó un transportista (sin "sai" en el nombre)
	carrier := disposal.ResolveDefaultCarrier(db, f.company.ID)
	require.NotNil(t, carrier)
	assert.Equal(t, f.transportista.ID, carrier.ID)

	// Un partner empresa con "SAI" en el nombre tiene prioridad
	sai := models.Partner{CompanyID: f.company.ID, Name: "SAI Operadora", IsCompany: true}
	require.NoError(t, db.Create(&sai).Error)
	carrier = disposal.ResolveDefaultCarrier(db, f.company.ID)
	require.NotNil(t, carrier)
	assert.Equal(t, sai.ID, carrier.ID)
}

func TestResolveDefaultCarrierNoneConfigured(t *testing.T) {
	db := testdb.Open(t)
	company := models.Company{Name: "Vacía", Timezone: "UTC"}
	require.NoError(t, db.Create(&company).Error)

	assert.Nil(t, disposal.ResolveDefaultCarrier(db, company.ID))
}
