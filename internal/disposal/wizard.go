package disposal

import (
	"fmt"
	"log"

	"acopio-backend/internal/models"
	"acopio-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WizardParams struct {
	TransportistaID *uint
	DestinatarioID  *uint
	Observaciones   string
	Lines           []LineParams
}

// ConfirmWizard valida el lote completo de líneas, crea la salida con sus
// líneas y la confirma, todo o nada: si cualquier paso falla no queda ningún
// registro visible.
func ConfirmWizard(db *gorm.DB, companyID, userID uint, params WizardParams) (*models.Disposal, error) {
	if len(params.Lines) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No hay residuos para dar de salida.")
	}
	if params.TransportistaID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Debe seleccionar un transportista.")
	}
	if params.DestinatarioID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Debe seleccionar un destinatario final.")
	}

	// Pre-validación de cada línea antes de crear nada
	for _, lp := range params.Lines {
		if lp.ProductID == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Una de las líneas no tiene producto asignado.")
		}

		var product models.Product
		if err := db.First(&product, "id = ?", lp.ProductID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Producto no encontrado")
		}

		if lp.Cantidad <= 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(
				"La cantidad para el producto %s debe ser mayor a cero.", product.Name))
		}

		disponible := stock.AvailableAt(db, companyID, lp.ProductID, lp.LotID)
		if lp.Cantidad > disponible {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(
				"No hay suficiente stock para el producto %s. Solicitado: %g kg, Disponible: %g kg",
				product.Name, lp.Cantidad, disponible))
		}
	}

	var confirmed *models.Disposal
	err := db.Transaction(func(tx *gorm.DB) error {
		d, err := Create(tx, companyID, userID, CreateParams{
			TransportistaID: params.TransportistaID,
			DestinatarioID:  params.DestinatarioID,
			Observaciones:   params.Observaciones,
			Lines:           params.Lines,
		})
		if err != nil {
			return err
		}

		confirmed, err = Confirm(tx, companyID, d.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Salida de acopio %s creada y confirmada desde el asistente", confirmed.NumeroReferencia)
	return confirmed, nil
}

// ResolveDefaultCarrier: transportista por defecto del asistente. Busca un
// partner empresa con "SAI" en el nombre; si no, cualquier transportista; si
// no, cualquier empresa. Es una conveniencia, nunca bloquea la confirmación.
func ResolveDefaultCarrier(db *gorm.DB, companyID uint) *models.Partner {
	var partner models.Partner

	err := db.Where("company_id = ? AND is_company = ? AND LOWER(name) LIKE ?",
		companyID, true, "%sai%").First(&partner).Error
	if err == nil {
		return &partner
	}

	err = db.Where("company_id = ? AND is_carrier = ?", companyID, true).
		First(&partner).Error
	if err == nil {
		return &partner
	}

	err = db.Where("company_id = ? AND is_company = ?", companyID, true).
		First(&partner).Error
	if err == nil {
		return &partner
	}

	return nil
}
