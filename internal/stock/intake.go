package stock

import (
	"strings"
	"time"

	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntakeParams struct {
	ProductID uint
	LotID     *uint
	LotCode   string // crea un lote nuevo con este código; vacío = autogenerado
	Quantity  float64
	Date      time.Time
	Note      string
}

// RegisterIntake registra un ingreso de residuos a Acopio y eleva la
// existencia. Para productos con seguimiento por lote siempre queda un lote
// asociado, con código autogenerado si no viene dado.
func RegisterIntake(db *gorm.DB, companyID, userID uint, params IntakeParams) (*models.Intake, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", params.ProductID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Producto no encontrado")
	}
	if params.Quantity <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La cantidad debe ser mayor a cero.")
	}

	var intake *models.Intake
	err := db.Transaction(func(tx *gorm.DB) error {
		loc, err := AcopioLocation(tx, companyID)
		if err != nil {
			return err
		}

		lotID := params.LotID
		if lotID != nil {
			var lot models.Lot
			if err := tx.First(&lot, "id = ? AND product_id = ?", *lotID, params.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Lote no encontrado para el producto")
			}
		} else if product.Tracking == models.TrackingLote || strings.TrimSpace(params.LotCode) != "" {
			code := strings.TrimSpace(params.LotCode)
			if code == "" {
				code = "LOTE-" + strings.ToUpper(uuid.NewString()[:8])
			}
			lot := models.Lot{ProductID: product.ID, Code: code}
			if err := tx.Where(models.Lot{ProductID: product.ID, Code: code}).
				FirstOrCreate(&lot).Error; err != nil {
				return err
			}
			lotID = &lot.ID
		}

		if err := applyQuantDelta(tx, product.ID, loc.ID, lotID, params.Quantity); err != nil {
			return err
		}

		date := params.Date
		if date.IsZero() {
			date = time.Now()
		}

		intake = &models.Intake{
			CompanyID: companyID,
			UserID:    userID,
			ProductID: product.ID,
			LotID:     lotID,
			Date:      date,
			Quantity:  params.Quantity,
			Note:      params.Note,
		}
		return tx.Create(intake).Error
	})
	if err != nil {
		return nil, err
	}

	return intake, nil
}
