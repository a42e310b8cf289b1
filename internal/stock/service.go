package stock

import (
	"fmt"

	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AcopioName: nombre de la ubicación de almacenamiento temporal de residuos.
const AcopioName = "Acopio"

func FindLocationByName(db *gorm.DB, companyID uint, name string) (*models.Location, error) {
	var loc models.Location
	err := db.Where("company_id = ? AND name = ?", companyID, name).First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// AcopioLocation resuelve la ubicación Acopio de la compañía. Su ausencia es
// un error de configuración, no de datos.
func AcopioLocation(db *gorm.DB, companyID uint) (*models.Location, error) {
	loc, err := FindLocationByName(db, companyID, AcopioName)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"No se encontró la ubicación 'Acopio'. Debe existir para poder realizar salidas.")
	}
	return loc, nil
}

// CustomerLocation: ubicación genérica de clientes, destino de toda salida.
func CustomerLocation(db *gorm.DB, companyID uint) (*models.Location, error) {
	var loc models.Location
	err := db.Where("company_id = ? AND usage = ?", companyID, models.LocationCliente).
		First(&loc).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"No se encontró una ubicación de destino de clientes configurada.")
	}
	return &loc, nil
}

// SumOnHand: existencia total de un producto en una ubicación, opcionalmente
// filtrada por lote. Solo cuentan las filas con cantidad positiva.
func SumOnHand(db *gorm.DB, productID, locationID uint, lotID *uint) float64 {
	q := db.Model(&models.StockQuant{}).
		Where("product_id = ? AND location_id = ? AND quantity > 0", productID, locationID)
	if lotID != nil {
		q = q.Where("lot_id = ?", *lotID)
	}

	var total float64
	q.Select("COALESCE(SUM(quantity), 0)").Scan(&total)
	return total
}

// AvailableAt: disponibilidad en Acopio. Devuelve 0 si Acopio no existe; el
// faltante de configuración solo se reporta al confirmar, nunca al consultar.
func AvailableAt(db *gorm.DB, companyID, productID uint, lotID *uint) float64 {
	loc, err := FindLocationByName(db, companyID, AcopioName)
	if err != nil {
		return 0
	}
	return SumOnHand(db, productID, loc.ID, lotID)
}

// AvailableLots: lotes del producto con existencia estrictamente positiva en
// Acopio. Restringe la selección de lote a lotes no vacíos.
func AvailableLots(db *gorm.DB, companyID, productID uint) ([]models.Lot, error) {
	loc, err := FindLocationByName(db, companyID, AcopioName)
	if err != nil {
		return []models.Lot{}, nil
	}

	var lots []models.Lot
	err = db.Joins("JOIN stock_quants ON stock_quants.lot_id = lots.id").
		Where("stock_quants.product_id = ? AND stock_quants.location_id = ? AND stock_quants.quantity > 0",
			productID, loc.ID).
		Group("lots.id").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// applyQuantDelta suma delta a la fila de quant (producto, ubicación, lote),
// creándola si no existe.
func applyQuantDelta(tx *gorm.DB, productID, locationID uint, lotID *uint, delta float64) error {
	q := tx.Where("product_id = ? AND location_id = ?", productID, locationID)
	if lotID != nil {
		q = q.Where("lot_id = ?", *lotID)
	} else {
		q = q.Where("lot_id IS NULL")
	}

	var quant models.StockQuant
	err := q.First(&quant).Error
	if err == gorm.ErrRecordNotFound {
		quant = models.StockQuant{
			ProductID:  productID,
			LocationID: locationID,
			LotID:      lotID,
			Quantity:   delta,
		}
		return tx.Create(&quant).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&quant).Update("quantity", quant.Quantity+delta).Error
}

// CreateDisposalTransfer crea, confirma y reserva la transferencia de una
// salida de acopio. La valida (aplicando los movimientos al inventario) solo
// si ningún movimiento de producto con seguimiento por lote quedó sin detalle
// de lote; en caso contrario la transferencia completa queda reservada.
func CreateDisposalTransfer(tx *gorm.DB, d *models.Disposal) (*models.Transfer, error) {
	locAcopio, err := AcopioLocation(tx, d.CompanyID)
	if err != nil {
		return nil, err
	}
	locDest, err := CustomerLocation(tx, d.CompanyID)
	if err != nil {
		return nil, err
	}

	var tType models.TransferType
	err = tx.Where("company_id = ? AND code = ?", d.CompanyID, models.TransferSalida).
		First(&tType).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"No se encontró un tipo de operación de salida configurado.")
	}

	transfer := models.Transfer{
		CompanyID:      d.CompanyID,
		TransferTypeID: tType.ID,
		Origin:         fmt.Sprintf("Salida Acopio: %s", d.NumeroReferencia),
		PartnerID:      d.DestinatarioID,
		LocationID:     locAcopio.ID,
		LocationDestID: locDest.ID,
		State:          models.TransferBorrador,
		DisposalID:     &d.ID,
	}
	if err := tx.Create(&transfer).Error; err != nil {
		return nil, err
	}

	for i := range d.Lines {
		linea := &d.Lines[i]
		move := models.TransferMove{
			TransferID:     transfer.ID,
			Name:           fmt.Sprintf("Salida Acopio: %s", linea.Product.Name),
			ProductID:      linea.ProductID,
			Quantity:       linea.Cantidad,
			LocationID:     locAcopio.ID,
			LocationDestID: locDest.ID,
		}
		if err := tx.Create(&move).Error; err != nil {
			return nil, err
		}

		if linea.LotID != nil {
			detail := models.TransferMoveDetail{
				MoveID:         move.ID,
				ProductID:      linea.ProductID,
				LotID:          *linea.LotID,
				Quantity:       linea.Cantidad,
				LocationID:     locAcopio.ID,
				LocationDestID: locDest.ID,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return nil, err
			}
		}
	}

	// Confirmar y reservar
	if err := tx.Model(&transfer).Update("state", models.TransferReservada).Error; err != nil {
		return nil, err
	}
	transfer.State = models.TransferReservada

	// Validar solo si ningún movimiento con seguimiento por lote quedó sin
	// detalle. La compuerta aplica a la transferencia entera, no por línea.
	var moves []models.TransferMove
	if err := tx.Preload("Product").Preload("Details").
		Where("transfer_id = ?", transfer.ID).Find(&moves).Error; err != nil {
		return nil, err
	}

	canValidate := true
	for _, m := range moves {
		if m.Product.Tracking == models.TrackingLote && len(m.Details) == 0 {
			canValidate = false
			break
		}
	}

	if canValidate {
		if err := ValidateTransfer(tx, &transfer, moves); err != nil {
			return nil, err
		}
	}

	return &transfer, nil
}

// ValidateTransfer aplica los movimientos al inventario (resta en origen,
// suma en destino) y marca la transferencia como realizada.
func ValidateTransfer(tx *gorm.DB, transfer *models.Transfer, moves []models.TransferMove) error {
	for _, m := range moves {
		if len(m.Details) > 0 {
			for _, det := range m.Details {
				lotID := det.LotID
				if err := applyQuantDelta(tx, det.ProductID, m.LocationID, &lotID, -det.Quantity); err != nil {
					return err
				}
				if err := applyQuantDelta(tx, det.ProductID, m.LocationDestID, &lotID, det.Quantity); err != nil {
					return err
				}
			}
			continue
		}

		if err := applyQuantDelta(tx, m.ProductID, m.LocationID, nil, -m.Quantity); err != nil {
			return err
		}
		if err := applyQuantDelta(tx, m.ProductID, m.LocationDestID, nil, m.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Model(transfer).Update("state", models.TransferRealizada).Error; err != nil {
		return err
	}
	transfer.State = models.TransferRealizada
	return nil
}
