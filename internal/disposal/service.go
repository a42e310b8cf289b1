package disposal

import (
	"fmt"
	"log"
	"time"

	"acopio-backend/internal/manifest"
	"acopio-backend/internal/models"
	"acopio-backend/internal/sequence"
	"acopio-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LineParams struct {
	ProductID uint
	LotID     *uint
	Cantidad  float64
}

type CreateParams struct {
	FechaSalida     time.Time // cero = ahora
	TransportistaID *uint
	DestinatarioID  *uint
	Observaciones   string
	Lines           []LineParams
}

// Create crea una salida en borrador. El folio se genera aquí, una sola vez,
// con la fecha local de la salida según la zona horaria de la compañía.
func Create(db *gorm.DB, companyID, userID uint, params CreateParams) (*models.Disposal, error) {
	var company models.Company
	if err := db.First(&company, "id = ?", companyID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Compañía no encontrada")
	}

	fecha := params.FechaSalida
	if fecha.IsZero() {
		fecha = time.Now()
	}

	var d *models.Disposal
	err := db.Transaction(func(tx *gorm.DB) error {
		local := sequence.LocalDate(fecha, company.Timezone)
		ref, err := sequence.NextReference(tx, sequence.CodeSalidaAcopio, local)
		if err != nil {
			return err
		}

		d = &models.Disposal{
			CompanyID:        companyID,
			NumeroReferencia: ref,
			FechaSalida:      fecha,
			UserID:           userID,
			TransportistaID:  params.TransportistaID,
			DestinatarioID:   params.DestinatarioID,
			Observaciones:    params.Observaciones,
			State:            models.DisposalBorrador,
		}
		if err := tx.Create(d).Error; err != nil {
			return err
		}

		for _, lp := range params.Lines {
			if err := createLine(tx, d, lp); err != nil {
				return err
			}
		}

		return recomputeTotals(tx, d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// AddLine agrega una línea a una salida en borrador.
func AddLine(db *gorm.DB, companyID, disposalID uint, lp LineParams) (*models.Disposal, error) {
	var d models.Disposal
	if err := db.Where("company_id = ?", companyID).
		First(&d, "id = ?", disposalID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Salida de acopio no encontrada")
	}
	if d.State != models.DisposalBorrador {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Solo se pueden modificar salidas en estado borrador.")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := createLine(tx, &d, lp); err != nil {
			return err
		}
		return recomputeTotals(tx, &d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteLine elimina una línea de una salida en borrador.
func DeleteLine(db *gorm.DB, companyID, disposalID, lineID uint) (*models.Disposal, error) {
	var d models.Disposal
	if err := db.Where("company_id = ?", companyID).
		First(&d, "id = ?", disposalID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Salida de acopio no encontrada")
	}
	if d.State != models.DisposalBorrador {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Solo se pueden modificar salidas en estado borrador.")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("disposal_id = ?", d.ID).Delete(&models.DisposalLine{}, "id = ?", lineID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Línea no encontrada")
		}
		return recomputeTotals(tx, &d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func createLine(tx *gorm.DB, d *models.Disposal, lp LineParams) error {
	if lp.ProductID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Una de las líneas no tiene producto asignado.")
	}
	var product models.Product
	if err := tx.First(&product, "id = ?", lp.ProductID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Producto no encontrado")
	}
	if lp.Cantidad < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "La cantidad no puede ser negativa.")
	}
	if lp.LotID != nil {
		var lot models.Lot
		if err := tx.First(&lot, "id = ? AND product_id = ?", *lp.LotID, lp.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Lote no encontrado para el producto")
		}
	}

	// La disponibilidad nunca recorta en silencio: exceso = error al guardar
	if lp.Cantidad > 0 {
		disponible := stock.AvailableAt(tx, d.CompanyID, lp.ProductID, lp.LotID)
		if lp.Cantidad > disponible {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(
				"La cantidad a dar de salida (%g kg) no puede ser mayor al stock disponible (%g kg) para el producto %s",
				lp.Cantidad, disponible, product.Name))
		}
	}

	linea := models.DisposalLine{
		DisposalID: d.ID,
		ProductID:  lp.ProductID,
		LotID:      lp.LotID,
		Cantidad:   lp.Cantidad,
	}
	return tx.Create(&linea).Error
}

// recomputeTotals mantiene los derivados del registro iguales al número y la
// suma de sus líneas.
func recomputeTotals(tx *gorm.DB, d *models.Disposal) error {
	var count int64
	if err := tx.Model(&models.DisposalLine{}).
		Where("disposal_id = ?", d.ID).Count(&count).Error; err != nil {
		return err
	}

	var total float64
	if err := tx.Model(&models.DisposalLine{}).
		Where("disposal_id = ?", d.ID).
		Select("COALESCE(SUM(cantidad), 0)").Scan(&total).Error; err != nil {
		return err
	}

	if err := tx.Model(d).Updates(map[string]interface{}{
		"total_residuos": count,
		"cantidad_total": total,
	}).Error; err != nil {
		return err
	}
	d.TotalResiduos = int(count)
	d.CantidadTotal = total
	return nil
}

// Confirm confirma la salida: valida precondiciones, crea la transferencia de
// inventario, genera el manifiesto de salida y marca el registro como
// realizado, todo dentro de una sola transacción. Cualquier error durante la
// creación deshace todo y se reporta como un único error envuelto; nunca
// queda una salida realizada con solo una de las dos referencias.
func Confirm(db *gorm.DB, companyID, disposalID uint) (*models.Disposal, error) {
	var d models.Disposal
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines.Product").Preload("Lines.Lot").
			Preload("Transportista").Preload("Destinatario").
			Where("company_id = ?", companyID).
			First(&d, "id = ?", disposalID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salida de acopio no encontrada")
		}

		// Precondiciones en orden; la primera que falla gana
		if d.State != models.DisposalBorrador {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se pueden confirmar salidas en estado borrador.")
		}
		if len(d.Lines) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No hay líneas de salida para procesar.")
		}
		if d.TransportistaID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Debe seleccionar un transportista.")
		}
		if d.DestinatarioID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Debe seleccionar un destinatario final.")
		}

		// Disponibilidad recalculada aquí, no la calculada al capturar
		for i := range d.Lines {
			linea := &d.Lines[i]
			disponible := stock.AvailableAt(tx, d.CompanyID, linea.ProductID, linea.LotID)
			if linea.Cantidad > disponible {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(
					"No hay suficiente stock para el producto %s. Solicitado: %g kg, Disponible: %g kg",
					linea.Product.Name, linea.Cantidad, disponible))
			}
		}

		var company models.Company
		if err := tx.First(&company, "id = ?", d.CompanyID).Error; err != nil {
			return wrapConfirmErr(&d, err)
		}

		// 1. Transferencia de inventario
		transfer, err := stock.CreateDisposalTransfer(tx, &d)
		if err != nil {
			return wrapConfirmErr(&d, err)
		}

		// 2. Manifiesto de salida (la compañía como generador)
		man, err := manifest.CreateOutbound(tx, &d, &company)
		if err != nil {
			return wrapConfirmErr(&d, err)
		}

		// 3. Marcar como realizada, con ambas referencias en un solo update
		if err := tx.Model(&d).Updates(map[string]interface{}{
			"state":       models.DisposalRealizada,
			"transfer_id": transfer.ID,
			"manifest_id": man.ID,
		}).Error; err != nil {
			return wrapConfirmErr(&d, err)
		}

		d.State = models.DisposalRealizada
		d.TransferID = &transfer.ID
		d.Transfer = transfer
		d.ManifestID = &man.ID
		d.Manifest = man
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Salida de acopio %s confirmada exitosamente", d.NumeroReferencia)
	return &d, nil
}

func wrapConfirmErr(d *models.Disposal, err error) error {
	log.Printf("Error al confirmar salida de acopio %s: %v", d.NumeroReferencia, err)
	return fiber.NewError(fiber.StatusBadRequest, "Error al realizar la salida: "+err.Error())
}

// Cancel cancela una salida. Las salidas realizadas son terminales.
func Cancel(db *gorm.DB, companyID, disposalID uint) (*models.Disposal, error) {
	var d models.Disposal
	if err := db.Where("company_id = ?", companyID).
		First(&d, "id = ?", disposalID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Salida de acopio no encontrada")
	}

	if d.State == models.DisposalRealizada {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No se puede cancelar una salida ya realizada.")
	}

	if err := db.Model(&d).Update("state", models.DisposalCancelada).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudo cancelar la salida")
	}
	d.State = models.DisposalCancelada
	return &d, nil
}

// UpdateDraft actualiza los campos editables de una salida en borrador.
func UpdateDraft(db *gorm.DB, companyID, disposalID uint, transportistaID, destinatarioID *uint, observaciones *string) (*models.Disposal, error) {
	var d models.Disposal
	if err := db.Where("company_id = ?", companyID).
		First(&d, "id = ?", disposalID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Salida de acopio no encontrada")
	}
	if d.State != models.DisposalBorrador {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Solo se pueden modificar salidas en estado borrador.")
	}

	updates := map[string]interface{}{}
	if transportistaID != nil {
		updates["transportista_id"] = *transportistaID
		d.TransportistaID = transportistaID
	}
	if destinatarioID != nil {
		updates["destinatario_id"] = *destinatarioID
		d.DestinatarioID = destinatarioID
	}
	if observaciones != nil {
		updates["observaciones"] = *observaciones
		d.Observaciones = *observaciones
	}
	if len(updates) == 0 {
		return &d, nil
	}

	if err := db.Model(&d).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la salida")
	}
	return &d, nil
}
