package report

import (
	"fmt"
	"time"

	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/disposals.xlsx?date_from=2025-01-01&date_to=2025-12-31
// Exporta el registro de salidas de acopio a Excel, una fila por salida.
func ExportDisposalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("User").Preload("Transportista").
			Preload("Destinatario").Preload("Manifest").
			Where("company_id = ?", companyID)

		if from := c.Query("date_from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("fecha_salida >= ?", d)
			}
		}
		if to := c.Query("date_to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				d = d.Add(24*time.Hour - time.Second)
				query = query.Where("fecha_salida <= ?", d)
			}
		}

		var disposals []models.Disposal
		if err := query.Order("fecha_salida ASC").Find(&disposals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron consultar las salidas")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Salidas"
		f.SetSheetName("Sheet1", sheet)

		headers := []interface{}{
			"Folio", "Fecha", "Estado", "Usuario",
			"Transportista", "Destinatario",
			"Total Residuos", "Cantidad Total (kg)", "Manifiesto",
		}
		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el reporte")
		}

		for i, d := range disposals {
			transportista := ""
			if d.Transportista != nil {
				transportista = d.Transportista.Name
			}
			destinatario := ""
			if d.Destinatario != nil {
				destinatario = d.Destinatario.Name
			}
			manifiesto := ""
			if d.Manifest != nil {
				manifiesto = d.Manifest.NumeroManifiesto
			}

			row := []interface{}{
				d.NumeroReferencia,
				d.FechaSalida.Format("2006-01-02 15:04"),
				string(d.State),
				d.User.Name,
				transportista,
				destinatario,
				d.TotalResiduos,
				d.CantidadTotal,
				manifiesto,
			}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el reporte")
			}
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="salidas-acopio-%s.xlsx"`, time.Now().Format("20060102")))

		if _, err := f.WriteTo(c.Response().BodyWriter()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo escribir el reporte")
		}
		return nil
	}
}
