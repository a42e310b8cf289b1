package disposal

import (
	"fmt"

	"acopio-backend/internal/audit"
	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type WizardConfirmRequest struct {
	TransportistaID *uint         `json:"transportista_id"`
	DestinatarioID  *uint         `json:"destinatario_id"`
	Observaciones   string        `json:"observaciones"`
	Lines           []LineRequest `json:"lineas"`
}

// POST /api/disposal-wizard/confirm
// Asistente de salida: valida todas las líneas, crea la salida y la confirma
// en un solo paso. Devuelve la salida ya realizada.
func WizardConfirmHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WizardConfirmRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		userID, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		params := WizardParams{
			TransportistaID: body.TransportistaID,
			DestinatarioID:  body.DestinatarioID,
			Observaciones:   body.Observaciones,
		}
		for _, l := range body.Lines {
			params.Lines = append(params.Lines, LineParams{
				ProductID: l.ProductID,
				LotID:     l.LotID,
				Cantidad:  l.Cantidad,
			})
		}

		d, err := ConfirmWizard(database.DB, companyID, userID, params)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   &companyID,
			UserID:      userID,
			UserName:    auth.UserName(userID),
			EntityType:  "salida_acopio",
			EntityID:    d.ID,
			Action:      models.AuditActionConfirm,
			Description: fmt.Sprintf("Salida desde asistente: %s - Manifiesto: %s", d.NumeroReferencia, d.Manifest.NumeroManifiesto),
			After:       d,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf(
				"La salida de acopio %s se ha realizado exitosamente. Manifiesto generado: %s",
				d.NumeroReferencia, d.Manifest.NumeroManifiesto),
			"disposal": loadAndRespond(companyID, d.ID),
		})
	}
}

// GET /api/disposal-wizard/default-carrier
func DefaultCarrierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		partner := ResolveDefaultCarrier(database.DB, companyID)
		if partner == nil {
			return c.JSON(fiber.Map{"partner": nil})
		}

		return c.JSON(fiber.Map{
			"partner": fiber.Map{
				"id":         partner.ID,
				"name":       partner.Name,
				"is_carrier": partner.IsCarrier,
			},
		})
	}
}
