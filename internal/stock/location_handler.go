package stock

import (
	"strings"

	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLocationRequest struct {
	Name  string               `json:"name"`
	Usage models.LocationUsage `json:"usage"` // "interna" | "cliente"
}

type LocationResponse struct {
	ID    uint                 `json:"id"`
	Name  string               `json:"name"`
	Usage models.LocationUsage `json:"usage"`
}

// POST /api/admin/locations
func CreateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLocationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}
		if body.Usage == "" {
			body.Usage = models.LocationInterna
		}
		if body.Usage != models.LocationInterna && body.Usage != models.LocationCliente {
			return fiber.NewError(fiber.StatusBadRequest, "usage debe ser 'interna' o 'cliente'")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		loc := models.Location{
			CompanyID: companyID,
			Name:      strings.TrimSpace(body.Name),
			Usage:     body.Usage,
		}
		if err := database.DB.Create(&loc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la ubicación")
		}

		return c.Status(fiber.StatusCreated).JSON(LocationResponse{ID: loc.ID, Name: loc.Name, Usage: loc.Usage})
	}
}

// GET /api/admin/locations
func ListLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var locations []models.Location
		if err := database.DB.Where("company_id = ?", companyID).
			Order("name asc").Find(&locations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las ubicaciones")
		}

		resp := make([]LocationResponse, 0, len(locations))
		for _, l := range locations {
			resp = append(resp, LocationResponse{ID: l.ID, Name: l.Name, Usage: l.Usage})
		}
		return c.JSON(resp)
	}
}

type CreateTransferTypeRequest struct {
	Name string                  `json:"name"`
	Code models.TransferTypeCode `json:"code"` // "salida" | "entrada"
}

type TransferTypeResponse struct {
	ID   uint                    `json:"id"`
	Name string                  `json:"name"`
	Code models.TransferTypeCode `json:"code"`
}

// POST /api/admin/transfer-types
func CreateTransferTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransferTypeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}
		if body.Code != models.TransferSalida && body.Code != models.TransferEntrada {
			return fiber.NewError(fiber.StatusBadRequest, "code debe ser 'salida' o 'entrada'")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		tt := models.TransferType{
			CompanyID: companyID,
			Name:      strings.TrimSpace(body.Name),
			Code:      body.Code,
		}
		if err := database.DB.Create(&tt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el tipo de operación")
		}

		return c.Status(fiber.StatusCreated).JSON(TransferTypeResponse{ID: tt.ID, Name: tt.Name, Code: tt.Code})
	}
}

// GET /api/admin/transfer-types
func ListTransferTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var types []models.TransferType
		if err := database.DB.Where("company_id = ?", companyID).
			Order("name asc").Find(&types).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los tipos de operación")
		}

		resp := make([]TransferTypeResponse, 0, len(types))
		for _, t := range types {
			resp = append(resp, TransferTypeResponse{ID: t.ID, Name: t.Name, Code: t.Code})
		}
		return c.JSON(resp)
	}
}
