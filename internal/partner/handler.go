package partner

import (
	"strings"

	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PartnerRequest struct {
	Name        string `json:"name"`
	IsCompany   bool   `json:"is_company"`
	IsCarrier   bool   `json:"is_carrier"`
	IsGenerator bool   `json:"is_generator"`

	Calle        string `json:"calle"`
	NumExt       string `json:"num_ext"`
	NumInt       string `json:"num_int"`
	Colonia      string `json:"colonia"`
	Municipio    string `json:"municipio"`
	Estado       string `json:"estado"`
	CodigoPostal string `json:"codigo_postal"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`

	RegistroAmbiental    string `json:"registro_ambiental"`
	AutorizacionSemarnat string `json:"autorizacion_semarnat"`
	PermisoSCT           string `json:"permiso_sct"`
	TipoVehiculo         string `json:"tipo_vehiculo"`
	NumeroPlaca          string `json:"numero_placa"`
}

type PartnerResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	IsCompany   bool   `json:"is_company"`
	IsCarrier   bool   `json:"is_carrier"`
	IsGenerator bool   `json:"is_generator"`

	Calle        string `json:"calle"`
	NumExt       string `json:"num_ext"`
	NumInt       string `json:"num_int"`
	Colonia      string `json:"colonia"`
	Municipio    string `json:"municipio"`
	Estado       string `json:"estado"`
	CodigoPostal string `json:"codigo_postal"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`

	RegistroAmbiental    string `json:"registro_ambiental"`
	AutorizacionSemarnat string `json:"autorizacion_semarnat"`
	PermisoSCT           string `json:"permiso_sct"`
	TipoVehiculo         string `json:"tipo_vehiculo"`
	NumeroPlaca          string `json:"numero_placa"`
}

// POST /api/partners
func CreatePartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PartnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p := partnerFromRequest(&body)
		p.CompanyID = companyID

		if err := database.DB.Create(p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el partner")
		}

		return c.Status(fiber.StatusCreated).JSON(partnerToResponse(p))
	}
}

// GET /api/partners?is_company=true&is_carrier=true
func ListPartnersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		query := database.DB.Where("company_id = ?", companyID)
		if c.Query("is_company") == "true" {
			query = query.Where("is_company = ?", true)
		}
		if c.Query("is_carrier") == "true" {
			query = query.Where("is_carrier = ?", true)
		}
		if c.Query("is_generator") == "true" {
			query = query.Where("is_generator = ?", true)
		}
		if name := c.Query("name"); name != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}

		var partners []models.Partner
		if err := query.Order("name asc").Find(&partners).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los partners")
		}

		resp := make([]PartnerResponse, 0, len(partners))
		for i := range partners {
			resp = append(resp, partnerToResponse(&partners[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/partners/:id
func GetPartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var p models.Partner
		if err := database.DB.Where("company_id = ?", companyID).
			First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Partner no encontrado")
		}

		return c.JSON(partnerToResponse(&p))
	}
}

// PUT /api/partners/:id
func UpdatePartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PartnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var p models.Partner
		if err := database.DB.Where("company_id = ?", companyID).
			First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Partner no encontrado")
		}

		updated := partnerFromRequest(&body)
		updated.ID = p.ID
		updated.CompanyID = p.CompanyID
		updated.CreatedAt = p.CreatedAt

		if err := database.DB.Save(updated).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el partner")
		}

		return c.JSON(partnerToResponse(updated))
	}
}

// DELETE /api/partners/:id
func DeletePartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var p models.Partner
		if err := database.DB.Where("company_id = ?", companyID).
			First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Partner no encontrado")
		}

		var count int64
		database.DB.Model(&models.Disposal{}).
			Where("transportista_id = ? OR destinatario_id = ?", p.ID, p.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No se puede eliminar un partner con salidas registradas")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el partner")
		}

		return c.JSON(fiber.Map{"message": "Partner eliminado"})
	}
}

func partnerFromRequest(body *PartnerRequest) *models.Partner {
	return &models.Partner{
		Name:        strings.TrimSpace(body.Name),
		IsCompany:   body.IsCompany,
		IsCarrier:   body.IsCarrier,
		IsGenerator: body.IsGenerator,

		Calle:        body.Calle,
		NumExt:       body.NumExt,
		NumInt:       body.NumInt,
		Colonia:      body.Colonia,
		Municipio:    body.Municipio,
		Estado:       body.Estado,
		CodigoPostal: body.CodigoPostal,
		Telefono:     body.Telefono,
		Email:        body.Email,

		RegistroAmbiental:    body.RegistroAmbiental,
		AutorizacionSemarnat: body.AutorizacionSemarnat,
		PermisoSCT:           body.PermisoSCT,
		TipoVehiculo:         body.TipoVehiculo,
		NumeroPlaca:          body.NumeroPlaca,
	}
}

func partnerToResponse(p *models.Partner) PartnerResponse {
	return PartnerResponse{
		ID:          p.ID,
		Name:        p.Name,
		IsCompany:   p.IsCompany,
		IsCarrier:   p.IsCarrier,
		IsGenerator: p.IsGenerator,

		Calle:        p.Calle,
		NumExt:       p.NumExt,
		NumInt:       p.NumInt,
		Colonia:      p.Colonia,
		Municipio:    p.Municipio,
		Estado:       p.Estado,
		CodigoPostal: p.CodigoPostal,
		Telefono:     p.Telefono,
		Email:        p.Email,

		RegistroAmbiental:    p.RegistroAmbiental,
		AutorizacionSemarnat: p.AutorizacionSemarnat,
		PermisoSCT:           p.PermisoSCT,
		TipoVehiculo:         p.TipoVehiculo,
		NumeroPlaca:          p.NumeroPlaca,
	}
}
