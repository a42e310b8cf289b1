package admin

import (
	"strings"

	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CompanyResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	RFC          string `json:"rfc"`
	Calle        string `json:"calle"`
	NumExt       string `json:"num_ext"`
	NumInt       string `json:"num_int"`
	Colonia      string `json:"colonia"`
	Municipio    string `json:"municipio"`
	Estado       string `json:"estado"`
	CodigoPostal string `json:"codigo_postal"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`
	Timezone     string `json:"timezone"`

	GeneratorPartnerID *uint `json:"generator_partner_id"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name"`
	RFC          *string `json:"rfc"`
	Calle        *string `json:"calle"`
	NumExt       *string `json:"num_ext"`
	NumInt       *string `json:"num_int"`
	Colonia      *string `json:"colonia"`
	Municipio    *string `json:"municipio"`
	Estado       *string `json:"estado"`
	CodigoPostal *string `json:"codigo_postal"`
	Telefono     *string `json:"telefono"`
	Email        *string `json:"email"`
	Timezone     *string `json:"timezone"`

	GeneratorPartnerID *uint `json:"generator_partner_id"`
}

// GET /api/admin/company
func GetCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var company models.Company
		if err := database.DB.First(&company, "id = ?", companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Compañía no encontrada")
		}

		return c.JSON(companyToResponse(&company))
	}
}

// PUT /api/admin/company
func UpdateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var company models.Company
		if err := database.DB.First(&company, "id = ?", companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Compañía no encontrada")
		}

		updates := map[string]interface{}{}
		setStr := func(col string, v *string) {
			if v != nil {
				updates[col] = strings.TrimSpace(*v)
			}
		}
		setStr("name", body.Name)
		setStr("rfc", body.RFC)
		setStr("calle", body.Calle)
		setStr("num_ext", body.NumExt)
		setStr("num_int", body.NumInt)
		setStr("colonia", body.Colonia)
		setStr("municipio", body.Municipio)
		setStr("estado", body.Estado)
		setStr("codigo_postal", body.CodigoPostal)
		setStr("telefono", body.Telefono)
		setStr("email", body.Email)
		setStr("timezone", body.Timezone)

		if body.GeneratorPartnerID != nil {
			var p models.Partner
			if err := database.DB.Where("company_id = ?", companyID).
				First(&p, "id = ?", *body.GeneratorPartnerID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "El partner generador configurado no existe")
			}
			updates["generator_partner_id"] = *body.GeneratorPartnerID
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&company).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la compañía")
			}
		}

		database.DB.First(&company, "id = ?", companyID)
		return c.JSON(companyToResponse(&company))
	}
}

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

// POST /api/admin/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre, email y contraseña son obligatorios")
		}
		if body.Role == "" {
			body.Role = models.RoleOperador
		}
		if body.Role != models.RoleAdmin && body.Role != models.RoleOperador {
			return fiber.NewError(fiber.StatusBadRequest, "role debe ser 'admin' u 'operador'")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}

		user := models.User{
			CompanyID:    companyID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario (¿email duplicado?)")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var users []models.User
		if err := database.DB.Where("company_id = ?", companyID).
			Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los usuarios")
		}

		type userResp struct {
			ID    uint            `json:"id"`
			Name  string          `json:"name"`
			Email string          `json:"email"`
			Role  models.UserRole `json:"role"`
		}
		resp := make([]userResp, 0, len(users))
		for _, u := range users {
			resp = append(resp, userResp{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
		}
		return c.JSON(resp)
	}
}

func companyToResponse(co *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:           co.ID,
		Name:         co.Name,
		RFC:          co.RFC,
		Calle:        co.Calle,
		NumExt:       co.NumExt,
		NumInt:       co.NumInt,
		Colonia:      co.Colonia,
		Municipio:    co.Municipio,
		Estado:       co.Estado,
		CodigoPostal: co.CodigoPostal,
		Telefono:     co.Telefono,
		Email:        co.Email,
		Timezone:     co.Timezone,

		GeneratorPartnerID: co.GeneratorPartnerID,
	}
}
