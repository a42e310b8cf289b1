package catalog

import (
	"strings"

	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID              uint                   `json:"id"`
	Name            string                 `json:"name"`
	Unit            string                 `json:"unit"`
	Tracking        models.ProductTracking `json:"tracking"`
	CRETIB          string                 `json:"cretib"`
	Corrosivo       bool                   `json:"corrosivo"`
	Reactivo        bool                   `json:"reactivo"`
	Explosivo       bool                   `json:"explosivo"`
	Toxico          bool                   `json:"toxico"`
	Inflamable      bool                   `json:"inflamable"`
	Biologico       bool                   `json:"biologico"`
	EnvaseTipo      string                 `json:"envase_tipo_default"`
	EnvaseCapacidad float64                `json:"envase_capacidad_default"`
}

type CreateProductRequest struct {
	Name            string                 `json:"name"`
	Unit            string                 `json:"unit"`
	Tracking        models.ProductTracking `json:"tracking"`
	Corrosivo       bool                   `json:"corrosivo"`
	Reactivo        bool                   `json:"reactivo"`
	Explosivo       bool                   `json:"explosivo"`
	Toxico          bool                   `json:"toxico"`
	Inflamable      bool                   `json:"inflamable"`
	Biologico       bool                   `json:"biologico"`
	EnvaseTipo      string                 `json:"envase_tipo_default"`
	EnvaseCapacidad float64                `json:"envase_capacidad_default"`
}

type UpdateProductRequest struct {
	Name            *string  `json:"name"`
	Unit            *string  `json:"unit"`
	Corrosivo       *bool    `json:"corrosivo"`
	Reactivo        *bool    `json:"reactivo"`
	Explosivo       *bool    `json:"explosivo"`
	Toxico          *bool    `json:"toxico"`
	Inflamable      *bool    `json:"inflamable"`
	Biologico       *bool    `json:"biologico"`
	EnvaseTipo      *string  `json:"envase_tipo_default"`
	EnvaseCapacidad *float64 `json:"envase_capacidad_default"`
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los productos")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, productToResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}
		if body.Unit == "" {
			body.Unit = "kg"
		}
		if body.Tracking == "" {
			body.Tracking = models.TrackingNone
		}
		if body.Tracking != models.TrackingNone && body.Tracking != models.TrackingLote {
			return fiber.NewError(fiber.StatusBadRequest, "tracking debe ser 'none' o 'lote'")
		}

		product := models.Product{
			Name:                   strings.TrimSpace(body.Name),
			Unit:                   body.Unit,
			Tracking:               body.Tracking,
			Corrosivo:              body.Corrosivo,
			Reactivo:               body.Reactivo,
			Explosivo:              body.Explosivo,
			Toxico:                 body.Toxico,
			Inflamable:             body.Inflamable,
			Biologico:              body.Biologico,
			EnvaseTipoDefault:      body.EnvaseTipo,
			EnvaseCapacidadDefault: body.EnvaseCapacidad,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el producto (¿nombre duplicado?)")
		}

		return c.Status(fiber.StatusCreated).JSON(productToResponse(&product))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		updates := map[string]interface{}{}
		if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Unit != nil && *body.Unit != "" {
			updates["unit"] = *body.Unit
		}
		if body.Corrosivo != nil {
			updates["corrosivo"] = *body.Corrosivo
		}
		if body.Reactivo != nil {
			updates["reactivo"] = *body.Reactivo
		}
		if body.Explosivo != nil {
			updates["explosivo"] = *body.Explosivo
		}
		if body.Toxico != nil {
			updates["toxico"] = *body.Toxico
		}
		if body.Inflamable != nil {
			updates["inflamable"] = *body.Inflamable
		}
		if body.Biologico != nil {
			updates["biologico"] = *body.Biologico
		}
		if body.EnvaseTipo != nil {
			updates["envase_tipo_default"] = *body.EnvaseTipo
		}
		if body.EnvaseCapacidad != nil {
			updates["envase_capacidad_default"] = *body.EnvaseCapacidad
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el producto")
			}
		}

		return c.JSON(productToResponse(&product))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		var count int64
		database.DB.Model(&models.DisposalLine{}).Where("product_id = ?", product.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No se puede eliminar un producto con salidas registradas")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el producto")
		}

		return c.JSON(fiber.Map{"message": "Producto eliminado"})
	}
}

// GET /api/lots?product_id=1
func ListLotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Lot{})
		if pid := c.QueryInt("product_id"); pid > 0 {
			query = query.Where("product_id = ?", pid)
		}

		var lots []models.Lot
		if err := query.Order("code asc").Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los lotes")
		}

		type lotResp struct {
			ID        uint   `json:"id"`
			ProductID uint   `json:"product_id"`
			Code      string `json:"code"`
		}
		resp := make([]lotResp, 0, len(lots))
		for _, l := range lots {
			resp = append(resp, lotResp{ID: l.ID, ProductID: l.ProductID, Code: l.Code})
		}
		return c.JSON(resp)
	}
}

func productToResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Unit:            p.Unit,
		Tracking:        p.Tracking,
		CRETIB:          p.ClasificacionesCRETIB(),
		Corrosivo:       p.Corrosivo,
		Reactivo:        p.Reactivo,
		Explosivo:       p.Explosivo,
		Toxico:          p.Toxico,
		Inflamable:      p.Inflamable,
		Biologico:       p.Biologico,
		EnvaseTipo:      p.EnvaseTipoDefault,
		EnvaseCapacidad: p.EnvaseCapacidadDefault,
	}
}
