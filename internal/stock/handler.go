package stock

import (
	"fmt"
	"time"

	"acopio-backend/internal/audit"
	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateIntakeRequest struct {
	ProductID uint    `json:"product_id"`
	LotID     *uint   `json:"lot_id"`
	LotCode   string  `json:"lot_code"`
	Quantity  float64 `json:"quantity"`
	Date      string  `json:"date"` // "2025-09-01", opcional
	Note      string  `json:"note"`
}

type IntakeResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	LotID       *uint   `json:"lot_id"`
	LotCode     string  `json:"lot_code"`
	Date        string  `json:"date"`
	Quantity    float64 `json:"quantity"`
	Note        string  `json:"note"`
	CreatedAt   string  `json:"created_at"`
}

// POST /api/intakes
func CreateIntakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIntakeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id es obligatorio")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity debe ser mayor a cero")
		}

		userID, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		params := IntakeParams{
			ProductID: body.ProductID,
			LotID:     body.LotID,
			LotCode:   body.LotCode,
			Quantity:  body.Quantity,
			Note:      body.Note,
		}
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "El formato de fecha debe ser 'YYYY-MM-DD'")
			}
			params.Date = d
		}

		intake, err := RegisterIntake(database.DB, companyID, userID, params)
		if err != nil {
			return err
		}

		var loaded models.Intake
		if err := database.DB.Preload("Product").Preload("Lot").
			First(&loaded, "id = ?", intake.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cargar el ingreso")
		}

		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   &companyID,
			UserID:      userID,
			UserName:    auth.UserName(userID),
			EntityType:  "ingreso_acopio",
			EntityID:    loaded.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ingreso a Acopio: %s - %.3f %s", loaded.Product.Name, loaded.Quantity, loaded.Product.Unit),
			After:       loaded,
		})

		return c.Status(fiber.StatusCreated).JSON(intakeToResponse(&loaded))
	}
}

// GET /api/intakes
func ListIntakesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Product").Preload("Lot").
			Where("company_id = ?", companyID)

		if from := c.Query("date_from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("date >= ?", d)
			}
		}
		if to := c.Query("date_to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				d = d.Add(24*time.Hour - time.Second)
				query = query.Where("date <= ?", d)
			}
		}

		var intakes []models.Intake
		if err := query.Order("date DESC, created_at DESC").Find(&intakes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los ingresos")
		}

		resp := make([]IntakeResponse, 0, len(intakes))
		for i := range intakes {
			resp = append(resp, intakeToResponse(&intakes[i]))
		}
		return c.JSON(resp)
	}
}

func intakeToResponse(in *models.Intake) IntakeResponse {
	lotCode := ""
	if in.Lot != nil {
		lotCode = in.Lot.Code
	}
	return IntakeResponse{
		ID:          in.ID,
		ProductID:   in.ProductID,
		ProductName: in.Product.Name,
		LotID:       in.LotID,
		LotCode:     lotCode,
		Date:        in.Date.Format("2006-01-02"),
		Quantity:    in.Quantity,
		Note:        in.Note,
		CreatedAt:   in.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/stock/on-hand?product_id=1&lot_id=2
// Disponibilidad en Acopio. Devuelve 0 si Acopio no está configurado.
func OnHandHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		productID := c.QueryInt("product_id")
		if productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id es obligatorio")
		}

		var lotID *uint
		if l := c.QueryInt("lot_id"); l > 0 {
			v := uint(l)
			lotID = &v
		}

		available := AvailableAt(database.DB, companyID, uint(productID), lotID)
		return c.JSON(fiber.Map{
			"product_id": productID,
			"lot_id":     lotID,
			"available":  available,
		})
	}
}

// GET /api/stock/available-lots?product_id=1
// Lotes con existencia positiva en Acopio para el producto.
func AvailableLotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		productID := c.QueryInt("product_id")
		if productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id es obligatorio")
		}

		lots, err := AvailableLots(database.DB, companyID, uint(productID))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los lotes")
		}

		type lotResp struct {
			ID        uint    `json:"id"`
			Code      string  `json:"code"`
			Available float64 `json:"available"`
		}
		resp := make([]lotResp, 0, len(lots))
		for _, l := range lots {
			lotID := l.ID
			resp = append(resp, lotResp{
				ID:        l.ID,
				Code:      l.Code,
				Available: AvailableAt(database.DB, companyID, uint(productID), &lotID),
			})
		}
		return c.JSON(resp)
	}
}

type TransferMoveResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Lots        []struct {
		LotID    uint    `json:"lot_id"`
		LotCode  string  `json:"lot_code"`
		Quantity float64 `json:"quantity"`
	} `json:"lots"`
}

type TransferResponse struct {
	ID         uint                   `json:"id"`
	Origin     string                 `json:"origin"`
	State      models.TransferState   `json:"state"`
	DisposalID *uint                  `json:"disposal_id"`
	CreatedAt  string                 `json:"created_at"`
	Moves      []TransferMoveResponse `json:"moves"`
}

// GET /api/transfers
func ListTransfersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var transfers []models.Transfer
		if err := database.DB.Where("company_id = ?", companyID).
			Order("created_at DESC").Find(&transfers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las transferencias")
		}

		resp := make([]TransferResponse, 0, len(transfers))
		for i := range transfers {
			resp = append(resp, transferToResponse(&transfers[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/transfers/:id
func GetTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var transfer models.Transfer
		if err := database.DB.Preload("Moves.Product").Preload("Moves.Details.Lot").
			Where("company_id = ?", companyID).
			First(&transfer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transferencia no encontrada")
		}

		return c.JSON(transferToResponse(&transfer, true))
	}
}

func transferToResponse(t *models.Transfer, withMoves bool) TransferResponse {
	resp := TransferResponse{
		ID:         t.ID,
		Origin:     t.Origin,
		State:      t.State,
		DisposalID: t.DisposalID,
		CreatedAt:  t.CreatedAt.Format("2006-01-02 15:04:05"),
		Moves:      []TransferMoveResponse{},
	}
	if !withMoves {
		return resp
	}
	for _, m := range t.Moves {
		mr := TransferMoveResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: m.Product.Name,
			Quantity:    m.Quantity,
		}
		for _, det := range m.Details {
			mr.Lots = append(mr.Lots, struct {
				LotID    uint    `json:"lot_id"`
				LotCode  string  `json:"lot_code"`
				Quantity float64 `json:"quantity"`
			}{det.LotID, det.Lot.Code, det.Quantity})
		}
		resp.Moves = append(resp.Moves, mr)
	}
	return resp
}
