package disposal

import (
	"fmt"
	"time"

	"acopio-backend/internal/audit"
	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"
	"acopio-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type LineRequest struct {
	ProductID uint    `json:"product_id"`
	LotID     *uint   `json:"lot_id"`
	Cantidad  float64 `json:"cantidad"`
}

type CreateDisposalRequest struct {
	FechaSalida     string        `json:"fecha_salida"` // "2025-09-01", opcional
	TransportistaID *uint         `json:"transportista_id"`
	DestinatarioID  *uint         `json:"destinatario_id"`
	Observaciones   string        `json:"observaciones"`
	Lines           []LineRequest `json:"lineas"`
}

type UpdateDisposalRequest struct {
	TransportistaID *uint   `json:"transportista_id"`
	DestinatarioID  *uint   `json:"destinatario_id"`
	Observaciones   *string `json:"observaciones"`
}

type DisposalLineResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	CRETIB      string  `json:"cretib"`
	LotID       *uint   `json:"lot_id"`
	LotCode     string  `json:"lot_code"`
	Cantidad    float64 `json:"cantidad"`
	Disponible  float64 `json:"stock_disponible"` // recalculado, nunca almacenado
}

type DisposalResponse struct {
	ID               uint                   `json:"id"`
	NumeroReferencia string                 `json:"numero_referencia"`
	DisplayName      string                 `json:"display_name"`
	FechaSalida      string                 `json:"fecha_salida"`
	UserID           uint                   `json:"user_id"`
	UserName         string                 `json:"user_name"`
	TransportistaID  *uint                  `json:"transportista_id"`
	Transportista    string                 `json:"transportista"`
	DestinatarioID   *uint                  `json:"destinatario_id"`
	Destinatario     string                 `json:"destinatario"`
	State            models.DisposalState   `json:"state"`
	TransferID       *uint                  `json:"transfer_id"`
	ManifestID       *uint                  `json:"manifest_id"`
	NumeroManifiesto string                 `json:"numero_manifiesto"`
	TotalResiduos    int                    `json:"total_residuos"`
	CantidadTotal    float64                `json:"cantidad_total"`
	Observaciones    string                 `json:"observaciones"`
	CreatedAt        string                 `json:"created_at"`
	Lineas           []DisposalLineResponse `json:"lineas,omitempty"`
}

// POST /api/disposals
func CreateDisposalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDisposalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		userID, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		params := CreateParams{
			TransportistaID: body.TransportistaID,
			DestinatarioID:  body.DestinatarioID,
			Observaciones:   body.Observaciones,
		}
		if body.FechaSalida != "" {
			d, err := time.Parse("2006-01-02", body.FechaSalida)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "El formato de fecha debe ser 'YYYY-MM-DD'")
			}
			params.FechaSalida = d
		}
		for _, l := range body.Lines {
			params.Lines = append(params.Lines, LineParams{
				ProductID: l.ProductID,
				LotID:     l.LotID,
				Cantidad:  l.Cantidad,
			})
		}

		d, err := Create(database.DB, companyID, userID, params)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   &companyID,
			UserID:      userID,
			UserName:    auth.UserName(userID),
			EntityType:  "salida_acopio",
			EntityID:    d.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Salida de acopio creada: %s", d.NumeroReferencia),
			After:       d,
		})

		return c.Status(fiber.StatusCreated).JSON(loadAndRespond(companyID, d.ID))
	}
}

// GET /api/disposals
func ListDisposalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("User").Preload("Transportista").
			Preload("Destinatario").Preload("Manifest").
			Where("company_id = ?", companyID)

		if state := c.Query("state"); state != "" {
			query = query.Where("state = ?", state)
		}
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
		if err := query.Order("fecha_salida DESC, created_at DESC").Find(&disposals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las salidas")
		}

		resp := make([]DisposalResponse, 0, len(disposals))
		for i := range disposals {
			resp = append(resp, disposalToResponse(companyID, &disposals[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/disposals/:id
func GetDisposalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador inválido")
		}

		resp := loadAndRespond(companyID, uint(id))
		if resp == nil {
			return fiber.NewError(fiber.StatusNotFound, "Salida de acopio no encontrada")
		}
		return c.JSON(resp)
	}
}

// PUT /api/disposals/:id (solo borrador)
func UpdateDisposalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateDisposalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador inválido")
		}

		d, err := UpdateDraft(database.DB, companyID, uint(id), body.TransportistaID, body.DestinatarioID, body.Observaciones)
		if err != nil {
			return err
		}

		return c.JSON(loadAndRespond(companyID, d.ID))
	}
}

// POST /api/disposals/:id/lines
func AddLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador inválido")
		}

		d, err := AddLine(database.DB, companyID, uint(id), LineParams{
			ProductID: body.ProductID,
			LotID:     body.LotID,
			Cantidad:  body.Cantidad,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(loadAndRespond(companyID, d.ID))
	}
}

// DELETE /api/disposals/:id/lines/:lineID
func DeleteLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador inválido")
		}
		lineID, err := c.ParamsInt("lineID")
		if err != nil || lineID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador de línea inválido")
		}

		d, err := DeleteLine(database.DB, companyID, uint(id), uint(lineID))
		if err != nil {
			return err
		}

		return c.JSON(loadAndRespond(companyID, d.ID))
	}
}

// POST /api/disposals/:id/confirm
func ConfirmDisposalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador inválido")
		}

		d, err := Confirm(database.DB, companyID, uint(id))
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
			Description: fmt.Sprintf("Salida confirmada: %s - Manifiesto: %s", d.NumeroReferencia, d.Manifest.NumeroManifiesto),
			After:       d,
		})

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf(
				"La salida de acopio %s se ha realizado exitosamente. Manifiesto generado: %s",
				d.NumeroReferencia, d.Manifest.NumeroManifiesto),
			"disposal": loadAndRespond(companyID, d.ID),
		})
	}
}

// POST /api/disposals/:id/cancel
func CancelDisposalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador inválido")
		}

		d, err := Cancel(database.DB, companyID, uint(id))
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   &companyID,
			UserID:      userID,
			UserName:    auth.UserName(userID),
			EntityType:  "salida_acopio",
			EntityID:    d.ID,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("Salida cancelada: %s", d.NumeroReferencia),
			After:       d,
		})

		return c.JSON(loadAndRespond(companyID, d.ID))
	}
}

func loadAndRespond(companyID, disposalID uint) *DisposalResponse {
	var d models.Disposal
	err := database.DB.Preload("User").Preload("Transportista").Preload("Destinatario").
		Preload("Manifest").Preload("Lines.Product").Preload("Lines.Lot").
		Where("company_id = ?", companyID).
		First(&d, "id = ?", disposalID).Error
	if err != nil {
		return nil
	}
	resp := disposalToResponse(companyID, &d, true)
	return &resp
}

func disposalToResponse(companyID uint, d *models.Disposal, withLines bool) DisposalResponse {
	resp := DisposalResponse{
		ID:               d.ID,
		NumeroReferencia: d.NumeroReferencia,
		DisplayName:      d.DisplayName(),
		FechaSalida:      d.FechaSalida.Format("2006-01-02 15:04:05"),
		UserID:           d.UserID,
		UserName:         d.User.Name,
		TransportistaID:  d.TransportistaID,
		DestinatarioID:   d.DestinatarioID,
		State:            d.State,
		TransferID:       d.TransferID,
		ManifestID:       d.ManifestID,
		TotalResiduos:    d.TotalResiduos,
		CantidadTotal:    d.CantidadTotal,
		Observaciones:    d.Observaciones,
		CreatedAt:        d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if d.Transportista != nil {
		resp.Transportista = d.Transportista.Name
	}
	if d.Destinatario != nil {
		resp.Destinatario = d.Destinatario.Name
	}
	if d.Manifest != nil {
		resp.NumeroManifiesto = d.Manifest.NumeroManifiesto
	}
	if !withLines {
		return resp
	}
	for i := range d.Lines {
		l := &d.Lines[i]
		lr := DisposalLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.Product.Name,
			CRETIB:      l.Product.ClasificacionesCRETIB(),
			LotID:       l.LotID,
			Cantidad:    l.Cantidad,
			Disponible:  stock.AvailableAt(database.DB, companyID, l.ProductID, l.LotID),
		}
		if l.Lot != nil {
			lr.LotCode = l.Lot.Code
		}
		resp.Lineas = append(resp.Lineas, lr)
	}
	return resp
}
