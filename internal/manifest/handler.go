package manifest

import (
	"acopio-backend/internal/auth"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type WasteLineResponse struct {
	ID              uint    `json:"id"`
	ProductID       uint    `json:"product_id"`
	NombreResiduo   string  `json:"nombre_residuo"`
	Cantidad        float64 `json:"cantidad"`
	CRETIB          string  `json:"cretib"`
	EnvaseTipo      string  `json:"envase_tipo"`
	EnvaseCapacidad float64 `json:"envase_capacidad"`
	EtiquetaSi      bool    `json:"etiqueta_si"`
	LoteReferencia  string  `json:"lote_referencia"`
}

type ManifestResponse struct {
	ID                  uint                 `json:"id"`
	NumeroManifiesto    string               `json:"numero_manifiesto"`
	EsSalida            bool                 `json:"es_salida"`
	State               models.ManifestState `json:"state"`
	GeneradorNombre     string               `json:"generador_nombre"`
	TransportistaNombre string               `json:"transportista_nombre"`
	DestinatarioNombre  string               `json:"destinatario_nombre"`
	CreatedAt           string               `json:"created_at"`
	Residuos            []WasteLineResponse  `json:"residuos,omitempty"`
}

// GET /api/manifests
func ListManifestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Generador").Where("company_id = ?", companyID)
		if num := c.Query("numero"); num != "" {
			query = query.Where("numero_manifiesto = ?", num)
		}

		var manifests []models.Manifest
		if err := query.Order("created_at DESC").Find(&manifests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los manifiestos")
		}

		resp := make([]ManifestResponse, 0, len(manifests))
		for i := range manifests {
			resp = append(resp, manifestToResponse(&manifests[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/manifests/:id
func GetManifestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, companyID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var m models.Manifest
		if err := database.DB.Preload("Generador").Preload("Residuos").
			Where("company_id = ?", companyID).
			First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Manifiesto no encontrado")
		}

		return c.JSON(manifestToResponse(&m, true))
	}
}

func manifestToResponse(m *models.Manifest, withLines bool) ManifestResponse {
	resp := ManifestResponse{
		ID:                  m.ID,
		NumeroManifiesto:    m.NumeroManifiesto,
		EsSalida:            m.EsSalida,
		State:               m.State,
		GeneradorNombre:     m.Generador.Name,
		TransportistaNombre: m.TransportistaNombre,
		DestinatarioNombre:  m.DestinatarioNombre,
		CreatedAt:           m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if !withLines {
		return resp
	}
	for _, r := range m.Residuos {
		cretib := ""
		add := func(on bool, l string) {
			if on {
				if cretib != "" {
					cretib += ","
				}
				cretib += l
			}
		}
		add(r.Corrosivo, "C")
		add(r.Reactivo, "R")
		add(r.Explosivo, "E")
		add(r.Toxico, "T")
		add(r.Inflamable, "I")
		add(r.Biologico, "B")

		resp.Residuos = append(resp.Residuos, WasteLineResponse{
			ID:              r.ID,
			ProductID:       r.ProductID,
			NombreResiduo:   r.NombreResiduo,
			Cantidad:        r.Cantidad,
			CRETIB:          cretib,
			EnvaseTipo:      r.EnvaseTipo,
			EnvaseCapacidad: r.EnvaseCapacidad,
			EtiquetaSi:      r.EtiquetaSi,
			LoteReferencia:  r.LoteReferencia,
		})
	}
	return resp
}
