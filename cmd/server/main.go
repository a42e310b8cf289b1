package main

import (
	"log"
	"strings"

	"acopio-backend/internal/admin"
	"acopio-backend/internal/audit"
	"acopio-backend/internal/auth"
	"acopio-backend/internal/catalog"
	"acopio-backend/internal/config"
	"acopio-backend/internal/database"
	"acopio-backend/internal/disposal"
	"acopio-backend/internal/manifest"
	"acopio-backend/internal/models"
	"acopio-backend/internal/partner"
	"acopio-backend/internal/report"
	"acopio-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protegidas
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Rutas de administrador
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Perfil de empresa y usuarios
	adminRoutes.Get("/company", admin.GetCompanyHandler())
	adminRoutes.Put("/company", admin.UpdateCompanyHandler())
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())

	// Catálogo de productos (residuos)
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Ubicaciones y tipos de operación
	adminRoutes.Post("/locations", stock.CreateLocationHandler())
	adminRoutes.Post("/transfer-types", stock.CreateTransferTypeHandler())

	// Rutas comunes (autenticadas)

	// Catálogo
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/lots", catalog.ListLotsHandler())

	// Contactos (transportistas, destinatarios, generadores)
	protected.Post("/partners", partner.CreatePartnerHandler())
	protected.Get("/partners", partner.ListPartnersHandler())
	protected.Get("/partners/:id", partner.GetPartnerHandler())
	protected.Put("/partners/:id", partner.UpdatePartnerHandler())
	protected.Delete("/partners/:id", partner.DeletePartnerHandler())

	// Entradas al acopio y existencias
	protected.Post("/intakes", stock.CreateIntakeHandler())
	protected.Get("/intakes", stock.ListIntakesHandler())
	protected.Get("/stock/on-hand", stock.OnHandHandler())
	protected.Get("/stock/available-lots", stock.AvailableLotsHandler())
	protected.Get("/locations", stock.ListLocationsHandler())
	protected.Get("/transfer-types", stock.ListTransferTypesHandler())

	// Transferencias generadas por las salidas
	protected.Get("/transfers", stock.ListTransfersHandler())
	protected.Get("/transfers/:id", stock.GetTransferHandler())

	// Salidas de acopio
	protected.Post("/disposals", disposal.CreateDisposalHandler())
	protected.Get("/disposals", disposal.ListDisposalsHandler())
	protected.Get("/disposals/:id", disposal.GetDisposalHandler())
	protected.Put("/disposals/:id", disposal.UpdateDisposalHandler())
	protected.Post("/disposals/:id/lines", disposal.AddLineHandler())
	protected.Delete("/disposals/:id/lines/:lineID", disposal.DeleteLineHandler())
	protected.Post("/disposals/:id/confirm", disposal.ConfirmDisposalHandler())
	protected.Post("/disposals/:id/cancel", disposal.CancelDisposalHandler())

	// Asistente de salida (crear y confirmar en un paso)
	protected.Post("/disposal-wizard/confirm", disposal.WizardConfirmHandler())
	protected.Get("/disposal-wizard/default-carrier", disposal.DefaultCarrierHandler())

	// Manifiestos de entrega
	protected.Get("/manifests", manifest.ListManifestsHandler())
	protected.Get("/manifests/:id", manifest.GetManifestHandler())

	// Reportes
	protected.Get("/reports/disposals.xlsx", report.ExportDisposalsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Servidor escuchando en el puerto", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
