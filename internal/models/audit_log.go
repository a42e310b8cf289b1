package models

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionConfirm AuditAction = "confirm"
	AuditActionCancel  AuditAction = "cancel"
	AuditActionDelete  AuditAction = "delete"
)

// AuditLog: rastro de operaciones sobre salidas e ingresos. Solo escritura;
// las salidas realizadas son terminales y no se deshacen.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CompanyID *uint `json:"company_id"`

	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalizado

	// ej: "salida_acopio", "ingreso_acopio"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	Description string `gorm:"size:255" json:"description"`

	// Estado anterior y posterior (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
