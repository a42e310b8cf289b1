package models

import "time"

// Sequence: contador por (código, fecha local). El folio de salida reinicia
// cada día según la zona horaria de la compañía.
type Sequence struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"size:50;not null;uniqueIndex:idx_seq_code_date"`
	DateKey    string `gorm:"size:8;not null;uniqueIndex:idx_seq_code_date"` // YYYYMMDD
	NextNumber int    `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
