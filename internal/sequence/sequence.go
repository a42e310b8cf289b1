package sequence

import (
	"fmt"
	"time"

	"acopio-backend/internal/models"

	"gorm.io/gorm"
)

// CodeSalidaAcopio: secuencia de folios de salida, una serie por fecha local.
const CodeSalidaAcopio = "salida.acopio"

// LocalDate convierte un instante a la fecha calendario de la zona horaria
// dada. El folio usa la fecha local del evento, no la fecha UTC del servidor,
// para evitar desfases al cruzar medianoche.
func LocalDate(t time.Time, tzName string) time.Time {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc)
}

// NextReference entrega el siguiente folio para code en la fecha local dada,
// con formato SAL-YYYYMMDD-NNN. Debe llamarse dentro de la transacción que
// crea el registro.
func NextReference(tx *gorm.DB, code string, localDate time.Time) (string, error) {
	dateKey := localDate.Format("20060102")

	var seq models.Sequence
	err := tx.Where(models.Sequence{Code: code, DateKey: dateKey}).
		FirstOrCreate(&seq).Error
	if err != nil {
		return "", fmt.Errorf("no se pudo obtener la secuencia %s: %w", code, err)
	}
	if seq.NextNumber == 0 {
		seq.NextNumber = 1
	}

	number := seq.NextNumber
	if err := tx.Model(&seq).Update("next_number", number+1).Error; err != nil {
		return "", fmt.Errorf("no se pudo avanzar la secuencia %s: %w", code, err)
	}

	return fmt.Sprintf("SAL-%s-%03d", dateKey, number), nil
}
