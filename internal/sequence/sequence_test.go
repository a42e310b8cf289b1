package sequence_test

import (
	"testing"
	"time"

	"acopio-backend/internal/sequence"
	"acopio-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextReferenceFormat(t *testing.T) {
	db := testdb.Open(t)

	date := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	ref, err := sequence.NextReference(db, sequence.CodeSalidaAcopio, date)
	require.NoError(t, err)
	assert.Equal(t, "SAL-20250901-001", ref)
}

func TestNextReferenceIncrementsWithinDate(t *testing.T) {
	db := testdb.Open(t)

	date := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	first, err := sequence.NextReference(db, sequence.CodeSalidaAcopio, date)
	require.NoError(t, err)
	second, err := sequence.NextReference(db, sequence.CodeSalidaAcopio, date)
	require.NoError(t, err)

	assert.Equal(t, "SAL-20250901-001", first)
	assert.Equal(t, "SAL-20250901-002", second)
}

func TestNextReferenceRestartsPerDate(t *testing.T) {
	db := testdb.Open(t)

	day1 := time.Date(2025, 9, 1, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 9, 2, 1, 0, 0, 0, time.UTC)

	ref1, err := sequence.NextReference(db, sequence.CodeSalidaAcopio, day1)
	require.NoError(t, err)
	ref2, err := sequence.NextReference(db, sequence.CodeSalidaAcopio, day2)
	require.NoError(t, err)

	assert.Equal(t, "SAL-20250901-001", ref1)
	assert.Equal(t, "SAL-20250902-001", ref2)
}

func TestLocalDateUsesCompanyTimezone(t *testing.T) {
	// 02:00 UTC del 2 de septiembre todavía es 1 de septiembre en CDMX
	utc := time.Date(2025, 9, 2, 2, 0, 0, 0, time.UTC)

	local := sequence.LocalDate(utc, "America/Mexico_City")
	assert.Equal(t, "20250901", local.Format("20060102"))

	// Zona desconocida cae a UTC en lugar de fallar
	fallback := sequence.LocalDate(utc, "No/Existe")
	assert.Equal(t, "20250902", fallback.Format("20060102"))
}
