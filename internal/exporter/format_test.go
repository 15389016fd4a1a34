package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "62.5%", formatPercent(62.5))
	assert.Equal(t, "100.0%", formatPercent(100))
	assert.Equal(t, "33.3%", formatRate(1, 3))
	assert.Equal(t, "0%", formatRate(3, 0))
	assert.Equal(t, "67%", formatRoundedRate(2, 3))
	assert.Equal(t, "0%", formatRoundedRate(0, 0))
	assert.Equal(t, "29/02/2024", formatSessionDate("2024-02-29"))
	assert.Equal(t, "not-a-date", formatSessionDate("not-a-date"))
	assert.Equal(t, "Sí", formatPresent(true))
	assert.Equal(t, "No Aprobado", formatEstado(false))
}
