package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "ana diaz", "ana diaz"},
		{"mixed case", "Ana DIAZ", "ana diaz"},
		{"surrounding whitespace", "  Ana Diaz\t", "ana diaz"},
		{"inner whitespace runs", "maría   gonzález ", "maría gonzález"},
		{"accented uppercase", "MARÍA GONZÁLEZ", "maría gonzález"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeMatchesSameIdentity(t *testing.T) {
	assert.Equal(t, Normalize("María González"), Normalize("maría   gonzález "))
	assert.NotEqual(t, Normalize("María González"), Normalize("Maria Gonzalez"))
}
