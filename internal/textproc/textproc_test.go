package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Análisis", "analisis"},
		{"CAMIÓN", "camion"},
		{"niño", "nino"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestTokenize_KeepsOrderAndApostrophes(t *testing.T) {
	assert.Equal(t, []string{"the", "team's", "informacion"},
		Tokenize("The team's Información, 2024"))
}

func TestTerms_DropsStopwordsInBothLanguages(t *testing.T) {
	assert.Equal(t, []string{"analisis", "riesgo", "supplier", "risk"},
		Terms("El análisis de riesgo and the supplier risk, más"))
}

func TestIsStopword_FoldedForm(t *testing.T) {
	assert.True(t, IsStopword("tambien"))
	assert.False(t, IsStopword("también"))
}
