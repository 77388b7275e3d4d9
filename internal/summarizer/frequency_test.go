package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencySummarizer_KeepsTopSentencesInOrder(t *testing.T) {
	text := "Risk management covers supplier risk. The cafeteria opens at noon. " +
		"Supplier risk is reviewed monthly by the risk team."

	out, err := NewFrequencySummarizer().Summarize(text, 2)

	require.NoError(t, err)
	assert.Equal(t, "Risk management covers supplier risk. Supplier risk is reviewed monthly by the risk team.", out)
}

func TestFrequencySummarizer_NoPunctuation(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("  Name:\n  Jane   Doe  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "Name: Jane Doe", out)
}

func TestFrequencySummarizer_FewerSentencesThanLimit(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("Only one sentence here.", 5)
	require.NoError(t, err)
	assert.Equal(t, "Only one sentence here.", out)
}

func TestFrequencySummarizer_StopwordOnlySentence(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("The and of. Go.", 1)
	require.NoError(t, err)
	assert.Equal(t, "Go.", out)
}

func TestFrequencySummarizer_AccentVariantsCountTogether(t *testing.T) {
	text := "El análisis cubre proveedores. La cafetería abre temprano. " +
		"Cada analisis revisa proveedores y contratos."

	out, err := NewFrequencySummarizer().Summarize(text, 2)

	require.NoError(t, err)
	assert.Equal(t, "El análisis cubre proveedores. Cada analisis revisa proveedores y contratos.", out)
}
