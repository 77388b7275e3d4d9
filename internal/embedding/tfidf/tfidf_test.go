package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_NotPrepared(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestEmbedder_EmptyCorpus(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare(nil))
}

func TestEmbedder_NormalizedVectors(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{
		"python developer with cloud experience",
		"weekly schedule for the warehouse team",
	}))
	assert.Equal(t, "tfidf", e.Name())
	assert.Greater(t, e.Dimension(), 0)

	vec, err := e.Embed(context.Background(), "cloud developer")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedder_UnseenWordsEmbedToZero(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"risk analysis of suppliers"}))

	vec, err := e.Embed(context.Background(), "zebra")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedder_AccentInsensitive(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{
		"Análisis de riesgo de proveedores",
		"Horario semanal del almacén",
	}))

	plain, err := e.Embed(context.Background(), "analisis")
	require.NoError(t, err)
	accented, err := e.Embed(context.Background(), "ANÁLISIS")
	require.NoError(t, err)

	assert.Equal(t, accented, plain)
	nonZero := false
	for _, v := range plain {
		nonZero = nonZero || v != 0
	}
	assert.True(t, nonZero)
}

func TestEmbedder_StopwordOnlyCorpus(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare([]string{"the and of", "el de la"}))
	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
}

func TestEmbedder_PrepareReplacesVocabulary(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"alpha beta gamma"}))
	require.Equal(t, 3, e.Dimension())
	require.NoError(t, e.Prepare([]string{"delta"}))
	assert.Equal(t, 1, e.Dimension())
}
