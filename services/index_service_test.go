package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointIDDeterministic(t *testing.T) {
	a := pointID("The deadline is Friday.", 0)
	b := pointID("The deadline is Friday.", 0)
	assert.Equal(t, a, b, "same text and index must map to the same id")
}

func TestPointIDBatchPerturbation(t *testing.T) {
	base := pointID("duplicate text", 0)

	// Identical texts inside one batch stay distinct via their index.
	assert.Equal(t, base+1, pointID("duplicate text", 1))
	assert.Equal(t, base+7, pointID("duplicate text", 7))
}

func TestPointIDDiffersByText(t *testing.T) {
	assert.NotEqual(t, pointID("alpha", 0), pointID("bravo", 0))
}

func TestMetadataFromMapScalars(t *testing.T) {
	meta := metadataFromMap(map[string]interface{}{
		"source":       "doc.pdf",
		"chunk_index":  2,
		"total_chunks": int64(5),
		"score":        0.25,
		"archived":     false,
	})
	assert.NotNil(t, meta)

	roundTripped := metadataToMap(meta)
	assert.Equal(t, "doc.pdf", roundTripped["source"])
}

func TestMetadataToMapNil(t *testing.T) {
	assert.Empty(t, metadataToMap(nil))
}
