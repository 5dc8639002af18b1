package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galereya/backend/internal/models"
)

func TestClampPosition(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		count     int
		want      int
	}{
		{"negative goes to front", -3, 5, 0},
		{"zero stays", 0, 5, 0},
		{"middle stays", 2, 5, 2},
		{"end stays", 5, 5, 5},
		{"past end clamps to end", 9, 5, 5},
		{"empty list", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPosition(tt.requested, tt.count))
		})
	}
}

func TestEditableStatuses(t *testing.T) {
	assert.True(t, editable(models.ExhibitionDraft))
	assert.True(t, editable(models.ExhibitionPublished))
	assert.False(t, editable(models.ExhibitionOnMoReview))
	assert.False(t, editable(models.ExhibitionAwaitingReview))
	assert.False(t, editable(models.ExhibitionNeedsRevision))
}

func TestBlockTypeValidation(t *testing.T) {
	for _, bt := range []models.BlockType{
		models.BlockHeader, models.BlockText, models.BlockQuote,
		models.BlockImages2, models.BlockImages3, models.BlockImages4,
		models.BlockCarousel,
	} {
		assert.True(t, bt.Valid(), string(bt))
	}
	assert.False(t, models.BlockType("VIDEO").Valid())
	assert.False(t, models.BlockType("header").Valid())
	assert.False(t, models.BlockType("").Valid())
}
