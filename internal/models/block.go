package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BlockType identifies the layout of a content block.
type BlockType string

const (
	BlockHeader           BlockType = "HEADER"
	BlockText             BlockType = "TEXT"
	BlockQuote            BlockType = "QUOTE"
	BlockImageTextRight   BlockType = "IMAGE_TEXT_RIGHT"
	BlockImageTextLeft    BlockType = "IMAGE_TEXT_LEFT"
	BlockLayoutImgTextImg BlockType = "LAYOUT_IMG_TEXT_IMG"
	BlockLayoutTextImgTxt BlockType = "LAYOUT_TEXT_IMG_TEXT"
	BlockImages2          BlockType = "IMAGES_2"
	BlockImages3          BlockType = "IMAGES_3"
	BlockImages4          BlockType = "IMAGES_4"
	BlockCarousel         BlockType = "CAROUSEL"
)

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockHeader, BlockText, BlockQuote, BlockImageTextRight, BlockImageTextLeft,
		BlockLayoutImgTextImg, BlockLayoutTextImgTxt, BlockImages2, BlockImages3,
		BlockImages4, BlockCarousel:
		return true
	}
	return false
}

// Block is an ordered content section within an exhibition.
type Block struct {
	ID           uuid.UUID       `json:"id"`
	ExhibitionID uuid.UUID       `json:"exhibition_id"`
	Type         BlockType       `json:"type"`
	Content      *string         `json:"content,omitempty"`
	Settings     json.RawMessage `json:"settings"`
	Position     int             `json:"position"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BlockItem is an image (with optional caption) inside a multi-image block.
type BlockItem struct {
	ID        uuid.UUID `json:"id"`
	BlockID   uuid.UUID `json:"block_id"`
	ImageKey  string    `json:"image_key"`
	Text      *string   `json:"text,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockDetail is a block with its ordered items.
type BlockDetail struct {
	Block
	Items []BlockItem `json:"items"`
}
