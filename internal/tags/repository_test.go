package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "modern", Normalize("Modern"))
	assert.Equal(t, "modern", Normalize("  MODERN  "))
	assert.Equal(t, "modern art", Normalize("Modern Art"))
	assert.Equal(t, "", Normalize("   "))
}
