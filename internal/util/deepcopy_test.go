package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepCopy_Independence(t *testing.T) {
	original := map[string]any{
		"name": "alpha",
		"tags": []any{"a", "b"},
		"meta": map[string]any{"level": 1.0},
	}

	cp := DeepCopy(original).(map[string]any)
	cp["name"] = "mutated"
	cp["tags"].([]any)[0] = "z"
	cp["meta"].(map[string]any)["level"] = 9.0

	assert.Equal(t, "alpha", original["name"])
	assert.Equal(t, "a", original["tags"].([]any)[0])
	assert.Equal(t, 1.0, original["meta"].(map[string]any)["level"])
}

func TestDeepCopy_Scalars(t *testing.T) {
	assert.Equal(t, 42.0, DeepCopy(42.0))
	assert.Equal(t, "x", DeepCopy("x"))
	assert.Nil(t, DeepCopy(nil))
}
