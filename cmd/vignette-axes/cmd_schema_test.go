package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCommand(t *testing.T) {
	tests := []struct {
		target   string
		wantProp string
	}{
		{target: "result", wantProp: "labelSource"},
		{target: "request", wantProp: "preferredAttributes"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			out, err := runCommand(t, "schema", tt.target)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &doc))
			props, ok := doc["properties"].(map[string]any)
			require.True(t, ok, "schema has inline properties")
			assert.Contains(t, props, tt.wantProp)
			assert.Equal(t, false, doc["additionalProperties"])
		})
	}

	_, err := runCommand(t, "schema", "verdict")
	assert.Error(t, err)
}
