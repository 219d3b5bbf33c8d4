package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

func TestSwaggerDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	assert.Equal(t, "Salehub Webhook API", parsed.Info["title"])
	assert.Contains(t, parsed.Paths["/webhook/{gateway}"], "post")
	assert.Contains(t, parsed.Paths["/webhook/{gateway}/{secret}"], "post")
	assert.Contains(t, parsed.Paths["/api/v1/gateways"], "get")
}
