package environment

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderJSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, devProfile(t).Record, FormatJSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, false, doc["production"])
	assert.Equal(t, "http://127.0.0.1:5000/", doc["apiServerUrl"])

	auth0, ok := doc["auth0"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"url", "audience", "clientId", "callbackURL"}, keys(auth0))
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, devProfile(t).Record, FormatYAML))

	var got Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, devProfile(t).Record, got)
}

func TestRenderTypeScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, devProfile(t).Record, FormatTypeScript))

	out := buf.String()
	assert.Contains(t, out, "export const environment = {")
	assert.Contains(t, out, "production: false,")
	assert.Contains(t, out, "apiServerUrl: 'http://127.0.0.1:5000/',")
	assert.Contains(t, out, "clientId: 'hVI8A7rQYAZieT6vUS0pBFp0Mfv0iCmE',")
}

func TestRenderUnknownFormat(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, Record{}, Format("xml")))
}

func TestQuoteTS(t *testing.T) {
	assert.Equal(t, `'plain'`, quoteTS("plain"))
	assert.Equal(t, `'it\'s'`, quoteTS("it's"))
	assert.Equal(t, `'say "hi"'`, quoteTS(`say "hi"`))
	assert.Equal(t, `'back\\slash'`, quoteTS(`back\slash`))
	assert.Equal(t, `'line\nbreak'`, quoteTS("line\nbreak"))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
