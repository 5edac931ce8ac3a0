package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]Format{"": YAML, "YAML": YAML, " json ": JSON, "table": Table} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := Parse("xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestMarshal(t *testing.T) {
	doc := map[string]any{"people": []map[string]any{{"name": "Rachel"}}}

	y, err := YAML.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(y), "people:")
	assert.Contains(t, string(y), "name: Rachel")

	j, err := JSON.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(j), `"people"`)
	assert.Contains(t, string(j), `"Rachel"`)

	for _, data := range [][]byte{y, j} {
		var back map[string][]map[string]string
		require.NoError(t, Unmarshal(data, &back))
		assert.Equal(t, "Rachel", back["people"][0]["name"])
	}
}
