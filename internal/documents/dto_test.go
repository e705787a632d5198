package documents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	cases := map[string]float64{
		`19.5`:     19.5,
		`"19.5"`:   19.5,
		`"19,5"`:   19.5,
		`""`:       0,
		`null`:     0,
		`"drei"`:   0,
		`"1.299"`:  1.299,
		`0`:        0,
		`"  42 "`:  42,
	}
	for raw, want := range cases {
		var f FlexFloat
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.Equal(t, want, float64(f), raw)
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	var req CreateDocumentRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"kind": "OFFER",
		"profile_id": 1,
		"customer_id": 7,
		"tax_rate": "19",
		"positions": [
			{"kind": "item", "description": "Beratung", "quantity": "2", "unit_price": "100,00"}
		],
		"discount": {"enabled": true, "value": "-5"}
	}`), &req))

	positions := req.positions()
	require.Len(t, positions, 1)
	assert.Equal(t, 2.0, positions[0].Quantity)
	assert.Equal(t, 100.0, positions[0].UnitPrice)
	assert.Equal(t, 1, positions[0].LineOrder)

	d := req.discount()
	assert.True(t, d.Enabled)
	assert.Equal(t, "percent", d.Kind, "discount kind defaults to percent")
	assert.Equal(t, "net", d.Base, "discount base defaults to net")
	assert.Equal(t, 0.0, d.Value, "negative values are clamped")
}
