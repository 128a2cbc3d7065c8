// internal/pricelist/pricelist_test.go
package pricelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
shops:
  - Svyaznoy
categories:
  - Smartphones
goods:
  - id: 4216292
    name: Mi Mix 2
    category: Smartphones
    shop: Svyaznoy
    model: mi-mix-2-black
    price: 31990
    quantity: 12
`)

	list, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Svyaznoy"}, list.Shops)
	assert.Equal(t, []string{"Smartphones"}, list.Categories)
	require.Len(t, list.Goods, 1)

	good := list.Goods[0]
	assert.EqualValues(t, 4216292, good.ExternalID)
	assert.Equal(t, "Mi Mix 2", good.Name)
	assert.Equal(t, "mi-mix-2-black", good.Model)
	assert.InDelta(t, 31990, good.Price, 0.001)
	assert.Equal(t, 12, good.Quantity)
}

func TestParseMissingGoods(t *testing.T) {
	_, err := Parse([]byte("shops:\n  - Svyaznoy\n"))
	assert.ErrorIs(t, err, ErrNoGoods)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("{goods: [unterminated"))
	assert.Error(t, err)
}

func TestRenderRoundTrip(t *testing.T) {
	original := &PriceList{
		Shops:      []string{"Svyaznoy"},
		Categories: []string{"Smartphones", "Accessories"},
		Goods: []Good{
			{ExternalID: 1, Name: "Mi Mix 2", Category: "Smartphones", Shop: "Svyaznoy", Model: "black", Price: 31990, Quantity: 12},
			{Name: "Cable", Category: "Accessories", Shop: "Svyaznoy", Model: "1m", Price: 290.50, Quantity: 40},
		},
	}

	data, err := Render(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
