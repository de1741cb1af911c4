package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{
		ProductID: 1,
		Product:   Product{ID: 1, Price: decimal.RequireFromString("19.99")},
		Quantity:  3,
	}
	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("59.97")))
}

func TestLinesStripsProductSnapshot(t *testing.T) {
	items := []CartItem{
		{ProductID: 7, Product: Product{ID: 7, Title: "Lamp"}, Quantity: 2},
		{ProductID: 3, Product: Product{ID: 3, Title: "Desk"}, Quantity: 1},
	}

	lines := Lines(items)
	assert.Equal(t, []OrderLine{{ID: 7, Quantity: 2}, {ID: 3, Quantity: 1}}, lines)

	data, err := json.Marshal(OrderRequest{Phone: "79991234567", Cart: lines})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone":"79991234567","cart":[{"id":7,"quantity":2},{"id":3,"quantity":1}]}`, string(data))
}

func TestLinesEmpty(t *testing.T) {
	lines := Lines(nil)
	require.NotNil(t, lines)
	assert.Empty(t, lines)
}

// Carts written by the browser build stored prices as JSON numbers.
func TestCartItemDecodesNumericPrice(t *testing.T) {
	raw := `[{"productId":5,"product":{"id":5,"image_url":"https://img/5.png","title":"Mug","description":"Blue","price":350},"quantity":2}]`

	var items []CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ProductID)
	assert.Equal(t, "https://img/5.png", items[0].Product.ImageURL)
	assert.True(t, items[0].Product.Price.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, 2, items[0].Quantity)
}
