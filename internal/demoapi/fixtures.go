package demoapi

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/types"
)

var productNames = []string{
	"Ceramic Mug", "Linen Apron", "Oak Cutting Board", "Copper Kettle", "Glass Teapot",
	"Cast Iron Skillet", "Bamboo Whisk", "Wool Blanket", "Brass Lamp", "Jute Rug",
}

// FixtureCatalog builds n deterministic products with ids 1..n.
func FixtureCatalog(n int) []types.Product {
	out := make([]types.Product, 0, n)
	for i := 1; i <= n; i++ {
		name := productNames[(i-1)%len(productNames)]
		out = append(out, types.Product{
			ID:          int64(i),
			Title:       fmt.Sprintf("%s #%d", name, i),
			Description: fmt.Sprintf("Hand-made %s from the %d batch.", name, 2020+i%5),
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%d/400/300", i),
			Price:       decimal.NewFromInt(int64(150 + (i*137)%4850)),
		})
	}
	return out
}

// FixtureReviews returns a few reviews with HTML markup like the real
// backend serves.
func FixtureReviews() []types.Review {
	return []types.Review{
		{ID: 1, Text: "<h3>Great kettle</h3><p>Boils <strong>fast</strong> and looks lovely on the stove.</p>"},
		{ID: 2, Text: "<p>Delivery took a week, but the rug is <em>exactly</em> as pictured.</p><ul><li>soft</li><li>thick</li></ul>"},
		{ID: 3, Text: `<p>Would buy again. <a href="https://example.com/lamp">Photos here</a></p><script>alert(1)</script>`},
	}
}
