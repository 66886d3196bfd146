package memory

import "github.com/fekuna/frameshop-storefront/internal/catalog"

// Category identifiers of the demo catalog.
const (
	CategoryModernID     = "6f1c2a9e-3b1d-4c53-9a52-0d7c1e0a0001"
	CategoryRusticID     = "6f1c2a9e-3b1d-4c53-9a52-0d7c1e0a0002"
	CategoryAbstractID   = "6f1c2a9e-3b1d-4c53-9a52-0d7c1e0a0003"
	CategoryMinimalistID = "6f1c2a9e-3b1d-4c53-9a52-0d7c1e0a0004"
)

func FixtureCategories() []catalog.Row {
	return []catalog.Row{
		{"id": CategoryModernID, "name": "Modern", "slug": "modern", "description": "Clean lines and contemporary finishes", "display_order": 1, "created_at": "2024-01-01T00:00:00Z"},
		{"id": CategoryRusticID, "name": "Rustic", "slug": "rustic", "description": "Reclaimed wood and natural textures", "display_order": 2, "created_at": "2024-01-01T00:00:00Z"},
		{"id": CategoryAbstractID, "name": "Abstract", "slug": "abstract", "description": "Bold colour and expressive shapes", "display_order": 3, "created_at": "2024-01-01T00:00:00Z"},
		{"id": CategoryMinimalistID, "name": "Minimalist", "slug": "minimalist", "description": "Less, but better", "display_order": 4, "created_at": "2024-01-01T00:00:00Z"},
	}
}

func FixtureProducts() []catalog.Row {
	return []catalog.Row{
		product("a3e5c7d1-0000-4000-8000-000000000001", "Modern Geometric Frame", "89.99", CategoryModernID, "Metal", "Medium (16x20)", 45, true, "2024-03-08T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000002", "Rustic Botanical Print", "69.99", CategoryRusticID, "Wood", "Small (8x10)", 32, false, "2024-03-07T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000003", "Abstract Contemporary Art", "129.99", CategoryAbstractID, "Canvas", "Large (24x36)", 18, true, "2024-03-06T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000004", "Minimalist Line Art", "79.99", CategoryMinimalistID, "Acrylic", "Small (8x10)", 56, false, "2024-03-05T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000005", "Modern Gold Frame", "99.99", CategoryModernID, "Metal", "Large (24x36)", 24, false, "2024-03-04T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000006", "Rustic Wood Frame", "59.99", CategoryRusticID, "Wood", "Medium (16x20)", 40, false, "2024-03-03T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000007", "Abstract Watercolor", "149.99", CategoryAbstractID, "Canvas", "Extra Large (30x40)", 12, true, "2024-03-02T10:00:00Z"),
		product("a3e5c7d1-0000-4000-8000-000000000008", "Minimalist Black Frame", "89.99", CategoryMinimalistID, "Wood", "Medium (16x20)", 60, false, "2024-03-01T10:00:00Z"),
	}
}

func product(id, name, price, categoryID, material, dimensions string, stock int, featured bool, createdAt string) catalog.Row {
	return catalog.Row{
		"id":          id,
		"name":        name,
		"description": name + " in " + material + ", " + dimensions + ".",
		"price":       price,
		"category_id": categoryID,
		"material":    material,
		"dimensions":  dimensions,
		"stock":       stock,
		"image_url":   "https://images.frameshop.local/products/" + id + ".jpg",
		"is_active":   true,
		"is_featured": featured,
		"created_at":  createdAt,
		"updated_at":  createdAt,
	}
}
