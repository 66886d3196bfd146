package cart

import "context"

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// View is a cart together with its pricing.
type View struct {
	*Cart
	Count   int     `json:"count"`
	Summary Summary `json:"summary"`
}

func NewView(c *Cart) View {
	return View{Cart: c, Count: c.Count(), Summary: c.Summary()}
}

type UseCase interface {
	GetCart(ctx context.Context, id string) (View, error)
	AddItem(ctx context.Context, id string, input AddItemInput) (View, error)
	UpdateQuantity(ctx context.Context, id, productID, size string, change int) (View, error)
	RemoveItem(ctx context.Context, id, productID, size string) (View, error)
	Clear(ctx context.Context, id string) error
}
