package cart

// Pricing holds the delivery pricing knobs, in minor currency units.
type Pricing struct {
	DeliveryFee           int64
	FreeDeliveryThreshold int64
}

// FeeFor returns the delivery fee owed for a given subtotal. The fee
// is waived exactly when subtotal >= threshold.
func (p Pricing) FeeFor(subtotal int64) int64 {
	if subtotal < p.FreeDeliveryThreshold {
		return p.DeliveryFee
	}
	return 0
}

// Totals is the derived view over a set of cart items.
type Totals struct {
	ItemCount   int   `json:"item_count"`
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	GrandTotal  int64 `json:"grand_total"`
}

// ComputeTotals derives count, subtotal and fees from joined cart rows.
func ComputeTotals(items []Item, pricing Pricing) Totals {
	var t Totals
	for _, item := range items {
		t.ItemCount += item.Quantity
		t.Subtotal += item.Product.Price * int64(item.Quantity)
	}
	t.DeliveryFee = pricing.FeeFor(t.Subtotal)
	t.GrandTotal = t.Subtotal + t.DeliveryFee
	return t
}
