package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// statusRank orders the forward progression of an order. cancelled is
// handled separately since it can be entered from any non-terminal state.
var statusRank = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

// Payment states. Orders start unpaid; payment confirmation and refunds
// flip the flag without touching the fulfilment status machine.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from s to next.
// Progression is strictly forward; skipping intermediate states is
// allowed. cancelled absorbs any non-terminal state. Terminal states
// accept nothing.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

type Item struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

type Order struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id"`
	Status        Status    `json:"status"`
	Subtotal      int64     `json:"subtotal"`
	DeliveryFee   int64     `json:"delivery_fee"`
	Tax           int64     `json:"tax"`
	Discount      int64     `json:"discount"`
	GrandTotal    int64     `json:"grand_total"`
	Address       string    `json:"address"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	Items         []Item    `json:"items"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateOrderInput struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}
