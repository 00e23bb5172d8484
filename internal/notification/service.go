package notification

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gerai-be/internal/logger"
	"gerai-be/internal/order"
	"gerai-be/internal/user"
)

// Result summarizes a fan-out to the notifiable admins.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type Service interface {
	OrderCreated(ctx context.Context, orderNumber string) (*Result, error)
}

type service struct {
	orders  order.Repository
	users   user.Repository
	gateway Gateway
}

func NewService(orders order.Repository, users user.Repository, gateway Gateway) Service {
	return &service{orders: orders, users: users, gateway: gateway}
}

func orderMessage(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pesanan baru %s\n", o.OrderNumber)
	if o.CustomerEmail != "" {
		fmt.Fprintf(&b, "Pembeli: %s\n", o.CustomerEmail)
	}
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s x%d\n", item.ProductName, item.Quantity)
	}
	fmt.Fprintf(&b, "Total: Rp%d", o.GrandTotal)
	return b.String()
}

// OrderCreated looks the order up and messages every admin who opted
// into WhatsApp notifications. Per-recipient failures are logged and
// counted, never fatal: one unreachable phone must not block the rest.
func (s *service) OrderCreated(ctx context.Context, orderNumber string) (*Result, error) {
	o, err := s.orders.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	phones, err := s.users.AdminWhatsAppPhones(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "OrderCreated"),
		zap.String("orderNumber", orderNumber),
	)

	if len(phones) == 0 {
		log.Info("no admins opted into whatsapp notifications")
		return &Result{}, nil
	}

	message := orderMessage(o)
	result := &Result{}
	for _, phone := range phones {
		if err := s.gateway.SendMessage(ctx, phone, message); err != nil {
			result.Failed++
			log.Error("notification delivery failed",
				zap.String("phone", phone),
				zap.Error(err),
			)
			continue
		}
		result.Sent++
	}

	log.Info("order notification fan-out done",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
