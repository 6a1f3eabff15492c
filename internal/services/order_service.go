package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"flipsip/internal/models"
	"flipsip/internal/repositories"
	"flipsip/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes a message body to an exchange. *rabbitmq.Client
// satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderPlacedEvent is the message published after an order is stored.
type OrderPlacedEvent struct {
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Size      models.Size        `json:"size"`
	Quantity  int                `json:"quantity"`
	Status    models.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo      repositories.OrderRepository
	users          *UserService
	events         EventPublisher // may be nil
	validate       *validator.Validate
	defaultCountry string
}

// NewOrderService creates a new OrderService. events may be nil, in which
// case no order events are published.
func NewOrderService(orderRepo repositories.OrderRepository, users *UserService, events EventPublisher, defaultCountry string) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		users:          users,
		events:         events,
		validate:       newValidator(),
		defaultCountry: defaultCountry,
	}
}

// ListOrders returns the caller's orders, newest first. The slice is never
// nil, even when an error is returned.
func (s *OrderService) ListOrders(ctx context.Context, principal models.Principal) ([]models.Order, error) {
	user, err := s.users.Resolve(ctx, principal)
	if err != nil {
		return []models.Order{}, err
	}

	orders, err := s.orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return []models.Order{}, err
	}
	return orders, nil
}

// CreateOrder validates fields and stores a new PLACED order for the caller.
// Nothing is stored when validation fails. Duplicate submissions create
// duplicate orders.
func (s *OrderService) CreateOrder(ctx context.Context, principal models.Principal, fields models.OrderFields) (*models.Order, error) {
	user, err := s.users.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if err := validateOrderFields(s.validate, fields); err != nil {
		log.Printf("Rejected order from user %s: %v", user.ID, err)
		return nil, err
	}
	if fields.Country == "" {
		fields.Country = s.defaultCountry
	}

	order := fields.ToOrder(user.ID)
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	log.Printf("Order %s placed by user %s (%d x %s)", order.ID, user.ID, order.Quantity, order.Size)

	s.publishPlaced(order)
	return order, nil
}

// UpdateStatus sets an order's status. Any known status is accepted from any
// other; reason is stored as given and cleared when empty.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, reason string) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var failureReason *string
	if reason != "" {
		failureReason = &reason
	}
	order, err := s.orderRepo.UpdateStatus(ctx, id, status, failureReason)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return order, nil
}

// publishPlaced is best effort: the order is already stored, so a broker
// failure is logged and otherwise ignored.
func (s *OrderService) publishPlaced(order *models.Order) {
	if s.events == nil {
		return
	}

	body, err := json.Marshal(OrderPlacedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Size:      order.Size,
		Quantity:  order.Quantity,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	})
	if err != nil {
		log.Printf("Failed to marshal order event for order %s: %v", order.ID, err)
		return
	}
	if err := s.events.Publish(rabbitmq.OrderExchange, rabbitmq.RoutingOrderPlaced, body); err != nil {
		log.Printf("Warning: Failed to publish order placed event for order %s: %v", order.ID, err)
	}
}
