package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flipsip/internal/models"

	"github.com/gofiber/fiber/v2"
)

// APIError is a non-2xx answer from the storefront API.
type APIError struct {
	Status  int
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the storefront API on behalf of one signed-in customer. It
// implements OrderCreator, LinkGenerator and PhoneUpdater.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// NewClient creates a Client. Every call is bounded by timeout, or by the
// context deadline when that is sooner.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
	}
}

// CurrentUser returns the signed-in user, or nil without a valid session.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/api/user", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListOrders returns the signed-in user's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/api/order", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// CreateOrder stores an order.
func (c *Client) CreateOrder(ctx context.Context, fields models.OrderFields) (*models.Order, error) {
	var out struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, fiber.MethodPost, "/api/order", fields, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, fmt.Errorf("create order: response has no order")
	}
	return out.Order, nil
}

// GenerateLinks requests the administrator deep links for fields.
func (c *Client) GenerateLinks(ctx context.Context, fields models.OrderFields) ([]string, error) {
	var out struct {
		Links []string `json:"links"`
	}
	if err := c.do(ctx, fiber.MethodPost, "/api/send-whatsapp-order", fields, &out); err != nil {
		return nil, err
	}
	return out.Links, nil
}

// UpdatePhone stores phone for the user with email.
func (c *Client) UpdatePhone(ctx context.Context, email, phone string) error {
	body := map[string]string{"email": email, "phone": phone}
	return c.do(ctx, fiber.MethodPost, "/api/update-user-phone", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return ctx.Err()
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	var a *fiber.Agent
	switch method {
	case fiber.MethodGet:
		a = fiber.Get(c.baseURL + path)
	case fiber.MethodPost:
		a = fiber.Post(c.baseURL + path)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		a.JSON(body)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}

	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errs[0])
	}

	if code < 200 || code >= 300 {
		var envelope struct {
			Error  string   `json:"error"`
			Fields []string `json:"fields"`
		}
		_ = json.Unmarshal(respBody, &envelope)
		return &APIError{Status: code, Message: envelope.Error, Fields: envelope.Fields}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}
	return nil
}
