package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"flipsip/internal/app"
	"flipsip/internal/config"
	"flipsip/internal/database/databasetest"
	"flipsip/internal/models"
	"flipsip/internal/services"
	"flipsip/internal/whatsapp"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminSecret    = "admin-secret"
	callbackSecret = "callback-secret"
)

// testApp is a fully wired application on a private in-memory SQLite database.
type testApp struct {
	app  *fiber.App
	auth *services.AuthService
}

func setupApp(t *testing.T, adminNumbers ...string) *testApp {
	t.Helper()

	cfg := &config.Config{
		RequestTimeout: 5 * time.Second,
		DefaultCountry: "India",
		Auth: config.AuthConfig{
			JWTSecret:              "test_jwt_secret",
			TokenDuration:          time.Hour,
			AdminSecretHash:        hashSecret(t, adminSecret),
			AuthCallbackSecretHash: hashSecret(t, callbackSecret),
		},
		WhatsApp: whatsapp.Config{AdminNumbers: adminNumbers},
	}
	application, auth := app.New(cfg, databasetest.Open(t), nil)
	return &testApp{app: application, auth: auth}
}

func hashSecret(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// signIn creates the user on first call and returns a session token.
func (a *testApp) signIn(t *testing.T, email, name string) string {
	t.Helper()
	token, _, err := a.auth.SignIn(context.Background(), services.Profile{Email: email, Name: name})
	require.NoError(t, err)
	return token
}

// do sends a request and decodes the JSON response body into a map.
func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func orderBody() map[string]interface{} {
	return map[string]interface{}{
		"fullName":    "Asha Rao",
		"email":       "asha@example.com",
		"phone":       "9876543210",
		"address1":    "12 MG Road",
		"address2":    "Indiranagar",
		"city":        "Bengaluru",
		"state":       "Karnataka",
		"pincode":     "560001",
		"size":        "750ml",
		"quantity":    "3",
		"giftMessage": "Happy birthday!",
		"promoCode":   "SIP10",
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestOrders_RequireSession(t *testing.T) {
	a := setupApp(t, "919000000001")

	status, body := a.do(t, http.MethodGet, "/api/order", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, []interface{}{}, body["orders"])

	status, body = a.do(t, http.MethodGet, "/api/order", nil, bearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, []interface{}{}, body["orders"])

	status, body = a.do(t, http.MethodPost, "/api/order", orderBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authenticated", body["error"])
}

func TestOrders_CreateAndList(t *testing.T) {
	a := setupApp(t, "919000000001")
	token := a.signIn(t, "asha@example.com", "Asha Rao")

	status, body := a.do(t, http.MethodGet, "/api/order", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, body["orders"])

	status, body = a.do(t, http.MethodPost, "/api/order", orderBody(), bearer(token))
	require.Equal(t, http.StatusCreated, status)
	order := body["order"].(map[string]interface{})
	assert.NotEmpty(t, order["id"])
	assert.Equal(t, float64(3), order["quantity"])
	assert.Equal(t, "750ml", order["size"])
	assert.Equal(t, "India", order["country"])
	assert.Equal(t, "PLACED", order["status"])
	assert.Equal(t, "Happy birthday!", order["giftMessage"])
	assert.Nil(t, order["landmark"])
	assert.NotContains(t, order, "promoCode")

	second := orderBody()
	second["quantity"] = 1
	second["country"] = "Nepal"
	status, body = a.do(t, http.MethodPost, "/api/order", second, bearer(token))
	require.Equal(t, http.StatusCreated, status)
	secondID := body["order"].(map[string]interface{})["id"]

	status, body = a.do(t, http.MethodGet, "/api/order", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	orders := body["orders"].([]interface{})
	require.Len(t, orders, 2)
	newest := orders[0].(map[string]interface{})
	assert.Equal(t, secondID, newest["id"])
	assert.Equal(t, "Nepal", newest["country"])
	assert.Equal(t, order["id"], orders[1].(map[string]interface{})["id"])
}

func TestOrders_ValidationStoresNothing(t *testing.T) {
	a := setupApp(t, "919000000001")
	token := a.signIn(t, "asha@example.com", "Asha Rao")

	missing := orderBody()
	delete(missing, "fullName")
	missing["pincode"] = ""
	status, body := a.do(t, http.MethodPost, "/api/order", missing, bearer(token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields.", body["error"])
	assert.ElementsMatch(t, []interface{}{"fullName", "pincode"}, body["fields"])

	invalid := orderBody()
	invalid["size"] = "2L"
	status, body = a.do(t, http.MethodPost, "/api/order", invalid, bearer(token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid order fields.", body["error"])
	assert.Equal(t, []interface{}{"size"}, body["fields"])

	garbled := orderBody()
	garbled["quantity"] = "three"
	status, body = a.do(t, http.MethodPost, "/api/order", garbled, bearer(token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["error"])

	status, body = a.do(t, http.MethodGet, "/api/order", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["orders"])
}

func TestOrders_UnknownUser(t *testing.T) {
	a := setupApp(t, "919000000001")
	token := a.signIn(t, "asha@example.com", "Asha Rao")
	// A token for an identity that was never stored.
	other := setupApp(t).signIn(t, "ghost@example.com", "Ghost")

	status, body := a.do(t, http.MethodPost, "/api/order", orderBody(), bearer(other))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["error"])

	status, body = a.do(t, http.MethodGet, "/api/order", nil, bearer(other))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, []interface{}{}, body["orders"])

	status, _ = a.do(t, http.MethodGet, "/api/order", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
}

func TestUser_Current(t *testing.T) {
	a := setupApp(t, "919000000001")

	status, body := a.do(t, http.MethodGet, "/api/user", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "user")
	assert.Nil(t, body["user"])

	token := a.signIn(t, "asha@example.com", "Asha Rao")
	status, _ = a.do(t, http.MethodPost, "/api/order", orderBody(), bearer(token))
	require.Equal(t, http.StatusCreated, status)

	status, body = a.do(t, http.MethodGet, "/api/user", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", user["email"])
	assert.Equal(t, "Asha Rao", user["name"])
	assert.Len(t, user["orders"], 1)
}

func TestUser_UpdatePhone(t *testing.T) {
	a := setupApp(t, "919000000001")
	a.signIn(t, "asha@example.com", "Asha Rao")

	status, body := a.do(t, http.MethodPost, "/api/update-user-phone",
		map[string]string{"email": "asha@example.com", "phone": "9123456780"}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "9123456780", body["user"].(map[string]interface{})["phone"])

	// Same request again leaves the same state.
	status, body = a.do(t, http.MethodPost, "/api/update-user-phone",
		map[string]string{"email": "asha@example.com", "phone": "9123456780"}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "9123456780", body["user"].(map[string]interface{})["phone"])

	status, body = a.do(t, http.MethodPost, "/api/update-user-phone",
		map[string]string{"email": "asha@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email and phone are required.", body["error"])

	status, body = a.do(t, http.MethodPost, "/api/update-user-phone",
		map[string]string{"email": "nobody@example.com", "phone": "1"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["error"])

	status, body = a.do(t, http.MethodGet, "/api/update-user-phone", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestWhatsApp_Links(t *testing.T) {
	a := setupApp(t, "+919000000001", "919000000002")

	status, body := a.do(t, http.MethodPost, "/api/send-whatsapp-order", orderBody(), nil)
	require.Equal(t, http.StatusOK, status)
	links := body["links"].([]interface{})
	require.Len(t, links, 2)

	first, err := url.Parse(links[0].(string))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", first.Host)
	assert.Equal(t, "/919000000001", first.Path)
	text := first.Query().Get("text")
	assert.Contains(t, text, "*FlipSip Order*\n")
	assert.Contains(t, text, "*Name*: Asha Rao\n")
	assert.Contains(t, text, "*Address*: 12 MG Road\nIndiranagar\n")
	assert.Contains(t, text, "Bengaluru, Karnataka, 560001, India\n")
	assert.Contains(t, text, "*Gift Message*: Happy birthday!\n")
	assert.Contains(t, text, "*Quantity*: 3\n")
	assert.NotContains(t, text, "Landmark")

	second, err := url.Parse(links[1].(string))
	require.NoError(t, err)
	assert.Equal(t, "/919000000002", second.Path)
	assert.Equal(t, text, second.Query().Get("text"))
}

func TestWhatsApp_NotConfigured(t *testing.T) {
	a := setupApp(t)

	status, body := a.do(t, http.MethodPost, "/api/send-whatsapp-order", orderBody(), nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Could not generate WhatsApp links", body["error"])
	assert.NotContains(t, body, "links")
}

// An order stays stored when link generation fails afterwards.
func TestCheckout_PersistThenNotifyFailure(t *testing.T) {
	a := setupApp(t)
	token := a.signIn(t, "asha@example.com", "Asha Rao")

	status, _ := a.do(t, http.MethodPost, "/api/order", orderBody(), bearer(token))
	require.Equal(t, http.StatusCreated, status)

	status, _ = a.do(t, http.MethodPost, "/api/send-whatsapp-order", orderBody(), bearer(token))
	assert.Equal(t, http.StatusInternalServerError, status)

	status, body := a.do(t, http.MethodGet, "/api/order", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)
}

func TestAuth_Session(t *testing.T) {
	a := setupApp(t, "919000000001")
	profile := map[string]string{"email": "new@example.com", "name": "New Customer"}

	status, _ := a.do(t, http.MethodPost, "/api/auth/session", profile, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := a.do(t, http.MethodPost, "/api/auth/session", profile,
		map[string]string{app.AuthCallbackSecretHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	status, body = a.do(t, http.MethodPost, "/api/auth/session", map[string]string{"email": "not-an-email"},
		map[string]string{app.AuthCallbackSecretHeader: callbackSecret})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["error"])

	status, body = a.do(t, http.MethodPost, "/api/auth/session", profile,
		map[string]string{app.AuthCallbackSecretHeader: callbackSecret})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	userID := body["user"].(map[string]interface{})["id"]
	assert.NotEmpty(t, userID)

	claims, err := a.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", claims["email"])

	// Signing in again returns the same user.
	status, body = a.do(t, http.MethodPost, "/api/auth/session", profile,
		map[string]string{app.AuthCallbackSecretHeader: callbackSecret})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, userID, body["user"].(map[string]interface{})["id"])

	status, body = a.do(t, http.MethodGet, "/api/user", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "New Customer", body["user"].(map[string]interface{})["name"])
}

func TestAdmin_UpdateOrderStatus(t *testing.T) {
	a := setupApp(t, "919000000001")
	token := a.signIn(t, "asha@example.com", "Asha Rao")
	admin := map[string]string{app.AdminSecretHeader: adminSecret}

	status, body := a.do(t, http.MethodPost, "/api/order", orderBody(), bearer(token))
	require.Equal(t, http.StatusCreated, status)
	orderID := body["order"].(map[string]interface{})["id"].(string)
	path := "/api/admin/orders/" + orderID + "/status"

	status, _ = a.do(t, http.MethodPatch, path, map[string]string{"status": "PACKED"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(t, http.MethodPatch, path, map[string]string{"status": "LOST"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodPatch, "/api/admin/orders/missing/status", map[string]string{"status": "PACKED"}, admin)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Order not found", body["error"])

	status, body = a.do(t, http.MethodPatch, path,
		map[string]string{"status": string(models.OrderStatusFailedDelivery), "failureReason": "Nobody home"}, admin)
	require.Equal(t, http.StatusOK, status)
	updated := body["order"].(map[string]interface{})
	assert.Equal(t, "FAILED_DELIVERY", updated["status"])
	assert.Equal(t, "Nobody home", updated["failureReason"])

	status, body = a.do(t, http.MethodGet, "/api/order", nil, bearer(token))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "FAILED_DELIVERY", body["orders"].([]interface{})[0].(map[string]interface{})["status"])
}

func TestGuards_DisabledWithoutHash(t *testing.T) {
	cfg := &config.Config{
		RequestTimeout: 5 * time.Second,
		DefaultCountry: "India",
		Auth:           config.AuthConfig{JWTSecret: "test_jwt_secret", TokenDuration: time.Hour},
	}
	application, _ := app.New(cfg, databasetest.Open(t), nil)
	a := &testApp{app: application}

	status, _ := a.do(t, http.MethodPost, "/api/auth/session", map[string]string{"email": "x@example.com"},
		map[string]string{app.AuthCallbackSecretHeader: callbackSecret})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(t, http.MethodPatch, "/api/admin/orders/1/status", map[string]string{"status": "PACKED"},
		map[string]string{app.AdminSecretHeader: adminSecret})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealth(t *testing.T) {
	a := setupApp(t)

	status, body := a.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["events"])
	assert.Equal(t, false, body["whatsapp"])
}
