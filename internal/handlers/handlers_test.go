package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"farmstore/internal/database"
	"farmstore/internal/handlers"
	"farmstore/internal/models"
	"farmstore/internal/repositories"
	"farmstore/internal/services"
	"farmstore/pkg/hubtel"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeHubtel is a stand-in Hubtel API that answers every call with body.
type fakeHubtel struct {
	srv   *httptest.Server
	calls atomic.Int32
	body  atomic.Value
	code  atomic.Int32
}

func newFakeHubtel(t *testing.T) *fakeHubtel {
	f := &fakeHubtel{}
	f.body.Store(`{"responseCode":"0001","data":{"checkoutUrl":"https://pay.hubtel.com/chk","checkoutId":"chk"}}`)
	f.code.Store(http.StatusOK)
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		w.WriteHeader(int(f.code.Load()))
		_, _ = io.WriteString(w, f.body.Load().(string))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHubtel) respond(status int, body string) {
	f.code.Store(int32(status))
	f.body.Store(body)
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	hubtel *fakeHubtel
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T, configured bool) *testEnv {
	t.Helper()
	log := zap.NewNop()
	db := database.OpenTest(t)
	fake := newFakeHubtel(t)

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	gwCfg := hubtel.Config{
		InitiateURL: fake.srv.URL + "/items/initiate",
		StatusURL:   fake.srv.URL + "/transactions/{pos_sales_id}/status",
		SiteURL:     "http://shop.test",
	}
	if configured {
		gwCfg.MerchantAccount = "HM1"
		gwCfg.APIKey = "key"
	}

	productService := services.NewProductService(productRepo, log)
	_, err := productService.SeedDefaults(context.Background())
	require.NoError(t, err)

	pricer := services.NewPricer(productRepo, services.DefaultTaxRate, log)
	orderService := services.NewOrderService(orderRepo, productRepo, pricer, nil, log)
	paymentService := services.NewPaymentService(orderRepo, paymentRepo, hubtel.NewClient(gwCfg), nil, nil, log)
	contactService := services.NewContactService(contactRepo, nil)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewProductHandler(productService, log).RegisterRoutes(api)
	handlers.NewCatalogHandler(services.NewCatalogService()).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(api)
	handlers.NewPaymentHandler(paymentService, log).RegisterRoutes(api)
	handlers.NewContactHandler(contactService, log).RegisterRoutes(api)

	return &testEnv{app: app, db: db, hubtel: fake}
}

func (e *testEnv) do(t *testing.T, method, path, contentType, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (e *testEnv) doJSON(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	status, raw := e.do(t, method, path, fiber.MIMEApplicationJSON, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

func (e *testEnv) createOrder(t *testing.T, body string) uint {
	t.Helper()
	status, out := e.doJSON(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusCreated, status, out)
	return uint(out["id"].(float64))
}

func TestCreateOrder(t *testing.T) {
	env := setupApp(t, true)

	status, out := env.doJSON(t, http.MethodPost, "/api/orders", `{"items":[{"product_name":"Feed","unit_price":"100.00","quantity":2}],"customer":{"name":"Kofi","phone":"0244"}}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "210.00", out["total_amount"])

	var order models.Order
	require.NoError(t, env.db.Preload("Items").First(&order, uint(out["id"].(float64))).Error)
	assert.Equal(t, "Kofi", order.CustomerName)
	assert.Equal(t, "210.00", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint(2), order.Items[0].Quantity)
}

func TestCreateOrder_CatalogProductAndTopLevelCustomer(t *testing.T) {
	env := setupApp(t, true)

	id := env.createOrder(t, `{"items":[{"product":2,"quantity":"3"},{"name":"Net","unit_price":10.33,"quantity":3}],"customer_name":"Abena","customer_email":"abena@example.com"}`)

	status, out := env.doJSON(t, http.MethodGet, "/api/orders/"+itoa(id), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Abena", out["customer_name"])
	// 3 x 25.00 + 3 x 10.33 = 105.99, tax 5.30
	assert.Equal(t, "111.29", out["total_amount"])
	items := out["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Hearty Catfish", items[0].(map[string]any)["product_name"])
	assert.Equal(t, "25.00", items[0].(map[string]any)["unit_price"])
	assert.Equal(t, "Net", items[1].(map[string]any)["product_name"])
}

func TestCreateOrder_Rejected(t *testing.T) {
	env := setupApp(t, true)

	cases := map[string]string{
		"empty items":   `{"items":[]}`,
		"no items":      `{"customer":{"name":"Kofi"}}`,
		"bad quantity":  `{"items":[{"unit_price":"1.00","quantity":0}]}`,
		"bad price":     `{"items":[{"unit_price":"-1","quantity":1}]}`,
		"invalid json":  `{"items":`,
		"total too large": `{"items":[{"unit_price":"99999999.99","quantity":1000000}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			status, out := env.doJSON(t, http.MethodPost, "/api/orders", body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, out["error"])
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrder_StoresEmailAsGiven(t *testing.T) {
	env := setupApp(t, true)

	id := env.createOrder(t, `{"items":[{"unit_price":"1.00"}],"customer":{"email":"not-an-email"}}`)

	var order models.Order
	require.NoError(t, env.db.First(&order, id).Error)
	assert.Equal(t, "not-an-email", order.CustomerEmail)
}

func TestCreateOrder_CustomerFieldTooLong(t *testing.T) {
	env := setupApp(t, true)

	status, out := env.doJSON(t, http.MethodPost, "/api/orders", `{"items":[{"unit_price":"1.00"}],"customer":{"phone":"`+strings.Repeat("0", 51)+`"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid customer details: phone must be at most 50 characters", out["error"])
}

func TestGetOrder_NotFound(t *testing.T) {
	env := setupApp(t, true)

	for _, path := range []string{"/api/orders/999", "/api/orders/abc"} {
		status, out := env.doJSON(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Order not found", out["error"])
	}
}

func TestPay_CashOnDelivery(t *testing.T) {
	env := setupApp(t, true)
	id := env.createOrder(t, `{"items":[{"unit_price":"5.00"}]}`)

	for _, body := range []string{`{"payment_method":"cash_on_delivery"}`, ``, `{not json`} {
		status, out := env.doJSON(t, http.MethodPost, "/api/orders/"+itoa(id)+"/pay", body)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "pending", out["status"])
		assert.Equal(t, "Cash on delivery selected", out["message"])
		assert.Equal(t, float64(id), out["order_id"])
	}

	assert.Zero(t, env.hubtel.calls.Load())
	var order models.Order
	require.NoError(t, env.db.First(&order, id).Error)
	assert.False(t, order.Paid)
}

func TestPay_UnknownOrder(t *testing.T) {
	env := setupApp(t, true)
	status, out := env.doJSON(t, http.MethodPost, "/api/orders/77/pay", `{"payment_method":"hubtel"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Order not found", out["error"])
}

func TestPay_GatewayFlow(t *testing.T) {
	env := setupApp(t, true)
	id := env.createOrder(t, `{"items":[{"unit_price":"100.00","quantity":2}],"customer":{"phone":"0244"}}`)
	path := "/api/orders/" + itoa(id)

	status, out := env.doJSON(t, http.MethodPost, path+"/pay", `{"payment_method":"hubtel","phone_number":"0555"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", out["status"])
	assert.Equal(t, "https://pay.hubtel.com/chk", out["checkout_url"])
	assert.Equal(t, "order_"+itoa(id), out["client_reference"])
	assert.Equal(t, int32(1), env.hubtel.calls.Load())

	var payment models.Payment
	require.NoError(t, env.db.Where("order_id = ?", id).First(&payment).Error)
	assert.Equal(t, models.PaymentProcessing, payment.Status)
	assert.Equal(t, "210.00", payment.Amount.StringFixed(2))
	assert.Equal(t, "chk", payment.CheckoutToken)

	callback := `{"ResponseCode":"0000","Status":"Success","Data":{"CheckoutId":"chk","ClientReference":"order_` + itoa(id) + `","Status":"Success"}}`
	status, out = env.doJSON(t, http.MethodPost, "/api/payments/hubtel/callback", callback)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "completed", out["status"])

	status, out = env.doJSON(t, http.MethodGet, path+"/payment-status", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["paid"])
	assert.Equal(t, "completed", out["payment_status"])
	assert.Equal(t, int32(1), env.hubtel.calls.Load(), "settled payment is not re-checked")

	status, out = env.doJSON(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["paid"])
	assert.Len(t, out["payments"], 1)
}

func TestPay_PaidOrderStaysPaid(t *testing.T) {
	env := setupApp(t, true)
	id := env.createOrder(t, `{"items":[{"unit_price":"10.00"}]}`)
	path := "/api/orders/" + itoa(id)

	status, _ := env.doJSON(t, http.MethodPost, path+"/pay", `{"payment_method":"hubtel"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.doJSON(t, http.MethodPost, "/api/payments/hubtel/callback", `{"ResponseCode":"0000","Data":{"ClientReference":"order_`+itoa(id)+`"}}`)
	require.Equal(t, http.StatusOK, status)

	for _, body := range []string{`{"payment_method":"cash_on_delivery"}`, `{"payment_method":"hubtel"}`} {
		status, out := env.doJSON(t, http.MethodPost, path+"/pay", body)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "completed", out["status"])
		assert.Equal(t, "Order already paid", out["message"])
	}

	var order models.Order
	require.NoError(t, env.db.Preload("Payments").First(&order, id).Error)
	assert.True(t, order.Paid)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, models.PaymentCompleted, order.Payments[0].Status)
	assert.Equal(t, int32(1), env.hubtel.calls.Load())
}

func TestHubtelCallback_UnusableResultIsNotApplied(t *testing.T) {
	env := setupApp(t, true)
	id := env.createOrder(t, `{"items":[{"unit_price":"10.00"}]}`)

	status, _ := env.doJSON(t, http.MethodPost, "/api/orders/"+itoa(id)+"/pay", `{"payment_method":"hubtel"}`)
	require.Equal(t, http.StatusOK, status)

	status, out := env.doJSON(t, http.MethodPost, "/api/payments/hubtel/callback", `{"ResponseCode":"9999","ClientReference":"order_`+itoa(id)+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "processing", out["status"])

	var payment models.Payment
	require.NoError(t, env.db.Where("order_id = ?", id).First(&payment).Error)
	assert.Equal(t, models.PaymentProcessing, payment.Status)
}

func TestPay_RetryCreatesNewAttempt(t *testing.T) {
	env := setupApp(t, true)
	id := env.createOrder(t, `{"items":[{"unit_price":"10.00"}]}`)

	env.hubtel.respond(http.StatusOK, `{"responseCode":"2001","message":"declined"}`)
	status, out := env.doJSON(t, http.MethodPost, "/api/orders/"+itoa(id)+"/pay", `{"payment_method":"hubtel"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "failed", out["status"])

	env.hubtel.respond(http.StatusOK, `{"responseCode":"0001","data":{"checkoutUrl":"u2"}}`)
	status, out = env.doJSON(t, http.MethodPost, "/api/orders/"+itoa(id)+"/pay", `{"payment_method":"hubtel"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", out["status"])

	var payments []models.Payment
	require.NoError(t, env.db.Where("order_id = ?", id).Order("id").Find(&payments).Error)
	require.Len(t, payments, 2)
	assert.Equal(t, models.PaymentFailed, payments[0].Status)
	assert.Equal(t, models.PaymentProcessing, payments[1].Status)
}

func TestPay_GatewayErrors(t *testing.T) {
	env := setupApp(t, true)
	id := env.createOrder(t, `{"items":[{"unit_price":"10.00"}]}`)

	env.hubtel.respond(http.StatusBadGateway, `<html>upstream down</html>`)
	status, out := env.doJSON(t, http.MethodPost, "/api/orders/"+itoa(id)+"/pay", `{"payment_method":"hubtel"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "error", out["status"])
	assert.Contains(t, out["message"], "Payment request failed")

	unconfigured := setupApp(t, false)
	id = unconfigured.createOrder(t, `{"items":[{"unit_price":"10.00"}]}`)
	status, out = unconfigured.doJSON(t, http.MethodPost, "/api/orders/"+itoa(id)+"/pay", `{"payment_method":"hubtel"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, "Hubtel credentials not configured", out["message"])
	assert.Zero(t, unconfigured.hubtel.calls.Load())
}

func TestHubtelCallback_Rejected(t *testing.T) {
	env := setupApp(t, true)

	status, _ := env.doJSON(t, http.MethodPost, "/api/payments/hubtel/callback", `{"ResponseCode":"0000","Data":{"ClientReference":"invoice_1"}}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.doJSON(t, http.MethodPost, "/api/payments/hubtel/callback", `{"ResponseCode":"0000","Data":{"ClientReference":"order_55"}}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFishSalesOrder(t *testing.T) {
	env := setupApp(t, true)

	status, out := env.doJSON(t, http.MethodPost, "/api/orders/fish-sales", `{"customer_name":"Esi","phone_number":"0244","average_weight":"1.5","quantity":2,"location":"Tema"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["ok"])

	var order models.Order
	require.NoError(t, env.db.Preload("Items").First(&order, uint(out["order_id"].(float64))).Error)
	assert.Equal(t, "Tema", order.ShippingAddress)
	assert.Equal(t, "52.50", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "Hearty Catfish", order.Items[0].ProductName)

	status, out = env.doJSON(t, http.MethodPost, "/api/orders/fish-sales", `{"customer_name":"Esi"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", out["error"])
}

func TestListProducts(t *testing.T) {
	env := setupApp(t, true)

	status, raw := env.do(t, http.MethodGet, "/api/products", "", "")
	require.Equal(t, http.StatusOK, status)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Premium Tilapia", products[0]["name"])
	assert.Equal(t, "30.00", products[0]["unit_price"])
	assert.Equal(t, "1200.00", products[2]["unit_price"])
	assert.ElementsMatch(t, []string{"id", "name", "description", "unit_price"}, keys(products[0]))
}

func TestCatalogFixtures(t *testing.T) {
	env := setupApp(t, true)

	for path, n := range map[string]int{"/api/services": 7, "/api/gallery": 13, "/api/process": 4, "/api/contact/services": 7} {
		status, raw := env.do(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, status, path)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(raw, &list))
		assert.Len(t, list, n, path)
	}
}

func TestContact(t *testing.T) {
	env := setupApp(t, true)

	status, out := env.doJSON(t, http.MethodPost, "/api/contact", `{"name":"Kwesi","email":"kwesi@example.com","message":"Hello"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["ok"])
	assert.NotZero(t, out["id"])

	status, raw := env.do(t, http.MethodPost, "/api/contact/submit", fiber.MIMEApplicationForm, "name=Akos&email=akos%40example.com&message=Form+post")
	require.Equal(t, http.StatusOK, status, string(raw))

	status, out = env.doJSON(t, http.MethodPost, "/api/contact", `{"name":"","email":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, out["ok"])
	errs := out["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "message")

	var stored []models.ContactMessage
	require.NoError(t, env.db.Order("id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "Form post", stored[1].Message)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
