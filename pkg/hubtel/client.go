package hubtel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned when merchant credentials are missing.
// It is an operator problem and must not be retried.
var ErrNotConfigured = errors.New("hubtel credentials not configured")

const (
	DefaultInitiateURL = "https://payproxyapi.hubtel.com/items/initiate"
	DefaultStatusURL   = "https://api-txnstatus.hubtel.com/transactions/{pos_sales_id}/status"

	CallbackPath = "/api/payments/hubtel/callback"
	ReturnPath   = "/payment-success.html"
	CancelPath   = "/payment-failed.html"
)

type Config struct {
	MerchantAccount string
	APIKey          string
	InitiateURL     string
	StatusURL       string
	// SiteURL is the public base URL used for the callback, return and cancel links.
	SiteURL string
	// Timeout bounds every gateway call. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the Hubtel checkout and transaction status APIs.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.InitiateURL == "" {
		cfg.InitiateURL = DefaultInitiateURL
	}
	if cfg.StatusURL == "" {
		cfg.StatusURL = DefaultStatusURL
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether both merchant account and API key are set.
func (c *Client) Configured() bool {
	return c.cfg.MerchantAccount != "" && c.cfg.APIKey != ""
}

// InitiateRequest describes the order being paid for.
type InitiateRequest struct {
	OrderID       uint
	Amount        decimal.Decimal
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Description   string
}

// Initiation is the normalized answer to a checkout request.
type Initiation struct {
	Result
	ClientReference string
	CheckoutURL     string
	CheckoutID      string
}

type initiatePayload struct {
	TotalAmount           json.Number `json:"totalAmount"`
	Description           string      `json:"description"`
	CallbackURL           string      `json:"callbackUrl"`
	ReturnURL             string      `json:"returnUrl"`
	MerchantAccountNumber string      `json:"merchantAccountNumber"`
	CancellationURL       string      `json:"cancellationUrl"`
	ClientReference       string      `json:"clientReference"`
	PayeeName             string      `json:"payeeName"`
	PayeeMobileNumber     string      `json:"payeeMobileNumber"`
	PayeeEmail            string      `json:"payeeEmail"`
}

// ClientReference is the reference Hubtel sees for every attempt on an order.
// Repeated attempts share it, so the provider can recognise them.
func ClientReference(orderID uint) string {
	return fmt.Sprintf("order_%d", orderID)
}

// Initiate creates a checkout for the order. Transport failures are reported
// in the returned Initiation with StatusError, not as a Go error.
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (*Initiation, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Power OT Farms - Order #%d", req.OrderID)
	}
	reference := ClientReference(req.OrderID)

	payload := initiatePayload{
		TotalAmount:           json.Number(req.Amount.Round(2).StringFixed(2)),
		Description:           description,
		CallbackURL:           c.cfg.SiteURL + CallbackPath,
		ReturnURL:             c.cfg.SiteURL + ReturnPath,
		MerchantAccountNumber: c.cfg.MerchantAccount,
		CancellationURL:       c.cfg.SiteURL + CancelPath,
		ClientReference:       reference,
		PayeeName:             req.CustomerName,
		PayeeMobileNumber:     req.CustomerPhone,
		PayeeEmail:            req.CustomerEmail,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hubtel payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.InitiateURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build hubtel request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")

	res := c.do(httpReq, "Payment request failed")
	return &Initiation{
		Result:          res,
		ClientReference: reference,
		CheckoutURL:     res.DataString("checkoutUrl", "CheckoutUrl"),
		CheckoutID:      res.DataString("checkoutId", "CheckoutId"),
	}, nil
}

// CheckStatus asks Hubtel for the state of an order's transaction. An empty
// clientReference defaults to the order's own reference.
func (c *Client) CheckStatus(ctx context.Context, orderID uint, clientReference string) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if clientReference == "" {
		clientReference = ClientReference(orderID)
	}

	endpoint := strings.ReplaceAll(c.cfg.StatusURL, "{pos_sales_id}", url.PathEscape(c.cfg.MerchantAccount))
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid hubtel status url: %w", err)
	}
	q := u.Query()
	q.Set("clientReference", clientReference)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build hubtel status request: %w", err)
	}

	res := c.do(httpReq, "Status check failed")
	return &res, nil
}

// do sends the request and normalizes the answer. A non-2xx answer is only
// trusted when its body is a JSON object, anything else is a transport error.
func (c *Client) do(req *http.Request, failurePrefix string) Result {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorResult(fmt.Sprintf("%s: %v", failurePrefix, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResult(fmt.Sprintf("%s: %v", failurePrefix, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var obj map[string]any
		if json.Unmarshal(raw, &obj) != nil || obj == nil {
			return errorResult(fmt.Sprintf("%s: unexpected status %d", failurePrefix, resp.StatusCode))
		}
	}
	return Normalize(raw)
}
