// Package ledger talks to the external account ledger / subscriber
// directory service. It is the single source of truth for money:
// balances are re-read before every gated decision and never cached.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
)

// Client is the narrow surface the billing engine needs from the ledger.
type Client interface {
	// Balance returns the current account balance in millicents.
	Balance(ctx context.Context, imsi string) (int64, error)
	// SubtractCredit debits amount millicents from the account.
	SubtractCredit(ctx context.Context, imsi string, amount int64) error
	// NumberFromIMSI resolves the primary dialable number of a SIM.
	NumberFromIMSI(ctx context.Context, imsi string) (string, error)
	// IMSIFromNumber resolves a dialed number to a SIM on this network.
	// A failed resolution means the destination is not local.
	IMSIFromNumber(ctx context.Context, number string) (string, error)
	// CreateSMSEvent records an accounting event (balance before the
	// operation, amount charged, human-readable reason, short code).
	CreateSMSEvent(ctx context.Context, imsi string, balanceBefore, amount int64, reason, shortCode string) error
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewHTTPClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) *HTTPClient {
	return &HTTPClient{
		baseURL:    cfg.Ledger.BaseURL,
		apiKey:     cfg.Ledger.APIKey,
		httpClient: &http.Client{Timeout: cfg.Ledger.Timeout},
		log:        log,
	}
}

type apiError struct {
	StatusCode  int    `json:"-"`
	ResultCode  string `json:"result_code"`
	Description string `json:"description"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("ledger: status=%d code=%s desc=%s", e.StatusCode, e.ResultCode, e.Description)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Errorw("ledger: close response body failed", "err", cerr)
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &apiError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(bodyBytes, apiErr); err != nil {
			return fmt.Errorf("ledger: status=%d body=%q", resp.StatusCode, bodyBytes)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Balance(ctx context.Context, imsi string) (int64, error) {
	var resp struct {
		Balance string `json:"balance"`
	}
	if err := c.post(ctx, "/subscriber/balance", map[string]string{"imsi": imsi}, &resp); err != nil {
		return 0, err
	}
	bal, err := strconv.ParseInt(resp.Balance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ledger: non-numeric balance %q: %w", resp.Balance, err)
	}
	return bal, nil
}

func (c *HTTPClient) SubtractCredit(ctx context.Context, imsi string, amount int64) error {
	payload := map[string]string{
		"imsi":   imsi,
		"amount": strconv.FormatInt(amount, 10),
	}
	return c.post(ctx, "/subscriber/subtract_credit", payload, nil)
}

func (c *HTTPClient) NumberFromIMSI(ctx context.Context, imsi string) (string, error) {
	var resp struct {
		Numbers []string `json:"numbers"`
	}
	if err := c.post(ctx, "/subscriber/numbers", map[string]string{"imsi": imsi}, &resp); err != nil {
		return "", err
	}
	if len(resp.Numbers) == 0 {
		return "", fmt.Errorf("ledger: no numbers for imsi %s", imsi)
	}
	return resp.Numbers[0], nil
}

func (c *HTTPClient) IMSIFromNumber(ctx context.Context, number string) (string, error) {
	var resp struct {
		IMSI string `json:"imsi"`
	}
	if err := c.post(ctx, "/subscriber/imsi", map[string]string{"number": number}, &resp); err != nil {
		return "", err
	}
	if resp.IMSI == "" {
		return "", fmt.Errorf("ledger: number %s not on network", number)
	}
	return resp.IMSI, nil
}

func (c *HTTPClient) CreateSMSEvent(ctx context.Context, imsi string, balanceBefore, amount int64, reason, shortCode string) error {
	payload := map[string]string{
		"imsi":       imsi,
		"old_amount": strconv.FormatInt(balanceBefore, 10),
		"cost":       strconv.FormatInt(amount, 10),
		"reason":     reason,
		"short_code": shortCode,
	}
	return c.post(ctx, "/events/sms", payload, nil)
}

var Module = fx.Options(
	fx.Provide(func(cfg *cfgpkg.Config, log *zap.SugaredLogger) Client {
		return NewHTTPClient(cfg, log)
	}),
)
