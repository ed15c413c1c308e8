// Package client talks to the circle backend: the off-chain mirror that
// serves circle/member snapshots and prepares jetton deposit intents.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moneycircle/native/circle"
)

const defaultTimeout = 15 * time.Second

// APIError is a structured failure from the backend. The code is stable and
// machine-readable; the message, when present, is for humans.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// StatusResponse is one mirror snapshot: the circle plus the caller's member
// record when they have joined.
type StatusResponse struct {
	Circle *circle.Snapshot `json:"circle"`
	Member *circle.Member   `json:"member,omitempty"`
}

// DepositPurpose selects which deposit bucket an intent funds.
type DepositPurpose string

const (
	PurposeCollateral DepositPurpose = "collateral"
	PurposePrefund    DepositPurpose = "prefund"
)

// DepositIntentRequest asks the backend to prepare a jetton transfer. The
// amount stays a decimal string end to end; the backend owns the conversion
// into the transfer body.
type DepositIntentRequest struct {
	CircleID   string         `json:"circle_id"`
	Purpose    DepositPurpose `json:"purpose"`
	AmountUSDT string         `json:"amount_usdt"`
}

// DepositIntentResponse carries everything needed to submit the transfer
// verbatim: the sender's jetton wallet, the TON value in nanotons, and the
// prebuilt transfer payload.
type DepositIntentResponse struct {
	JettonWallet  string `json:"jetton_wallet"`
	TxValueNano   string `json:"tx_value_nano"`
	PayloadBase64 string `json:"payload_base64"`
}

type attachContractRequest struct {
	CircleID        string `json:"circle_id"`
	ContractAddress string `json:"contract_address"`
}

// Client is a thin bearer-token HTTP client for the backend API.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// New builds a client for the given base URL. A nil http.Client gets a
// default with a 15s timeout.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{base: parsed, http: httpClient, logger: logger}, nil
}

// CircleStatus fetches the mirror snapshot for one circle.
func (c *Client) CircleStatus(ctx context.Context, token, circleID string) (*StatusResponse, error) {
	if strings.TrimSpace(circleID) == "" {
		return nil, &APIError{Code: "BAD_REQUEST", Message: "circle id required"}
	}
	var out StatusResponse
	path := "/v1/circles/" + url.PathEscape(circleID) + "/status"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DepositIntent prepares a collateral or prefund jetton transfer.
func (c *Client) DepositIntent(ctx context.Context, token string, req DepositIntentRequest) (*DepositIntentResponse, error) {
	var out DepositIntentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/deposit-intents", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AttachContract binds a deployed contract address to a recruiting circle.
// The backend verifies code hash and config before saving.
func (c *Client) AttachContract(ctx context.Context, token, circleID, contractAddress string) error {
	req := attachContractRequest{CircleID: circleID, ContractAddress: strings.TrimSpace(contractAddress)}
	return c.do(ctx, http.MethodPost, "/v1/circles/attach", token, req, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	target := c.base.JoinPath(path)
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Code: "API_ERROR", Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Code: "API_ERROR", Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{}
		if decodeErr := json.Unmarshal(payload, apiErr); decodeErr != nil || apiErr.Code == "" {
			apiErr = &APIError{Code: "API_ERROR", Message: strings.TrimSpace(string(payload))}
		}
		c.logger.Warn("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("code", apiErr.Code))
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &APIError{Code: "API_ERROR", Message: "malformed response: " + err.Error()}
	}
	return nil
}
