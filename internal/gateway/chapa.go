package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// PaymentGateway abstracts the payment provider for the orchestration layer.
type PaymentGateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}

type InitializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
	Title       string `json:"customization[title]"`
	Description string `json:"customization[description]"`
}

type InitializeResult struct {
	CheckoutURL string
}

type VerifyResult struct {
	// Paid is true only when the gateway reports overall success AND the
	// transaction's own status is "success".
	Paid    bool
	Message string
}

// chapaResponse is the wire shape shared by the initialize and verify
// endpoints.
type chapaResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
		Status      string `json:"status"`
	} `json:"data"`
}

// ChapaClient talks to the Chapa REST API with a bearer credential. Requests
// carry an explicit timeout and transient failures (transport errors, 5xx)
// are retried with bounded exponential backoff.
type ChapaClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	maxRetries uint64
}

func NewChapaClient(baseURL, secretKey string, timeout time.Duration, maxRetries uint64) *ChapaClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ChapaClient{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

func (c *ChapaClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %v", err)
	}

	res, err := c.do(ctx, "initialize", func() (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/initialize", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		return httpReq, nil
	})
	if err != nil {
		return nil, err
	}

	if res.Status != "success" {
		msg := res.Message
		if msg == "" {
			msg = "Chapa initiation failed"
		}
		return nil, &RejectedError{Message: msg}
	}

	return &InitializeResult{CheckoutURL: res.Data.CheckoutURL}, nil
}

func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	res, err := c.do(ctx, "verify", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify/"+txRef, nil)
	})
	if err != nil {
		return nil, err
	}

	paid := res.Status == "success" && res.Data.Status == "success"
	msg := res.Message
	if !paid && msg == "" {
		msg = "Chapa verification failed"
	}
	return &VerifyResult{Paid: paid, Message: msg}, nil
}

// do executes one gateway call. A fresh request is built per attempt since a
// request body cannot be reused after a failed send.
func (c *ChapaClient) do(ctx context.Context, op string, build func() (*http.Request, error)) (*chapaResponse, error) {
	var out chapaResponse

	attempt := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build %s request: %v", op, err))
		}
		req.Header.Set("Authorization", "Bearer "+c.secretKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &UnavailableError{Op: op, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &UnavailableError{Op: op, Err: err}
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return &UnavailableError{Op: op, Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			// Client-side errors will not heal on retry.
			return backoff.Permanent(&UnavailableError{Op: op, Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)})
		}

		if err := json.Unmarshal(data, &out); err != nil {
			return backoff.Permanent(&UnavailableError{Op: op, Err: fmt.Errorf("decode response: %v", err)})
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
