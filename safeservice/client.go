package safeservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// SubmissionError is returned when the transaction service rejects or fails to
// accept a batch. The batch is unaffected on-chain and may safely be
// resubmitted, so callers should treat this as a retryable pending state
// rather than a crash.
type SubmissionError struct {
	// StatusCode is the HTTP status returned by the service, or 0 when the
	// request never completed.
	StatusCode int
	// Body is the response body, when one was received.
	Body string
	// Err is the underlying transport error, when the request never completed.
	Err error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("batch submission failed: %v", e.Err)
	}

	return fmt.Sprintf("transaction service returned status %d: %s", e.StatusCode, e.Body)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Client proposes transaction batches to a Safe transaction service over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for submissions.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new transaction service client for the given Config.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid safe service config: %w", err)
	}

	c := &Client{
		cfg: Config{
			SafeAddress:  cfg.SafeAddress,
			ChainID:      cfg.ChainID,
			TxServiceURL: strings.TrimSuffix(cfg.TxServiceURL, "/"),
		},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// proposalPayload is the wire form of a Proposal.
type proposalPayload struct {
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
}

// batchPayload is the wire form of a Batch submission.
type batchPayload struct {
	RequestID   string            `json:"requestId"`
	Safe        string            `json:"safe"`
	ChainID     uint64            `json:"chainId"`
	Description string            `json:"description"`
	Txs         []proposalPayload `json:"transactions"`
}

// ProposeBatch submits the given Proposals as one named batch. It returns the
// accepted Batch on success. A non-2xx response or transport failure is
// returned as a *SubmissionError; the caller's queue is left intact and the
// submission may be retried by re-running.
func (c *Client) ProposeBatch(ctx context.Context, description string, proposals []Proposal) (Batch, error) {
	batch := Batch{
		RequestID:    uuid.New().String(),
		SafeAddress:  c.cfg.SafeAddress,
		ChainID:      c.cfg.ChainID,
		Description:  description,
		Transactions: proposals,
	}

	payload := batchPayload{
		RequestID:   batch.RequestID,
		Safe:        batch.SafeAddress.Hex(),
		ChainID:     batch.ChainID,
		Description: batch.Description,
		Txs:         make([]proposalPayload, 0, len(proposals)),
	}
	for _, p := range proposals {
		value := "0"
		if p.Value != nil {
			value = p.Value.String()
		}
		payload.Txs = append(payload.Txs, proposalPayload{
			To:    p.To.Hex(),
			Value: value,
			Data:  hexutil.Encode(p.Data),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to encode batch payload: %w", err)
	}

	reqURL, err := url.JoinPath(c.cfg.TxServiceURL, "api", "v1", "safes", c.cfg.SafeAddress.Hex(), "propose-batch")
	if err != nil {
		return Batch{}, fmt.Errorf("failed to build request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return Batch{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Batch{}, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)

		return Batch{}, &SubmissionError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return batch, nil
}
