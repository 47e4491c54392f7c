package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/config"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

// Provider is the boundary with the external confidential computation
// provider. Everything behind it is opaque to the workflow: values go
// in as plaintext once, come back only through a verified disclosure.
type Provider interface {
	Encrypt(ctx context.Context, value uint64) (model.Handle, error)
	GrantAccess(ctx context.Context, handle model.Handle, account string) error
	RequestDisclosure(ctx context.Context, requestID string, handles []model.Handle) error
	VerifyDisclosure(requestID string, values model.DisclosedValues, proof string) bool
}

// ProviderService is the HTTP client for the provider API
type ProviderService struct {
	config     *config.ProviderConfig
	httpClient *http.Client
}

// providerResponse is the common response envelope of the provider API
type providerResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		Handle string `json:"handle,omitempty"`
	} `json:"data"`
}

type encryptRequest struct {
	Value uint64 `json:"value"`
}

type grantRequest struct {
	Handle  string `json:"handle"`
	Account string `json:"account"`
}

type disclosureRequest struct {
	RequestID string   `json:"request_id"`
	Handles   []string `json:"handles"`
	Callback  string   `json:"callback,omitempty"`
}

func NewProviderService(cfg *config.ProviderConfig) *ProviderService {
	return &ProviderService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// post sends a JSON request to the provider API and decodes the
// common response envelope
func (s *ProviderService) post(ctx context.Context, path string, body any) (*providerResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result providerResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(respBody))
	}

	if result.Code != 0 {
		return nil, fmt.Errorf("provider API error: %s", result.Message)
	}

	return &result, nil
}

// Encrypt submits a plaintext scalar for encryption and returns the
// opaque handle the provider issued for it
func (s *ProviderService) Encrypt(ctx context.Context, value uint64) (model.Handle, error) {
	resp, err := s.post(ctx, "/v1/encrypt", encryptRequest{Value: value})
	if err != nil {
		return "", err
	}
	if resp.Data.Handle == "" {
		return "", fmt.Errorf("provider returned empty handle")
	}
	return model.Handle(resp.Data.Handle), nil
}

// GrantAccess authorizes an account to later read the plaintext
// behind a handle
func (s *ProviderService) GrantAccess(ctx context.Context, handle model.Handle, account string) error {
	_, err := s.post(ctx, "/v1/grants", grantRequest{Handle: string(handle), Account: account})
	return err
}

// RequestDisclosure asks the provider to release the plaintext behind
// the given handles. The provider delivers values plus a proof to the
// configured callback URL; requestID is generated by the caller and
// correlates the eventual response.
func (s *ProviderService) RequestDisclosure(ctx context.Context, requestID string, handles []model.Handle) error {
	hs := make([]string, len(handles))
	for i, h := range handles {
		hs[i] = string(h)
	}

	_, err := s.post(ctx, "/v1/disclosures", disclosureRequest{
		RequestID: requestID,
		Handles:   hs,
		Callback:  s.config.CallbackURL,
	})
	return err
}

// EncodeDisclosedValues builds the canonical encoding of disclosed
// values used for proof verification. Field order is fixed.
func EncodeDisclosedValues(v model.DisclosedValues) string {
	return fmt.Sprintf("%d|%d|%d|%d", v.EstimatedCost, v.ExpectedROI, v.RiskScore, v.ConfidenceLevel)
}

// VerifyDisclosure verifies the disclosure proof.
// Proof = SHA256(requestID + seed + canonical value encoding), hex
func (s *ProviderService) VerifyDisclosure(requestID string, values model.DisclosedValues, proof string) bool {
	data := requestID + s.config.Seed + EncodeDisclosedValues(values)
	hash := sha256.Sum256([]byte(data))
	expected := hex.EncodeToString(hash[:])
	return proof == expected
}
