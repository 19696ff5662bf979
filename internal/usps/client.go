// Package usps talks to the USPS zip-lookup and Intelligent Mail Barcode
// encoder endpoints. Addresses are standardized through a fixed strategy
// cascade; lookup responses are cached in an embedded badger store so a
// rerun never repeats a request the USPS already answered.
package usps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultLookupURL is the USPS zip-by-address form endpoint.
const DefaultLookupURL = "https://tools.usps.com/tools/app/ziplookup/zipByAddress"

// DefaultEncoderURL is the USPS IMb encoder endpoint.
const DefaultEncoderURL = "https://postalpro.usps.com/ppro-tools-api/imb/encode"

// Client calls the USPS endpoints. Read-only after construction.
type Client struct {
	httpClient *http.Client
	lookupURL  string
	encoderURL string
	cache      *LookupCache
	log        *slog.Logger
}

// NewClient creates a USPS client. cache may be nil to disable response
// caching; log may be nil.
func NewClient(httpClient *http.Client, lookupURL, encoderURL string, cache *LookupCache, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if lookupURL == "" {
		lookupURL = DefaultLookupURL
	}
	if encoderURL == "" {
		encoderURL = DefaultEncoderURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		lookupURL:  lookupURL,
		encoderURL: encoderURL,
		cache:      cache,
		log:        log,
	}
}

// lookupResponse is the zip-lookup response envelope.
type lookupResponse struct {
	ResultStatus string          `json:"resultStatus"`
	AddressList  []LookupAddress `json:"addressList"`
}

// LookupAddress is one candidate canonical address from the lookup.
type LookupAddress struct {
	CompanyName   string `json:"companyName,omitempty"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip5          string `json:"zip5"`
	Zip4          string `json:"zip4"`
	DeliveryPoint string `json:"deliveryPoint,omitempty"`
}

const resultSuccess = "SUCCESS"

// lookup POSTs the address form fields and returns the candidate list.
// Order of prms is significant for the cache key only.
func (c *Client) lookup(ctx context.Context, prms [][2]string) ([]LookupAddress, error) {
	body, err := c.lookupBody(ctx, prms)
	if err != nil {
		return nil, err
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if resp.ResultStatus != resultSuccess {
		return nil, fmt.Errorf("lookup status %q", resp.ResultStatus)
	}
	if len(resp.AddressList) == 0 {
		return nil, fmt.Errorf("no address found in the lookup response")
	}
	return resp.AddressList, nil
}

func (c *Client) lookupBody(ctx context.Context, prms [][2]string) ([]byte, error) {
	key := lookupKey(prms)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.log.Debug("lookup cache hit", slog.String("key", key))
			return body, nil
		}
	}

	form := url.Values{}
	for _, prm := range prms {
		form.Set(prm[0], prm[1])
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.lookupURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lookup status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(key, body); err != nil {
			c.log.Warn("lookup cache write failed", slog.String("error", err.Error()))
		}
	}
	return body, nil
}
