// Package storage is the boundary client for the hosted object store holding
// receipt files. It speaks the store's REST API directly; the service layer
// only sees the ReceiptStore interface.
package storage

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
)

type ReceiptStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) error
	SignURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey, bucket string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) objectURL(kind, path string) string {
	return c.baseURL + "/storage/v1/object/" + kind + c.bucket + "/" + url.PathEscape(path)
}

// Upload stores data under path in the receipts bucket, overwriting any
// existing object. A non-2xx reply is returned with the upstream body intact
// so it surfaces verbatim in the error payload.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.objectURL("", path),
		bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage upload failed: %s", strings.TrimSpace(string(body)))
	}
	return nil
}

// SignURL mints a short-lived credential-free link to a stored object.
func (c *Client) SignURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]int64{
		"expiresIn": int64(ttl.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.objectURL("sign/", path),
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage sign failed: %s", strings.TrimSpace(string(body)))
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.SignedURL == "" {
		return "", fmt.Errorf("storage sign returned empty url")
	}

	return c.baseURL + "/storage/v1" + result.SignedURL, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}
