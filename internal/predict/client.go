// Package predict calls the opaque forecast, recommendation and classification endpoints.
package predict

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Config selects the endpoints and how requests are sent.
type Config struct {
	ForecastURL      string
	RecommendURL     string
	ClassifyURL      string
	Timeout          time.Duration
	UserAgent        string
	ClassifyEncoding string // multipart or json
	HTTPClient       *http.Client
}

// ConfigFrom builds the client settings from the validated runtime config.
func ConfigFrom(cfg *contract.Config) Config {
	return Config{
		ForecastURL:      cfg.ForecastURL,
		RecommendURL:     cfg.RecommendURL,
		ClassifyURL:      cfg.ClassifyURL,
		Timeout:          cfg.Timeout,
		UserAgent:        cfg.UserAgent,
		ClassifyEncoding: cfg.ClassifyEncoding,
	}
}

// Client performs one HTTP call per submission. It never retries.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ contract.PredictionClient = &Client{} // Compile-time check

// NewClient returns a client for the configured endpoints.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = contract.DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if cfg.ClassifyEncoding == "" {
		cfg.ClassifyEncoding = contract.MultipartEncoding
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = contract.DefaultUserAgent
	}
	cfg.ForecastURL = strings.TrimSpace(cfg.ForecastURL)
	cfg.RecommendURL = strings.TrimSpace(cfg.RecommendURL)
	cfg.ClassifyURL = strings.TrimSpace(cfg.ClassifyURL)
	return &Client{cfg: cfg, http: hc}
}

// Forecast posts {"data": [department, store]} and returns the prediction records.
func (c *Client) Forecast(ctx context.Context, req schema.ForecastRequest) ([]schema.PredictionRecord, error) {
	if req.Department <= 0 || req.Store <= 0 {
		return nil, contract.NewRequestError(contract.ReasonInvalidInput,
			fmt.Errorf("department and store must be positive (received %d, %d)", req.Department, req.Store))
	}
	body, err := json.Marshal(map[string]any{"data": []int{req.Department, req.Store}})
	if err != nil {
		return nil, contract.NewRequestError(contract.ReasonInvalidInput, err)
	}

	blob, err := c.post(ctx, c.cfg.ForecastURL, "application/json", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Prediction []schema.PredictionRecord `json:"prediction"`
	}
	if err := json.Unmarshal(blob, &resp); err != nil {
		return nil, contract.NewRequestError(contract.ReasonDecode, err)
	}
	if len(resp.Prediction) == 0 {
		return nil, contract.NewRequestError(contract.ReasonEmpty, errors.New("response has no prediction records"))
	}
	return resp.Prediction, nil
}

// Recommend posts {"data": lastPurchase} and returns the recommended products.
func (c *Client) Recommend(ctx context.Context, lastPurchase string) ([]schema.RecommendationItem, error) {
	if strings.TrimSpace(lastPurchase) == "" {
		return nil, contract.NewRequestError(contract.ReasonInvalidInput, errors.New("last purchase is empty"))
	}
	body, err := json.Marshal(map[string]string{"data": lastPurchase})
	if err != nil {
		return nil, contract.NewRequestError(contract.ReasonInvalidInput, err)
	}

	blob, err := c.post(ctx, c.cfg.RecommendURL, "application/json", body)
	if err != nil {
		return nil, err
	}

	var raw []recommendationWire
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, contract.NewRequestError(contract.ReasonDecode, err)
	}
	if len(raw) == 0 {
		return nil, contract.NewRequestError(contract.ReasonEmpty, errors.New("response has no recommendations"))
	}
	items := make([]schema.RecommendationItem, len(raw))
	for i, r := range raw {
		items[i] = r.item()
	}
	return items, nil
}

// Classify sends the image and returns its label.
func (c *Client) Classify(ctx context.Context, fileName string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", contract.NewRequestError(contract.ReasonInvalidInput, errors.New("image is empty"))
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	if c.cfg.ClassifyEncoding == contract.JSONEncoding {
		body, err = json.Marshal(map[string]string{"data": base64.StdEncoding.EncodeToString(image)})
		contentType = "application/json"
	} else {
		body, contentType, err = multipartImage(fileName, image)
	}
	if err != nil {
		return "", contract.NewRequestError(contract.ReasonInvalidInput, err)
	}

	blob, err := c.post(ctx, c.cfg.ClassifyURL, contentType, body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Classification *string `json:"classification"`
		Prediction     *string `json:"prediction"`
	}
	if err := json.Unmarshal(blob, &resp); err != nil {
		return "", contract.NewRequestError(contract.ReasonDecode, err)
	}
	label := ""
	switch {
	case resp.Classification != nil:
		label = *resp.Classification
	case resp.Prediction != nil:
		label = *resp.Prediction
	}
	if strings.TrimSpace(label) == "" {
		return "", contract.NewRequestError(contract.ReasonEmpty, errors.New("response has no classification"))
	}
	return label, nil
}

// multipartImage encodes the image as form field "image".
func multipartImage(fileName string, image []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	name := filepath.Base(fileName)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "image"
	}
	part, err := mw.CreateFormFile("image", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

// post sends one request and returns the body of a 2xx response.
func (c *Client) post(ctx context.Context, endpoint, contentType string, body []byte) ([]byte, error) {
	if endpoint == "" {
		return nil, contract.NewRequestError(contract.ReasonUnconfigured, errors.New("endpoint URL is not set"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, contract.NewRequestError(contract.ReasonInvalidInput, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, contract.NewRequestError(contract.ReasonTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		blob, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &contract.RequestError{
			Reason:     contract.ReasonStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body=%s", strings.TrimSpace(string(blob))),
		}
	}

	blob, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, contract.NewRequestError(contract.ReasonTransport, err)
	}
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil, contract.NewRequestError(contract.ReasonEmpty, errors.New("response body is empty"))
	}
	return blob, nil
}
