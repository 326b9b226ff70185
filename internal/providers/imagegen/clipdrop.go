package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://clipdrop-api.co"
	defaultTimeout = 90 * time.Second

	// maxImageBytes bounds how much of a synthesis response is read.
	maxImageBytes = 32 << 20
)

// Options configures the Clipdrop text-to-image client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the Clipdrop text-to-image endpoint. The endpoint answers with
// raw binary image data (PNG), not JSON.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("clipdrop api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{apiKey: strings.TrimSpace(opts.APIKey), baseURL: baseURL, client: client}, nil
}

// TextToImage synthesizes one image for the prompt and returns its bytes.
func (c *Client) TextToImage(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("clipdrop: encode form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("clipdrop: encode form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-image/v1", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("clipdrop: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("clipdrop: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("clipdrop: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("clipdrop: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("clipdrop: empty image response")
	}
	return data, nil
}
