package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	defaultUploadBaseURL   = "https://api.cloudinary.com"
	defaultDeliveryBaseURL = "https://res.cloudinary.com"
	defaultUploadTimeout   = 120 * time.Second
)

// CloudinaryOptions configures the Cloudinary media store client.
type CloudinaryOptions struct {
	CloudName       string
	APIKey          string
	APISecret       string
	UploadBaseURL   string
	DeliveryBaseURL string
	HTTPClient      *http.Client
	Now             func() time.Time
}

// Cloudinary uploads image bytes through the signed upload API and builds
// delivery URLs with optional transformations.
type Cloudinary struct {
	cloudName       string
	apiKey          string
	apiSecret       string
	uploadBaseURL   string
	deliveryBaseURL string
	client          *http.Client
	now             func() time.Time
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinary(opts CloudinaryOptions) (*Cloudinary, error) {
	if strings.TrimSpace(opts.CloudName) == "" {
		return nil, errors.New("cloudinary cloud name is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" || strings.TrimSpace(opts.APISecret) == "" {
		return nil, errors.New("cloudinary api credentials are required")
	}
	uploadBase := strings.TrimRight(opts.UploadBaseURL, "/")
	if uploadBase == "" {
		uploadBase = defaultUploadBaseURL
	}
	deliveryBase := strings.TrimRight(opts.DeliveryBaseURL, "/")
	if deliveryBase == "" {
		deliveryBase = defaultDeliveryBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultUploadTimeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cloudinary{
		cloudName:       strings.TrimSpace(opts.CloudName),
		apiKey:          strings.TrimSpace(opts.APIKey),
		apiSecret:       strings.TrimSpace(opts.APISecret),
		uploadBaseURL:   uploadBase,
		deliveryBaseURL: deliveryBase,
		client:          client,
		now:             now,
	}, nil
}

// Upload stores the bytes via the signed upload endpoint and returns the
// canonical secure URL.
func (c *Cloudinary) Upload(ctx context.Context, data []byte, opts UploadOptions) (*Upload, error) {
	if len(data) == 0 {
		return nil, errors.New("cloudinary: no data to upload")
	}

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", c.now().Unix()),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.Effect != "" {
		params["transformation"] = opts.Effect
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, val := range params {
		if err := form.WriteField(key, val); err != nil {
			return nil, fmt.Errorf("cloudinary: encode form: %w", err)
		}
	}
	if err := form.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("cloudinary: encode form: %w", err)
	}
	if err := form.WriteField("signature", signParams(params, c.apiSecret)); err != nil {
		return nil, fmt.Errorf("cloudinary: encode form: %w", err)
	}
	fileName := opts.FileName
	if fileName == "" {
		fileName = "upload"
	}
	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: encode form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("cloudinary: encode form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("cloudinary: encode form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.uploadBaseURL, c.cloudName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		if out.Error != nil && out.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary: status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return nil, fmt.Errorf("cloudinary: status %d", resp.StatusCode)
	}
	if out.SecureURL == "" {
		return nil, errors.New("cloudinary: response missing secure_url")
	}
	return &Upload{PublicID: out.PublicID, URL: out.SecureURL}, nil
}

// BuildURL derives a delivery URL, optionally with a transformation segment
// such as "e_gen_remove:chair".
func (c *Cloudinary) BuildURL(publicID, transformation string) string {
	if transformation == "" {
		return fmt.Sprintf("%s/%s/image/upload/%s", c.deliveryBaseURL, c.cloudName, publicID)
	}
	return fmt.Sprintf("%s/%s/image/upload/%s/%s", c.deliveryBaseURL, c.cloudName, transformation, publicID)
}

// signParams produces the Cloudinary request signature: the parameters sorted
// by name, joined as a query string, with the API secret appended, hashed
// with SHA-1.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

var _ Uploader = (*Cloudinary)(nil)
