package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultImgBBEndpoint = "https://api.imgbb.com/1/upload"

// maxResponseBytes caps how much of the host's reply is read.
const maxResponseBytes = 1 << 20

// ImgBBConfig contains options for creating a new ImgBB uploader.
type ImgBBConfig struct {
	APIKey string
	// Endpoint overrides the public imgbb API URL. Tests point it at a
	// local server.
	Endpoint string
	// MaxBytes rejects payloads above this size before any network call.
	// Zero means no client-side limit.
	MaxBytes   int64
	HTTPClient *http.Client
}

// ImgBB uploads images through the imgbb HTTP API. The image travels as a
// base64 form field per the imgbb contract.
type ImgBB struct {
	apiKey   string
	endpoint string
	maxBytes int64
	client   *http.Client
}

// NewImgBB creates a new ImgBB uploader.
func NewImgBB(cfg ImgBBConfig) (*ImgBB, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("imgbb: API key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultImgBBEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ImgBB{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		maxBytes: cfg.MaxBytes,
		client:   client,
	}, nil
}

// imgbbResponse is the subset of the imgbb reply this package cares about.
type imgbbResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// Upload sends the image and returns the hosted URL.
func (u *ImgBB) Upload(ctx context.Context, content []byte, filename, contentType string) (string, error) {
	if u.maxBytes > 0 && int64(len(content)) > u.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content))
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty image payload", ErrUpload)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("key", u.apiKey); err != nil {
		return "", fmt.Errorf("%w: building form: %v", ErrUpload, err)
	}
	if filename != "" {
		if err := form.WriteField("name", filename); err != nil {
			return "", fmt.Errorf("%w: building form: %v", ErrUpload, err)
		}
	}
	if err := form.WriteField("image", base64.StdEncoding.EncodeToString(content)); err != nil {
		return "", fmt.Errorf("%w: building form: %v", ErrUpload, err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("%w: building form: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpload, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: host returned status %d", ErrUpload, resp.StatusCode)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpload, err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return "", fmt.Errorf("%w: host reported failure", ErrUpload)
	}
	return parsed.Data.URL, nil
}
