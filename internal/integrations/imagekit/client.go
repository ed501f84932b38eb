package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"comercio-backend/config"
)

const uploadEndpoint = "https://upload.imagekit.io/api/v1/files/upload"

// Client talks to the ImageKit upload REST API. ImageKit authenticates with
// HTTP basic auth, private key as username and empty password.
type Client struct {
	cfg  config.ImageKitConfig
	http *http.Client
}

func NewClient(cfg config.ImageKitConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader, folder string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", err
	}
	_ = writer.WriteField("fileName", fileName)
	if folder != "" {
		_ = writer.WriteField("folder", folder)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadEndpoint, &body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.PrivateKey, "")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("imagekit upload failed: status %d: %s", resp.StatusCode, payload)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.URL, nil
}
