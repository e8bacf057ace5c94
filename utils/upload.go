package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Uploader pushes image files to Cloudinary's unsigned upload endpoint.
// Calls go through a circuit breaker so a Cloudinary outage fails fast
// instead of holding request handlers open.
type Uploader struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
	uploadURL  string
	preset     string
	logger     *slog.Logger
}

func NewUploader(cloudName, uploadPreset string, logger *slog.Logger) *Uploader {
	settings := gobreaker.Settings{
		Name:        "cloudinary",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Uploader{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker[string](settings),
		uploadURL:  fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName),
		preset:     uploadPreset,
		logger:     logger,
	}
}

// UploadImage streams the file to Cloudinary and returns the hosted URL.
func (u *Uploader) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("write preset field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	url, err := u.breaker.Execute(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
		if err != nil {
			return "", fmt.Errorf("create upload request: %w", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := u.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("upload request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			data, _ := io.ReadAll(resp.Body)
			return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, data)
		}

		var result struct {
			SecureURL string `json:"secure_url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", fmt.Errorf("decode upload response: %w", err)
		}
		if result.SecureURL == "" {
			return "", fmt.Errorf("upload response missing secure_url")
		}
		return result.SecureURL, nil
	})
	if err != nil {
		return "", err
	}

	u.logger.InfoContext(ctx, "image uploaded", slog.String("url", url))
	return url, nil
}
