// Package mistral provides an OCR service adapter using the Mistral OCR API.
//
// A document is uploaded with purpose "ocr", a signed URL is requested for
// it, and the URL is handed to the OCR endpoint which returns one markdown
// document per page. The uploaded file is deleted afterwards.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// Ensure OCRService implements the interface.
var _ driven.OCRService = (*OCRService)(nil)

// Default configuration values.
const (
	DefaultTimeout = 300 * time.Second

	// signedURLExpiryHours is how long the OCR endpoint may fetch the upload.
	signedURLExpiryHours = 1
)

// Config holds configuration for the Mistral OCR service.
type Config struct {
	// APIKey is the Mistral API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.mistral.ai/v1).
	BaseURL string

	// Model is the OCR model (default: mistral-ocr-latest).
	Model string

	// RequestsPerSecond throttles API calls; zero disables throttling.
	RequestsPerSecond float64

	// IncludeImages asks for base64 page images in the response.
	IncludeImages bool

	// Timeout is the per-request timeout (default: 300s).
	Timeout time.Duration
}

// OCRService converts PDFs to page markdown with the Mistral OCR API.
type OCRService struct {
	client        *http.Client
	limiter       *RateLimiter
	baseURL       string
	apiKey        string
	model         string
	includeImages bool
}

// uploadResponse is the /files response format.
type uploadResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// signedURLResponse is the /files/{id}/url response format.
type signedURLResponse struct {
	URL string `json:"url"`
}

// ocrRequest is the /ocr request format.
type ocrRequest struct {
	Model              string      `json:"model"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64,omitempty"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

// ocrResponse is the /ocr response format.
type ocrResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
	Model     string `json:"model"`
	UsageInfo struct {
		PagesProcessed int `json:"pages_processed"`
	} `json:"usage_info"`
}

// apiError is the error body returned by the API.
type apiError struct {
	Message any    `json:"message"`
	Detail  any    `json:"detail"`
	Type    string `json:"type"`
}

// New creates a new Mistral OCR service.
func New(cfg Config) (*OCRService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral: API key is required: %w", domain.ErrAuthRequired)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultOCRBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultOCRModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &OCRService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:       NewRateLimiter(cfg.RequestsPerSecond),
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		includeImages: cfg.IncludeImages,
	}, nil
}

// Name identifies the service for logging.
func (s *OCRService) Name() string {
	return "mistral"
}

// Supports reports whether the service can process the given format.
func (s *OCRService) Supports(format domain.InputFormat) bool {
	return format == domain.FormatPDF
}

// Process uploads the document and returns its pages in order.
func (s *OCRService) Process(ctx context.Context, doc domain.SourceDocument) ([]domain.Page, error) {
	if len(doc.Content) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	fileID, err := s.upload(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer s.deleteFile(fileID)

	signedURL, err := s.signedURL(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("signed url: %w", err)
	}

	resp, err := s.ocr(ctx, signedURL)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	sort.Slice(resp.Pages, func(i, j int) bool {
		return resp.Pages[i].Index < resp.Pages[j].Index
	})

	pages := make([]domain.Page, len(resp.Pages))
	for i, p := range resp.Pages {
		pages[i] = domain.Page{
			Number:   p.Index + 1,
			Markdown: norm.NFC.String(p.Markdown),
		}
	}

	logger.Debug("mistral: %d pages from %s (model %s)", len(pages), doc.Name, resp.Model)
	return pages, nil
}

// upload sends the raw document and returns the file ID.
func (s *OCRService) upload(ctx context.Context, doc domain.SourceDocument) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", "ocr"); err != nil {
		return "", fmt.Errorf("write purpose: %w", err)
	}
	part, err := writer.CreateFormFile("file", doc.Name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(doc.Content); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	var resp uploadResponse
	if err := s.do(ctx, http.MethodPost, "/files", writer.FormDataContentType(), &body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("mistral: upload returned no file id")
	}
	return resp.ID, nil
}

// signedURL requests a short-lived URL the OCR endpoint can fetch.
func (s *OCRService) signedURL(ctx context.Context, fileID string) (string, error) {
	path := "/files/" + url.PathEscape(fileID) + "/url?expiry=" + strconv.Itoa(signedURLExpiryHours)

	var resp signedURLResponse
	if err := s.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("mistral: no signed url returned")
	}
	return resp.URL, nil
}

// ocr runs recognition on a document URL.
func (s *OCRService) ocr(ctx context.Context, documentURL string) (*ocrResponse, error) {
	reqBody := ocrRequest{
		Model: s.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
		IncludeImageBase64: s.includeImages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp ocrResponse
	if err := s.do(ctx, http.MethodPost, "/ocr", "application/json", bytes.NewReader(jsonBody), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// deleteFile removes an uploaded document. Failures are only logged.
func (s *OCRService) deleteFile(fileID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.do(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), "", nil, nil); err != nil {
		logger.Warn("mistral: delete uploaded file %s: %v", fileID, err)
	}
}

// do sends one throttled request and decodes a JSON response into out.
func (s *OCRService) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := s.checkStatus(resp, respBody); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkStatus maps HTTP failures onto domain errors.
func (s *OCRService) checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	message := errorMessage(body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("mistral: %s: %w", message, domain.ErrAuthRequired)
	case http.StatusTooManyRequests:
		s.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		return fmt.Errorf("mistral: %s: %w", message, domain.ErrRateLimited)
	default:
		return fmt.Errorf("mistral error (status %d): %s", resp.StatusCode, message)
	}
}

// errorMessage extracts a readable message from an error body.
func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		for _, v := range []any{apiErr.Message, apiErr.Detail} {
			switch m := v.(type) {
			case string:
				if m != "" {
					return m
				}
			case nil:
			default:
				if b, err := json.Marshal(m); err == nil {
					return string(b)
				}
			}
		}
	}
	if len(body) == 0 {
		return "no response body"
	}
	return string(body)
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
