package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// HTTPRecognizer is the primary recognition adapter: it posts a page image
// to a remote OCR service and parses the JSON response into the typed model.
// The service is expected to return per-region pixel boxes.
type HTTPRecognizer struct {
	baseURL   string
	languages []string
	client    *http.Client
}

// serviceError is the error envelope returned by the OCR service.
type serviceError struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// NewHTTPRecognizer validates the configured language tags and returns an
// adapter for the OCR service at baseURL. Language validation happens here
// so an unsupported tag fails at startup rather than on every page.
func NewHTTPRecognizer(baseURL string, languages []string, client *http.Client) (*HTTPRecognizer, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid OCR service URL %q: %w", baseURL, err)
	}
	for _, lang := range languages {
		if _, err := language.Parse(lang); err != nil {
			return nil, newError(ReasonUnsupportedLanguage, "",
				fmt.Errorf("language %q: %w", lang, err))
		}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRecognizer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		languages: languages,
		client:    client,
	}, nil
}

func (h *HTTPRecognizer) Recognize(ctx context.Context, imagePath string) (*PageResult, error) {
	body, contentType, err := h.buildRequestBody(imagePath)
	if err != nil {
		return nil, newError(ReasonEngine, imagePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/ocr/image", body)
	if err != nil {
		return nil, newError(ReasonEngine, imagePath, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, newError(ReasonTimeout, imagePath, err)
		}
		return nil, newError(ReasonEngine, imagePath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, h.statusError(resp, imagePath)
	}

	var page wirePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, newError(ReasonInvalidResult, imagePath, err)
	}
	result, err := parseWirePage(page)
	if err != nil {
		return nil, newError(ReasonInvalidResult, imagePath, err)
	}
	if result.FullText == "" && len(result.Words) == 0 {
		return nil, newError(ReasonNoResults, imagePath, errors.New("empty page"))
	}
	return result, nil
}

func (h *HTTPRecognizer) buildRequestBody(imagePath string) (io.Reader, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(h.languages) > 0 {
		if err := mw.WriteField("languages", strings.Join(h.languages, ",")); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (h *HTTPRecognizer) statusError(resp *http.Response, imagePath string) error {
	var se serviceError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&se)

	msg := se.Error
	if msg == "" {
		msg = resp.Status
	}
	switch se.ErrorType {
	case "unsupported_language":
		return newError(ReasonUnsupportedLanguage, imagePath, errors.New(msg))
	case "timeout":
		return newError(ReasonTimeout, imagePath, errors.New(msg))
	default:
		return newError(ReasonEngine, imagePath,
			fmt.Errorf("service returned %d: %s", resp.StatusCode, msg))
	}
}
