package docstrange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const extractPath = "/extract"

// ExtractWithSchema implements extract.Extractor for the nested schema request.
func (c *Client) ExtractWithSchema(ctx context.Context, path string, schema map[string]any) (map[string]any, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return c.extract(ctx, "schema", path, map[string]string{
		"output_format": "json",
		"json_schema":   string(b),
	})
}

// ExtractFields implements extract.Extractor for the flat field request.
func (c *Client) ExtractFields(ctx context.Context, path string, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields requested")
	}
	return c.extract(ctx, "fields", path, map[string]string{
		"output_format":    "json",
		"specified_fields": strings.Join(fields, ","),
	})
}

func (c *Client) extract(ctx context.Context, mode, path string, form map[string]string) (map[string]any, error) {
	rid := uuid.New().String()
	start := time.Now()

	body, contentType, err := buildMultipart(path, form)
	if err != nil {
		c.log.Error("extract.http.build_request_error", "req_id", rid, "mode", mode, "error", err)
		return nil, err
	}

	c.log.Info("extract.http.request",
		"req_id", rid,
		"mode", mode,
		"file", filepath.Base(path),
		"content_length", body.Len(),
	)

	raw, status, err := c.post(ctx, c.cfg.BaseURL+extractPath, body, contentType)
	if err != nil {
		c.log.Error("extract.http.error",
			"req_id", rid, "mode", mode, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	out, err := decodeObject(raw)
	if err != nil {
		c.log.Error("extract.http.decode_error",
			"req_id", rid, "mode", mode, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.log.Info("extract.http.ok",
		"req_id", rid,
		"mode", mode,
		"keys", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, body io.Reader, contentType string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("extractor http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("extractor response body close error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, resp.StatusCode, fmt.Errorf("extractor status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, resp.StatusCode, nil
}

func buildMultipart(path string, form map[string]string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy document: %w", err)
	}
	for k, v := range form {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// decodeObject keeps numbers as json.Number so amounts are not rounded twice.
func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode extractor response: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("extractor response is %T, want object", v)
	}
	return m, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
