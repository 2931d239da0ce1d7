package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// LoadRootEntries reads the raw tracking export from a local path or HTTP
// URL and decodes the top-level JSON array of root entries. Unlike field
// extraction, a structurally broken document is fatal for the run: the
// pipeline has no partial-result contract for a half-readable export.
func LoadRootEntries(ctx context.Context, source string) ([]map[string]interface{}, error) {
	data, err := readSource(ctx, source)
	if err != nil {
		return nil, err
	}

	var roots []map[string]interface{}
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("failed to decode tracking export: %w", err)
	}
	return roots, nil
}

func readSource(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to GET tracking export: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("tracking export fetch returned status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read tracking export body: %w", err)
		}
		return body, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracking export file: %w", err)
	}
	return data, nil
}
