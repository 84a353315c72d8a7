//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// editorToken is sent on mutating requests when the server runs with the editor guard.
func editorToken() string {
	return os.Getenv("INTEGRATION_EDITOR_TOKEN")
}

func doJSON(t *testing.T, method, url string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := editorToken(); token != "" && (method == http.MethodPost || method == http.MethodDelete) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, url, err)
	}
	return resp, out
}

// createQuestion adds a uniquely worded question and registers its deletion.
func createQuestion(t *testing.T, baseURL string, category int) (int64, string) {
	t.Helper()

	text := fmt.Sprintf("Integration question %d", time.Now().UnixNano())
	resp, out := doJSON(t, http.MethodPost, baseURL+"/questions", map[string]interface{}{
		"question":   text,
		"answer":     "integration",
		"category":   category,
		"difficulty": 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create question: unexpected status %d: %v", resp.StatusCode, out)
	}
	id, ok := out["created"].(float64)
	if !ok {
		t.Fatalf("create question: missing created id: %v", out)
	}

	t.Cleanup(func() {
		doJSON(t, http.MethodDelete, fmt.Sprintf("%s/questions/%d", baseURL, int64(id)), nil)
	})
	return int64(id), text
}

func expectEnvelope(t *testing.T, resp *http.Response, out map[string]interface{}, status int, message string) {
	t.Helper()

	if resp.StatusCode != status {
		t.Fatalf("expected %d, got %d: %v", status, resp.StatusCode, out)
	}
	if out["success"] != false {
		t.Fatalf("expected success=false: %v", out)
	}
	if code, _ := out["error"].(float64); int(code) != status {
		t.Fatalf("expected error=%d: %v", status, out)
	}
	if out["message"] != message {
		t.Fatalf("expected message %q: %v", message, out)
	}
}
