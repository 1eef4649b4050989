package qa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testTable() map[string][]string {
	return map[string][]string{
		"city":       {"Paris", "Berlin"},
		"population": {"2161000", "3645000"},
	}
}

func TestClient_Answer(t *testing.T) {
	var gotPath string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Inputs struct {
				Query string              `json:"query"`
				Table map[string][]string `json:"table"`
			} `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Inputs.Query != "largest city?" {
			t.Errorf("query: got %q", req.Inputs.Query)
		}
		if len(req.Inputs.Table["city"]) != 2 {
			t.Errorf("table not forwarded: %v", req.Inputs.Table)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"answer": "Berlin",
			"cells":  []string{"Berlin"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "google/tapas-base-finetuned-wtq", "hf_token")
	ans, err := c.Answer(context.Background(), testTable(), "largest city?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Text != "Berlin" {
		t.Errorf("answer: got %q, want Berlin", ans.Text)
	}
	if gotPath != "/models/google/tapas-base-finetuned-wtq" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotAuth != "Bearer hf_token" {
		t.Errorf("authorization: got %q", gotAuth)
	}
}

func TestClient_Answer_EndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model is loading"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", "")
	_, err := c.Answer(context.Background(), testTable(), "q")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestClient_Answer_EmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", "")
	if _, err := c.Answer(context.Background(), testTable(), "q"); err == nil {
		t.Fatal("expected error for empty answer")
	}
}

func TestMock_Answer(t *testing.T) {
	ans, err := Mock{}.Answer(context.Background(), testTable(), "how many rows?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(ans.Text, "2 rows") {
		t.Errorf("mock answer should mention the row count: %q", ans.Text)
	}
}
