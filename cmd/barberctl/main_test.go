package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp(zap.NewNop())
	var out bytes.Buffer
	app.Writer = &out
	err := app.RunContext(context.Background(), append([]string{"barberctl"}, args...))
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := runApp(t, "resolve", "--phone", "(832) 708-0194", "--carrier", "Verizon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "8327080194@vtext.com" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPreviewCommand(t *testing.T) {
	out, err := runApp(t, "preview", "Ann 09:00", "Bo Li 10:30", "Cy 13:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "part 1/2") || !strings.Contains(out, "part 2/2") {
		t.Fatalf("expected two parts, got %q", out)
	}
	if !strings.Contains(out, "2. Bo Li 10:30 AM") {
		t.Fatalf("expected a multi-word name kept whole, got %q", out)
	}
}

func TestParseEntries(t *testing.T) {
	if _, err := parseEntries([]string{"NoTime"}); err == nil {
		t.Fatal("expected an error for a missing time")
	}
	if _, err := parseEntries([]string{"Ann 9am"}); err == nil {
		t.Fatal("expected an error for a malformed time")
	}
	got, err := parseEntries([]string{"Mary Jo 14:15"})
	if err != nil || len(got) != 1 || got[0].ClientName != "Mary Jo" || got[0].Time != "14:15" {
		t.Fatalf("unexpected entries %+v, %v", got, err)
	}
}

func TestClientSendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Access token required"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "parts": 3})
	}))
	defer srv.Close()

	var res struct {
		Parts int `json:"parts"`
	}
	if err := newClient(srv.URL+"/", "tok").post(context.Background(), "/api/send-daily-reminder", nil, &res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Parts != 3 {
		t.Fatalf("expected 3 parts, got %d", res.Parts)
	}

	err := newClient(srv.URL, "").get(context.Background(), "/api/notifications", nil)
	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Access token required" {
		t.Fatalf("expected a decoded 401, got %v", err)
	}
}
