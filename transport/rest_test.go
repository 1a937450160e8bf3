package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubDoer struct {
	status   int
	body     string
	err      error
	lastBody map[string]any
	calls    int
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &d.lastBody)
	}
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(d.body))),
		Header:     http.Header{},
	}, nil
}

func TestClient_PostJSON_Success(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"result":"success","uid":"uid-1"}`}
	client := NewClient(doer)

	res, err := client.PostJSON(context.Background(), "https://auth.internal/authentication",
		map[string]any{"action": "check"}, map[string]string{"X-Node": "n1"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !res.Success || res.StatusCode != http.StatusOK {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Payload["uid"] != "uid-1" {
		t.Fatalf("expected payload to decode, got %v", res.Payload)
	}
	if doer.lastBody["action"] != "check" {
		t.Fatalf("expected request body to be sent, got %v", doer.lastBody)
	}
}

func TestClient_PostJSON_TransportFailure(t *testing.T) {
	doer := &stubDoer{err: fmt.Errorf("connection refused")}
	client := NewClient(doer)

	res, err := client.PostJSON(context.Background(), "https://auth.internal/authentication", nil, nil)
	if err != nil {
		t.Fatalf("transport failures must not be Go errors: %v", err)
	}
	if res.Success || res.StatusCode != 0 {
		t.Fatalf("expected failed response with zero status, got %+v", res)
	}
	if !strings.Contains(res.ErrorText, "connection refused") {
		t.Fatalf("expected cause in error text, got %q", res.ErrorText)
	}
}

func TestClient_PostJSON_NonSuccessStatus(t *testing.T) {
	doer := &stubDoer{status: http.StatusUnauthorized, body: `denied`}
	client := NewClient(doer)

	res, err := client.PostJSON(context.Background(), "https://auth.internal/authentication", nil, nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.Success {
		t.Fatalf("expected non-2xx to fail")
	}
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status to be preserved, got %d", res.StatusCode)
	}
	if !strings.Contains(res.ErrorText, "401") {
		t.Fatalf("expected status in error text, got %q", res.ErrorText)
	}
}

func TestClient_PostJSON_MalformedPayload(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"result":`}
	client := NewClient(doer)

	res, err := client.PostJSON(context.Background(), "https://auth.internal/authentication", nil, nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.Success {
		t.Fatalf("expected undecodable payload to fail")
	}
}

func TestClient_PostJSON_BodyLimit(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"pad":"` + strings.Repeat("x", 64) + `"}`}
	client := NewClient(doer, WithResponseBodyLimit(16))

	res, err := client.PostJSON(context.Background(), "https://auth.internal/authentication", nil, nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.Success {
		t.Fatalf("expected oversized body to fail")
	}
}

func TestClient_PostJSON_RequiresEndpoint(t *testing.T) {
	client := NewClient(&stubDoer{status: http.StatusOK, body: `{}`})
	if _, err := client.PostJSON(context.Background(), "  ", nil, nil); err == nil {
		t.Fatalf("expected missing endpoint to be a caller error")
	}
}
