package params

import (
	"net/url"
	"testing"
)

func TestFormParameters_GetString(t *testing.T) {
	p := NewFormParameters(url.Values{
		"client": {"  web_app  "},
	})
	if got := p.GetString("client"); got != "web_app" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := p.GetString("absent"); got != "" {
		t.Fatalf("expected empty string for absent key, got %q", got)
	}
}

func TestFormParameters_GetStringArray(t *testing.T) {
	p := NewFormParameters(url.Values{
		"roles": {"user", " tester ", ""},
	})
	roles := p.GetStringArray("roles")
	if len(roles) != 2 || roles[0] != "user" || roles[1] != "tester" {
		t.Fatalf("unexpected array: %v", roles)
	}
}

func TestFormParameters_GetJSON_LazyParse(t *testing.T) {
	p := NewFormParameters(url.Values{
		"tToken": {`{"token":"abc","ts":123}`},
	})
	parsed, err := p.GetJSON("tToken")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed["token"] != "abc" {
		t.Fatalf("expected embedded object to parse, got %v", parsed)
	}

	if parsed, err := p.GetJSON("absent"); err != nil || parsed != nil {
		t.Fatalf("expected nil for absent key, got %v / %v", parsed, err)
	}
}

func TestFormParameters_GetJSON_MalformedFailsLoudly(t *testing.T) {
	p := NewFormParameters(url.Values{
		"tToken": {`{"token":`},
	})
	if _, err := p.GetJSON("tToken"); err == nil {
		t.Fatalf("expected malformed object to fail")
	}
	if _, err := NewFormParameters(url.Values{"list": {`[1,`}}).GetJSONArray("list"); err == nil {
		t.Fatalf("expected malformed array to fail")
	}
}

func TestFormParameters_GetBoolOrDefault(t *testing.T) {
	p := NewFormParameters(url.Values{
		"flag": {"true"},
		"bad":  {"not-a-bool"},
	})
	value, err := p.GetBoolOrDefault("flag", false)
	if err != nil || !value {
		t.Fatalf("expected true, got %v / %v", value, err)
	}
	value, err = p.GetBoolOrDefault("absent", true)
	if err != nil || !value {
		t.Fatalf("expected fallback for absent key, got %v / %v", value, err)
	}
	if _, err := p.GetBoolOrDefault("bad", false); err == nil {
		t.Fatalf("expected type error for non-boolean value")
	}
}

func TestFormParameters_GetObject(t *testing.T) {
	p := NewFormParameters(url.Values{"key": {"value"}})
	value, ok := p.GetObject("key")
	if !ok || value != "value" {
		t.Fatalf("expected raw string value, got %v / %v", value, ok)
	}
	if _, ok := p.GetObject("absent"); ok {
		t.Fatalf("expected absent key to report false")
	}
}
