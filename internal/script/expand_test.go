package script

import (
	"testing"
	"time"
)

func newTestExpander() *Expander {
	return NewExpander(nil, time.Second)
}

func TestExpandWithoutPlaceholdersIsIdentity(t *testing.T) {
	e := newTestExpander()
	template := "https://x/api?type=search"
	if got := e.Expand(template, Variables{"keyword": "ignored"}); got != template {
		t.Fatalf("expected template unchanged, got %q", got)
	}
}

func TestExpandLiteralSubstitution(t *testing.T) {
	e := newTestExpander()
	vars := Variables{"keyword": "hello", "page": 2, "limit": int64(20)}

	got := e.Expand("https://x/s?kw={{keyword}}&p={page}&n={{limit}}", vars)
	want := "https://x/s?kw=hello&p=2&n=20"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpandExpressionArithmetic(t *testing.T) {
	e := newTestExpander()
	got := e.Expand("https://x/s?kw={{keyword}}&p={{(page || 1) - 1}}", Variables{
		"keyword": "test",
		"page":    3,
	})
	want := "https://x/s?kw=test&p=2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpandExpressionDefaultIdiom(t *testing.T) {
	e := newTestExpander()
	got := e.Expand("p={{(page || 1) - 1}}", Variables{"keyword": "x"})
	if got != "p=0" {
		t.Fatalf("got %q, want p=0", got)
	}
}

func TestExpandTernaryAndBoolean(t *testing.T) {
	e := newTestExpander()
	got := e.Expand("t={{ hd ? 'flac' : '320k' }}", Variables{"hd": true})
	if got != "t=flac" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandIntegerResultsDropDecimalPoint(t *testing.T) {
	e := newTestExpander()
	if got := e.Expand("n={{ 10 / 4 }}", nil); got != "n=2.5" {
		t.Fatalf("got %q, want n=2.5", got)
	}
	if got := e.Expand("n={{ 10 / 5 }}", nil); got != "n=2" {
		t.Fatalf("got %q, want n=2", got)
	}
}

func TestExpandLiteralValueIsNotReEvaluated(t *testing.T) {
	e := newTestExpander()
	got := e.Expand("q={{kw}}", Variables{"kw": "{{danger}}", "danger": "boom"})
	if got != "q={{danger}}" {
		t.Fatalf("value containing expression syntax must stay literal, got %q", got)
	}
}

func TestExpandDeniedExpressionLeftUntouched(t *testing.T) {
	e := newTestExpander()
	template := "x={{ process.exit(1) }}"
	if got := e.Expand(template, nil); got != template {
		t.Fatalf("denied expression must stay unexpanded, got %q", got)
	}
}

func TestExpandBrokenExpressionLeftUntouched(t *testing.T) {
	e := newTestExpander()
	template := "x={{ missingVar + 1 }}&y={{ 1 + 1 }}"
	got := e.Expand(template, nil)
	if got != "x={{ missingVar + 1 }}&y=2" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandSanitizesVariableNames(t *testing.T) {
	e := newTestExpander()
	got := e.Expand("id={{ song_id }}", Variables{"song-id": "42"})
	if got != "id=42" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandRunawayExpressionInterrupted(t *testing.T) {
	e := NewExpander(nil, 20*time.Millisecond)
	template := "x={{ (function(){ while(true){} })() }}"
	done := make(chan string, 1)
	go func() { done <- e.Expand(template, nil) }()
	select {
	case got := <-done:
		if got != template {
			t.Fatalf("interrupted expression must stay unexpanded, got %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expression loop was not interrupted")
	}
}

func TestSanitizeIdent(t *testing.T) {
	cases := map[string]string{
		"keyword": "keyword",
		"song-id": "song_id",
		"a.b c":   "a_b_c",
		"页":       "_",
	}
	for input, want := range cases {
		if got := sanitizeIdent(input); got != want {
			t.Fatalf("sanitizeIdent(%q) = %q, want %q", input, got, want)
		}
	}
}
