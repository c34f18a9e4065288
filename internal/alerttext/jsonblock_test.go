package alerttext

import (
	"reflect"
	"testing"
)

func TestExtractAroundNestedBraces(t *testing.T) {
	got := ExtractAround(`prefix {"items":{"a":{"b":1}}} suffix`, `"items"`)
	want := `{"items":{"a":{"b":1}}}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractAroundKeyBeforeBrace(t *testing.T) {
	got := ExtractAround(`Needs: {"hdmi":"prepared"}`, "Needs")
	want := `{"hdmi":"prepared"}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractAroundMissingKey(t *testing.T) {
	if got := ExtractAround(`{"a":1}`, `"items"`); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestExtractAroundUnbalanced(t *testing.T) {
	if got := ExtractAround(`start {"items": {"a": 1`, `"items"`); got != "" {
		t.Fatalf("expected empty result for unbalanced braces, got %q", got)
	}
}

func TestExtractBlocks(t *testing.T) {
	got := ExtractBlocks(`a {"x":1} b {"y":{"z":2}} c`)
	want := []string{`{"x":1}`, `{"y":{"z":2}}`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractBlocksSkipsUnbalancedOpen(t *testing.T) {
	got := ExtractBlocks(`broken { start {"ok":1}`)
	// The outer "{" never closes; the balanced inner block is still found.
	want := []string{`{"ok":1}`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFirstStructuredBlockPrefersQualifyingKeys(t *testing.T) {
	text := `note {"foo":"bar"} and {"items":{"hdmi":"prepared"}}`
	obj := FirstStructuredBlock(text)
	if obj == nil {
		t.Fatal("expected a structured block")
	}
	if _, ok := obj["items"]; !ok {
		t.Fatalf("expected the items-bearing block, got %v", obj)
	}
}

func TestFirstStructuredBlockFallsBackToAnyObject(t *testing.T) {
	obj := FirstStructuredBlock(`junk {not json} then {"foo":"bar"}`)
	if obj == nil {
		t.Fatal("expected fallback object")
	}
	if obj["foo"] != "bar" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestFirstStructuredBlockNone(t *testing.T) {
	if obj := FirstStructuredBlock("plain text without braces"); obj != nil {
		t.Fatalf("expected nil, got %v", obj)
	}
}
