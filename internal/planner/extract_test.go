package planner

import (
	"errors"
	"testing"

	errx "github.com/yatrika/server/internal/core/error"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	raw := "Here is your itinerary:\n```json\n{\"plan\": []}\n```\nEnjoy your trip!"
	doc, err := ExtractJSON(raw, ObjectMode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(doc) != `{"plan": []}` {
		t.Fatalf("unexpected document: %s", doc)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	doc, err := ExtractJSON(raw, ObjectMode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(doc) != `{"a": 1}` {
		t.Fatalf("unexpected document: %s", doc)
	}
}

func TestExtractJSONProseWrapped(t *testing.T) {
	doc, err := ExtractJSON(`Sure! {"a":1} hope that helps`, ObjectMode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(doc) != `{"a":1}` {
		t.Fatalf("unexpected document: %s", doc)
	}
}

func TestExtractJSONPrefersJSONFence(t *testing.T) {
	raw := "```\nnot this one\n```\n```json\n{\"picked\": true}\n```"
	doc, err := ExtractJSON(raw, ObjectMode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(doc) != `{"picked": true}` {
		t.Fatalf("unexpected document: %s", doc)
	}
}

func TestExtractJSONArrayMode(t *testing.T) {
	raw := "Adjusted activities:\n```json\n[{\"time\": \"Morning\"}]\n```"
	doc, err := ExtractJSON(raw, ArrayMode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(doc) != `[{"time": "Morning"}]` {
		t.Fatalf("unexpected document: %s", doc)
	}
}

func TestExtractJSONNoDocument(t *testing.T) {
	_, err := ExtractJSON("no json here at all", ObjectMode)
	if err == nil {
		t.Fatal("expected error for reply without JSON")
	}
	if errx.KindOf(err) != errx.KindMalformedOutput {
		t.Fatalf("expected malformed output kind, got %v", errx.KindOf(err))
	}
}

func TestExtractJSONInvalidSlice(t *testing.T) {
	_, err := ExtractJSON(`{"broken": }`, ObjectMode)
	if err == nil {
		t.Fatal("expected error for invalid JSON slice")
	}
	var appErr *errx.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Message != errx.MalformedOutputMessage {
		t.Fatalf("unexpected user message: %s", appErr.Message)
	}
}
