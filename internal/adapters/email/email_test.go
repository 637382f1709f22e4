package email

import (
	"context"
	"strings"
	"testing"
)

// TestRenderMarkdown verifies formatting is converted and raw HTML is not passed through.
func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("**Training 3** is cancelled.\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(html, "<strong>Training 3</strong>") {
		t.Errorf("html = %q, want bold title", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("html = %q, raw script tag leaked", html)
	}
}

// TestNoopSender_RecordsMessages verifies sends are captured in order.
func TestNoopSender_RecordsMessages(t *testing.T) {
	s := NewNoopSender()
	ctx := context.Background()

	if _, err := s.Send(ctx, SendRequest{To: []string{"a@example.com"}, Subject: "one"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	results, err := s.SendBatch(ctx, []SendRequest{
		{To: []string{"b@example.com"}, Subject: "two"},
		{To: []string{"c@example.com"}, Subject: "three"},
	})
	if err != nil {
		t.Fatalf("SendBatch() error = %v", err)
	}
	if len(results) != 2 || results[1].MessageID != "noop-3" {
		t.Errorf("results = %+v", results)
	}

	sent := s.Sent()
	if len(sent) != 3 || sent[2].Subject != "three" {
		t.Errorf("Sent() = %+v", sent)
	}
}

// TestResendSender_ParamsDefaults verifies default addresses and sorted tags.
func TestResendSender_ParamsDefaults(t *testing.T) {
	s := NewResendSender("re_test", "Club <club@example.com>", "coach@example.com")
	p := s.params(SendRequest{
		To:      []string{"a@example.com"},
		Subject: "Cancelled",
		Tags:    map[string]string{"session": "s1", "kind": "session_cancelled"},
	})
	if p.From != "Club <club@example.com>" || p.ReplyTo != "coach@example.com" {
		t.Errorf("From/ReplyTo = %q/%q, want defaults", p.From, p.ReplyTo)
	}
	if len(p.Tags) != 2 || p.Tags[0].Name != "kind" || p.Tags[1].Name != "session" {
		t.Errorf("Tags = %+v, want kind then session", p.Tags)
	}

	p = s.params(SendRequest{From: "other@example.com", ReplyTo: "x@example.com"})
	if p.From != "other@example.com" || p.ReplyTo != "x@example.com" {
		t.Errorf("explicit From/ReplyTo overridden: %q/%q", p.From, p.ReplyTo)
	}
}
