package notify

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("from@example.com", "to@example.com", "Subject line", "body text")

	headerEnd := strings.Index(msg, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatalf("expected blank line between headers and body")
	}
	headers := msg[:headerEnd]

	for _, want := range []string{
		"From: from@example.com",
		"To: to@example.com",
		"Subject: Subject line",
		"Content-Type: text/plain",
	} {
		if !strings.Contains(headers, want) {
			t.Fatalf("headers missing %q:\n%s", want, headers)
		}
	}
	if !strings.HasSuffix(msg, "body text") {
		t.Fatalf("body mangled: %q", msg)
	}
}

func TestSMTPMailerDialFailure(t *testing.T) {
	m := NewSMTPMailer("127.0.0.1", 1, "", "", "from@example.com")
	m.Timeout = 100 * time.Millisecond

	err := m.Send(context.Background(), "to@example.com", "subject", "body")
	if err == nil {
		t.Fatalf("expected dial error")
	}
	if !strings.Contains(err.Error(), "dial smtp") {
		t.Fatalf("unexpected error: %v", err)
	}
}
