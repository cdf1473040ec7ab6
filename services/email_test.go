package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSender struct {
	failFirst bool
	calls     []fakeSend
}

type fakeSend struct {
	from string
	to   []string
	msg  string
}

func (f *fakeSender) Send(from string, to []string, msg []byte) error {
	f.calls = append(f.calls, fakeSend{from: from, to: to, msg: string(msg)})
	if f.failFirst && len(f.calls) == 1 {
		return errors.New("smtp: connection refused")
	}
	return nil
}

func TestEmailService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivers to valid recipients", func(t *testing.T) {
		sender := &fakeSender{}
		svc := CreateEmailServiceWithSender(sender, "noreply@taskhub.dev", "")

		err := svc.Send(ctx, "Hello", "body", []string{"user@example.com"})
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if len(sender.calls) != 1 {
			t.Fatalf("got %d sends, want 1", len(sender.calls))
		}
		if sender.calls[0].to[0] != "user@example.com" {
			t.Errorf("recipient = %s, want user@example.com", sender.calls[0].to[0])
		}
	})

	t.Run("Dedupes and drops invalid addresses", func(t *testing.T) {
		sender := &fakeSender{}
		svc := CreateEmailServiceWithSender(sender, "noreply@taskhub.dev", "")

		err := svc.Send(ctx, "Hello", "body", []string{
			"user@example.com",
			"user@example.com",
			"not-an-address",
			" ",
		})
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if got := sender.calls[0].to; len(got) != 1 {
			t.Errorf("recipients = %v, want exactly one", got)
		}
	})

	t.Run("No valid recipients is an error", func(t *testing.T) {
		sender := &fakeSender{}
		svc := CreateEmailServiceWithSender(sender, "noreply@taskhub.dev", "")

		if err := svc.Send(ctx, "Hello", "body", []string{"garbage"}); err == nil {
			t.Error("Send should fail without valid recipients")
		}
		if len(sender.calls) != 0 {
			t.Errorf("got %d sends, want 0", len(sender.calls))
		}
	})

	t.Run("Falls back to sender address on failure", func(t *testing.T) {
		sender := &fakeSender{failFirst: true}
		svc := CreateEmailServiceWithSender(sender, "noreply@taskhub.dev", "")

		err := svc.Send(ctx, "Hello", "body", []string{"user@example.com"})
		if err != nil {
			t.Fatalf("Send should succeed via fallback, got %v", err)
		}
		if len(sender.calls) != 2 {
			t.Fatalf("got %d sends, want 2", len(sender.calls))
		}

		fallback := sender.calls[1]
		if fallback.to[0] != "noreply@taskhub.dev" {
			t.Errorf("fallback recipient = %s, want the sender address", fallback.to[0])
		}
		if !strings.Contains(fallback.msg, "[fallback]") {
			t.Error("fallback message should be marked as such")
		}
	})

	t.Run("Empty recipients use notify address", func(t *testing.T) {
		sender := &fakeSender{}
		svc := CreateEmailServiceWithSender(sender, "noreply@taskhub.dev", "admin@taskhub.dev")

		if err := svc.Send(ctx, "Hello", "body", nil); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if sender.calls[0].to[0] != "admin@taskhub.dev" {
			t.Errorf("recipient = %s, want admin@taskhub.dev", sender.calls[0].to[0])
		}
	})
}
