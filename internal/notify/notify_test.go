package notify

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/givehope/donation-service/internal/core/domain"
)

func TestRenderApprovedEmail(t *testing.T) {
	subject, body, ok := RenderStatusEmail(domain.StatusEvent{
		DonorName: "Alice",
		ItemName:  "Medicines",
		Status:    domain.StatusApproved,
	})
	if !ok {
		t.Fatal("expected an email for approved status")
	}
	if !strings.Contains(subject, "Approved") {
		t.Errorf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Alice") || !strings.Contains(body, "Medicines") {
		t.Errorf("body missing donor or item: %q", body)
	}
}

func TestRenderRejectedEmail(t *testing.T) {
	subject, body, ok := RenderStatusEmail(domain.StatusEvent{
		DonorName: "Bob",
		ItemName:  "Books",
		Status:    domain.StatusRejected,
	})
	if !ok {
		t.Fatal("expected an email for rejected status")
	}
	if !strings.Contains(subject, "Rejected") {
		t.Errorf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "rejected") {
		t.Errorf("body missing decision: %q", body)
	}
}

func TestRenderUnknownStatusSendsNothing(t *testing.T) {
	if _, _, ok := RenderStatusEmail(domain.StatusEvent{Status: "archived"}); ok {
		t.Error("expected no email for an unknown status")
	}
}

func TestRenderEscapesDonorName(t *testing.T) {
	_, body, ok := RenderStatusEmail(domain.StatusEvent{
		DonorName: "<script>alert(1)</script>",
		ItemName:  "Books",
		Status:    domain.StatusApproved,
	})
	if !ok {
		t.Fatal("expected an email")
	}
	if strings.Contains(body, "<script>") {
		t.Error("donor name was not HTML-escaped")
	}
}

type recordingSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.calls++
	s.to, s.subject, s.body = to, subject, body
	return s.err
}

func TestWorkerDeliver(t *testing.T) {
	sender := &recordingSender{}
	w := NewWorker(nil, sender, zap.NewNop())

	payload, _ := json.Marshal(domain.StatusEvent{
		DonationID: "d-1",
		DonorName:  "Alice",
		DonorEmail: "alice@example.com",
		ItemName:   "Medicines",
		Status:     domain.StatusApproved,
	})
	w.deliver(string(payload))

	if sender.calls != 1 {
		t.Fatalf("expected 1 send, got %d", sender.calls)
	}
	if sender.to != "alice@example.com" {
		t.Errorf("expected delivery to donor, got %q", sender.to)
	}
}

func TestWorkerDeliverSwallowsSendErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("relay down")}
	w := NewWorker(nil, sender, zap.NewNop())

	payload, _ := json.Marshal(domain.StatusEvent{
		DonorEmail: "alice@example.com",
		Status:     domain.StatusRejected,
	})
	// Must not panic or propagate; failures are logged and swallowed.
	w.deliver(string(payload))

	if sender.calls != 1 {
		t.Fatalf("expected 1 attempted send, got %d", sender.calls)
	}
}

func TestWorkerDeliverSkipsUnknownStatus(t *testing.T) {
	sender := &recordingSender{}
	w := NewWorker(nil, sender, zap.NewNop())

	payload, _ := json.Marshal(domain.StatusEvent{Status: "pending"})
	w.deliver(string(payload))

	if sender.calls != 0 {
		t.Errorf("expected no send for pending status, got %d", sender.calls)
	}
}

func TestWorkerDeliverDropsGarbage(t *testing.T) {
	sender := &recordingSender{}
	w := NewWorker(nil, sender, zap.NewNop())

	w.deliver("{not json")

	if sender.calls != 0 {
		t.Errorf("expected no send for undecodable payload, got %d", sender.calls)
	}
}
