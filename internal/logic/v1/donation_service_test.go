package v1

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/givehope/donation-service/internal/core/domain"
)

// testEnv wires the donation service against fakes, with one configured NGO
// accepting Medicines and Wheelchairs.
type testEnv struct {
	accounts  *fakeAccounts
	donations *fakeDonations
	publisher *fakePublisher
	svc       *DonationService
	ngo       *domain.Account
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	accounts := &fakeAccounts{}
	auth := NewAuthService(accounts, testSecret)
	ngo, _, err := auth.Register(context.Background(), ngoRequest("ngo@example.com"))
	if err != nil {
		t.Fatalf("register ngo: %v", err)
	}
	if _, err := auth.ConfigureAcceptedItems(context.Background(), ngo.ID, domain.RoleNGO, "Medicines, Wheelchairs"); err != nil {
		t.Fatalf("configure ngo: %v", err)
	}

	donations := &fakeDonations{}
	publisher := &fakePublisher{}
	return &testEnv{
		accounts:  accounts,
		donations: donations,
		publisher: publisher,
		svc:       NewDonationService(accounts, donations, publisher, zap.NewNop()),
		ngo:       ngo,
	}
}

func (e *testEnv) createRequest() domain.CreateDonationRequest {
	return domain.CreateDonationRequest{
		NGOID:         e.ngo.ID,
		DonorName:     "Alice",
		DonorEmail:    "alice@example.com",
		DonorPhone:    "555-0101",
		ItemName:      "Medicines",
		Description:   "Unopened painkillers",
		PickupAddress: "12 Main St",
	}
}

func TestCreateDonation(t *testing.T) {
	env := newTestEnv(t)

	donation, err := env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/a.jpg"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if donation.Status != domain.StatusPending {
		t.Errorf("expected pending status, got %q", donation.Status)
	}
	if donation.DonorID != "donor-1" {
		t.Errorf("unexpected donor id %q", donation.DonorID)
	}
	if len(donation.Images) != 1 {
		t.Errorf("expected 1 image, got %d", len(donation.Images))
	}
}

func TestCreateRequiresImages(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), "donor-1", env.createRequest(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(env.donations.donations) != 0 {
		t.Error("expected no donation persisted")
	}
}

func TestCreateUnknownNGO(t *testing.T) {
	env := newTestEnv(t)

	req := env.createRequest()
	req.NGOID = "missing"
	_, err := env.svc.Create(context.Background(), "donor-1", req, []string{"/uploads/a.jpg"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestCreateUnconfiguredNGO(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.accounts, testSecret)
	fresh, _, _ := auth.Register(context.Background(), ngoRequest("fresh@example.com"))

	req := env.createRequest()
	req.NGOID = fresh.ID
	_, err := env.svc.Create(context.Background(), "donor-1", req, []string{"/uploads/a.jpg"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCreateItemNotAccepted(t *testing.T) {
	env := newTestEnv(t)

	req := env.createRequest()
	req.ItemName = "Furniture"
	_, err := env.svc.Create(context.Background(), "donor-1", req, []string{"/uploads/a.jpg"})
	if !errors.Is(err, domain.ErrItemNotAccepted) {
		t.Fatalf("expected ErrItemNotAccepted, got %v", err)
	}
	if len(env.donations.donations) != 0 {
		t.Error("expected no donation persisted")
	}
}

func TestListForDonorIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/a.jpg"})
	env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/b.jpg"})

	first, err := env.svc.ListForDonor(context.Background(), "donor-1")
	if err != nil {
		t.Fatalf("ListForDonor: %v", err)
	}
	second, err := env.svc.ListForDonor(context.Background(), "donor-1")
	if err != nil {
		t.Fatalf("ListForDonor: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated listing with no writes returned different results")
	}
	if len(first) != 2 {
		t.Errorf("expected 2 donations, got %d", len(first))
	}
}

func TestTransitionApprovesAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/a.jpg"})

	decided, err := env.svc.Transition(context.Background(), created.ID, domain.StatusApproved)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if decided.Status != domain.StatusApproved {
		t.Errorf("expected approved, got %q", decided.Status)
	}

	listed, _ := env.svc.ListForDonor(context.Background(), "donor-1")
	if listed[0].Status != domain.StatusApproved {
		t.Errorf("donor listing shows %q, want approved", listed[0].Status)
	}

	if len(env.publisher.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(env.publisher.events))
	}
	event := env.publisher.events[0]
	if event.DonorEmail != "alice@example.com" || event.Status != domain.StatusApproved {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestTransitionRejectsArbitraryStatus(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/a.jpg"})

	_, err := env.svc.Transition(context.Background(), created.ID, "archived")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("status changed to %q", created.Status)
	}
}

func TestTransitionUnknownDonation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Transition(context.Background(), "missing", domain.StatusApproved)
	if !errors.Is(err, domain.ErrDonationNotFound) {
		t.Errorf("expected ErrDonationNotFound, got %v", err)
	}
}

func TestTransitionOnlyOnceFromPending(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/a.jpg"})

	if _, err := env.svc.Transition(context.Background(), created.ID, domain.StatusApproved); err != nil {
		t.Fatalf("first Transition: %v", err)
	}
	_, err := env.svc.Transition(context.Background(), created.ID, domain.StatusRejected)
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}

	if created.Status != domain.StatusApproved {
		t.Errorf("second decision overwrote status: %q", created.Status)
	}
	if len(env.publisher.events) != 1 {
		t.Errorf("expected 1 event after losing decision, got %d", len(env.publisher.events))
	}
}

func TestTransitionSwallowsPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("redis down")
	created, _ := env.svc.Create(context.Background(), "donor-1", env.createRequest(), []string{"/uploads/a.jpg"})

	decided, err := env.svc.Transition(context.Background(), created.ID, domain.StatusRejected)
	if err != nil {
		t.Fatalf("Transition must not fail on publish error: %v", err)
	}
	if decided.Status != domain.StatusRejected {
		t.Errorf("expected rejected, got %q", decided.Status)
	}
}
