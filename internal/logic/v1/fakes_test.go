package v1

import (
	"context"

	"github.com/givehope/donation-service/internal/core/domain"
)

// In-memory fakes for the repository and publisher interfaces.

type fakeAccounts struct {
	accounts []*domain.Account
}

func (f *fakeAccounts) Create(_ context.Context, account *domain.Account) error {
	for _, a := range f.accounts {
		if a.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) ListConfiguredNGOs(_ context.Context) ([]domain.NGOView, error) {
	views := []domain.NGOView{}
	for _, a := range f.accounts {
		if a.Role != domain.RoleNGO || a.NGO == nil || !a.NGO.Configured {
			continue
		}
		views = append(views, domain.NGOView{
			ID:            a.ID,
			Name:          a.Name,
			LogoURL:       a.NGO.LogoURL,
			Category:      a.NGO.Category,
			Location:      a.NGO.Location,
			Description:   a.NGO.Description,
			AcceptedItems: a.NGO.AcceptedItems,
		})
	}
	return views, nil
}

func (f *fakeAccounts) SetAcceptedItems(ctx context.Context, id string, items []string) (*domain.Account, error) {
	account, _ := f.GetByID(ctx, id)
	if account == nil || account.NGO == nil {
		return nil, domain.ErrAccountNotFound
	}
	account.NGO.AcceptedItems = items
	account.NGO.Configured = true
	return account, nil
}

type fakeDonations struct {
	donations []*domain.Donation
}

func (f *fakeDonations) Create(_ context.Context, donation *domain.Donation) error {
	f.donations = append(f.donations, donation)
	return nil
}

func (f *fakeDonations) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	for _, d := range f.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDonations) ListByDonor(_ context.Context, donorID string) ([]domain.Donation, error) {
	out := []domain.Donation{}
	for _, d := range f.donations {
		if d.DonorID == donorID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonations) ListByNGO(_ context.Context, ngoID string) ([]domain.Donation, error) {
	out := []domain.Donation{}
	for _, d := range f.donations {
		if d.NGOID == ngoID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonations) UpdateStatus(ctx context.Context, id, status string) (*domain.Donation, error) {
	donation, _ := f.GetByID(ctx, id)
	if donation == nil {
		return nil, domain.ErrDonationNotFound
	}
	if donation.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyDecided
	}
	donation.Status = status
	return donation, nil
}

type fakePublisher struct {
	events []domain.StatusEvent
	err    error
}

func (f *fakePublisher) PublishStatusEvent(_ context.Context, event domain.StatusEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
