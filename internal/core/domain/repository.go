package domain

import "context"

// AccountRepository defines the interface for account data access.
// Lookup methods return (nil, nil) when no record matches.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	ListConfiguredNGOs(ctx context.Context) ([]NGOView, error)
	// SetAcceptedItems replaces the NGO's catalog and sets the configured
	// flag, returning the updated account.
	SetAcceptedItems(ctx context.Context, id string, items []string) (*Account, error)
}

// DonationRepository defines the interface for donation data access.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	ListByDonor(ctx context.Context, donorID string) ([]Donation, error)
	ListByNGO(ctx context.Context, ngoID string) ([]Donation, error)
	// UpdateStatus performs a compare-and-swap from pending to the given
	// status. It returns ErrDonationNotFound if the donation does not exist
	// and ErrAlreadyDecided if it is no longer pending.
	UpdateStatus(ctx context.Context, id, status string) (*Donation, error)
}

// EventPublisher emits outbound status-change events for best-effort
// notification delivery.
type EventPublisher interface {
	PublishStatusEvent(ctx context.Context, event StatusEvent) error
}
