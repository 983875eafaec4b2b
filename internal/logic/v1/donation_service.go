package v1

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/givehope/donation-service/internal/core/domain"
	"github.com/givehope/donation-service/middleware"
)

// DonationService implements the donation lifecycle: creation against an
// NGO's catalog, per-side listings, and the status decision that emits a
// notification event.
type DonationService struct {
	accounts  domain.AccountRepository
	donations domain.DonationRepository
	events    domain.EventPublisher
	logger    *zap.Logger
}

// NewDonationService creates a new donation service.
func NewDonationService(
	accounts domain.AccountRepository,
	donations domain.DonationRepository,
	events domain.EventPublisher,
	logger *zap.Logger,
) *DonationService {
	return &DonationService{
		accounts:  accounts,
		donations: donations,
		events:    events,
		logger:    logger,
	}
}

// Create validates a donation request against the target NGO's catalog and
// persists it at pending with the donor snapshot taken now.
func (s *DonationService) Create(ctx context.Context, donorID string, req domain.CreateDonationRequest, images []string) (*domain.Donation, error) {
	ctx, span := middleware.StartSpan(ctx, "donation.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("ngo.id", req.NGOID),
		attribute.String("item", req.ItemName),
	))
	defer span.End()

	if len(images) == 0 {
		return nil, fmt.Errorf("please upload at least one image: %w", domain.ErrInvalidInput)
	}

	ngo, err := s.accounts.GetByID(ctx, req.NGOID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("lookup ngo: %w", err)
	}
	if ngo == nil || ngo.Role != domain.RoleNGO {
		return nil, fmt.Errorf("ngo %q: %w", req.NGOID, domain.ErrAccountNotFound)
	}
	if ngo.NGO == nil || !ngo.NGO.Configured {
		return nil, fmt.Errorf("ngo %q: %w", req.NGOID, domain.ErrNotConfigured)
	}
	if !slices.Contains(ngo.NGO.AcceptedItems, req.ItemName) {
		return nil, fmt.Errorf("item %q: %w", req.ItemName, domain.ErrItemNotAccepted)
	}

	now := time.Now().UTC()
	donation := &domain.Donation{
		ID:            uuid.NewString(),
		DonorID:       donorID,
		NGOID:         req.NGOID,
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		DonorPhone:    req.DonorPhone,
		ItemName:      req.ItemName,
		Description:   req.Description,
		PickupAddress: req.PickupAddress,
		Images:        images,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.donations.Create(ctx, donation); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create donation: %w", err)
	}

	span.SetAttributes(attribute.String("donation.id", donation.ID))
	return donation, nil
}

// ListForDonor returns the donor's requests joined with NGO display fields.
func (s *DonationService) ListForDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	ctx, span := middleware.StartSpan(ctx, "donation.list_for_donor", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("donor.id", donorID),
	))
	defer span.End()

	donations, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list donations for donor %q: %w", donorID, err)
	}

	span.SetAttributes(attribute.Int("donations.count", len(donations)))
	return donations, nil
}

// ListForNGO returns the NGO's incoming requests joined with donor contact
// fields.
func (s *DonationService) ListForNGO(ctx context.Context, ngoID string) ([]domain.Donation, error) {
	ctx, span := middleware.StartSpan(ctx, "donation.list_for_ngo", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("ngo.id", ngoID),
	))
	defer span.End()

	donations, err := s.donations.ListByNGO(ctx, ngoID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list donations for ngo %q: %w", ngoID, err)
	}

	span.SetAttributes(attribute.Int("donations.count", len(donations)))
	return donations, nil
}

// Transition decides a pending donation. Only pending donations move, only
// to approved or rejected, and exactly one concurrent decision wins. On
// success a notification event is published; publish failure is logged and
// swallowed so mail-relay availability can never fail a decision.
func (s *DonationService) Transition(ctx context.Context, donationID, status string) (*domain.Donation, error) {
	ctx, span := middleware.StartSpan(ctx, "donation.transition", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("donation.id", donationID),
		attribute.String("status", status),
	))
	defer span.End()

	if status != domain.StatusApproved && status != domain.StatusRejected {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}

	donation, err := s.donations.UpdateStatus(ctx, donationID, status)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("transition donation %q: %w", donationID, err)
	}

	if err := s.events.PublishStatusEvent(ctx, domain.StatusEvent{
		DonationID: donation.ID,
		DonorName:  donation.DonorName,
		DonorEmail: donation.DonorEmail,
		ItemName:   donation.ItemName,
		Status:     donation.Status,
	}); err != nil {
		s.logger.Warn("Failed to publish status event",
			zap.String("donation_id", donation.ID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.Bool("donation.decided", true))
	return donation, nil
}
