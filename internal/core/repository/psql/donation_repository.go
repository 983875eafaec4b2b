package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	database "github.com/givehope/donation-service/internal/core"
	"github.com/givehope/donation-service/internal/core/domain"
)

// DonationRepository implements domain.DonationRepository using PostgreSQL
type DonationRepository struct{}

// NewDonationRepository creates a new PostgreSQL donation repository
func NewDonationRepository() *DonationRepository {
	return &DonationRepository{}
}

// Create persists a new donation request.
func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	db := database.GetPool()
	if db == nil {
		return errors.New("database connection not available")
	}

	query := `INSERT INTO donations
		(id, donor_id, ngo_id, donor_name, donor_email, donor_phone,
		 item_name, description, pickup_address, images, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := db.Exec(ctx, query,
		donation.ID, donation.DonorID, donation.NGOID,
		donation.DonorName, donation.DonorEmail, donation.DonorPhone,
		donation.ItemName, donation.Description, donation.PickupAddress,
		donation.Images, donation.Status, donation.CreatedAt, donation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// GetByID retrieves a donation by id, or (nil, nil) if absent.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `SELECT id, donor_id, ngo_id, donor_name, donor_email, donor_phone,
		item_name, description, pickup_address, images, status, created_at, updated_at
		FROM donations WHERE id = $1`

	donation, err := scanDonation(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query donation: %w", err)
	}
	return donation, nil
}

// ListByDonor returns the donor's requests, newest first, each joined with
// the NGO's public display fields at read time.
func (r *DonationRepository) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `SELECT d.id, d.donor_id, d.ngo_id, d.donor_name, d.donor_email, d.donor_phone,
		d.item_name, d.description, d.pickup_address, d.images, d.status, d.created_at, d.updated_at,
		a.name, a.logo_url
		FROM donations d JOIN accounts a ON a.id = d.ngo_id
		WHERE d.donor_id = $1 ORDER BY d.created_at DESC`
	rows, err := db.Query(ctx, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("query donor donations: %w", err)
	}
	defer rows.Close()

	donations := []domain.Donation{}
	for rows.Next() {
		var (
			d       domain.Donation
			ngoName string
			logoURL *string
		)
		if err := rows.Scan(
			&d.ID, &d.DonorID, &d.NGOID, &d.DonorName, &d.DonorEmail, &d.DonorPhone,
			&d.ItemName, &d.Description, &d.PickupAddress, &d.Images, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &ngoName, &logoURL,
		); err != nil {
			return nil, fmt.Errorf("scan donor donation: %w", err)
		}
		d.NGO = &domain.NGOSummary{Name: ngoName, LogoURL: deref(logoURL)}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donor donations: %w", err)
	}
	return donations, nil
}

// ListByNGO returns the NGO's incoming requests, newest first, each joined
// with the donor account's current contact fields at read time.
func (r *DonationRepository) ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `SELECT d.id, d.donor_id, d.ngo_id, d.donor_name, d.donor_email, d.donor_phone,
		d.item_name, d.description, d.pickup_address, d.images, d.status, d.created_at, d.updated_at,
		a.name, a.email, a.phone
		FROM donations d JOIN accounts a ON a.id = d.donor_id
		WHERE d.ngo_id = $1 ORDER BY d.created_at DESC`
	rows, err := db.Query(ctx, query, ngoID)
	if err != nil {
		return nil, fmt.Errorf("query ngo donations: %w", err)
	}
	defer rows.Close()

	donations := []domain.Donation{}
	for rows.Next() {
		var (
			d                  domain.Donation
			name, email, phone string
		)
		if err := rows.Scan(
			&d.ID, &d.DonorID, &d.NGOID, &d.DonorName, &d.DonorEmail, &d.DonorPhone,
			&d.ItemName, &d.Description, &d.PickupAddress, &d.Images, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &name, &email, &phone,
		); err != nil {
			return nil, fmt.Errorf("scan ngo donation: %w", err)
		}
		d.Donor = &domain.DonorSummary{Name: name, Email: email, Phone: phone}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ngo donations: %w", err)
	}
	return donations, nil
}

// UpdateStatus performs a compare-and-swap from pending to the given status.
// Two concurrent decisions on the same donation serialize on the row: the
// loser sees zero affected rows and gets ErrAlreadyDecided.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Donation, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `UPDATE donations SET status = $1, updated_at = now()
		WHERE id = $2 AND status = 'pending'
		RETURNING id, donor_id, ngo_id, donor_name, donor_email, donor_phone,
			item_name, description, pickup_address, images, status, created_at, updated_at`
	donation, err := scanDonation(db.QueryRow(ctx, query, status, id))
	if err == nil {
		return donation, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update donation status: %w", err)
	}

	// CAS missed: distinguish missing from already decided.
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrDonationNotFound
	}
	return nil, domain.ErrAlreadyDecided
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	err := row.Scan(
		&d.ID, &d.DonorID, &d.NGOID, &d.DonorName, &d.DonorEmail, &d.DonorPhone,
		&d.ItemName, &d.Description, &d.PickupAddress, &d.Images, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
