package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/givehope/donation-service/internal/core"
	"github.com/givehope/donation-service/internal/core/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct{}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// Create persists a new account. NGO columns are written only for the ngo
// role; the unique email constraint is translated to ErrDuplicateEmail.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	db := database.GetPool()
	if db == nil {
		return errors.New("database connection not available")
	}

	var (
		category, location, description, logoURL *string
		acceptedItems                            []string
		configured                               bool
	)
	if account.NGO != nil {
		category = nullable(account.NGO.Category)
		location = nullable(account.NGO.Location)
		description = nullable(account.NGO.Description)
		logoURL = nullable(account.NGO.LogoURL)
		acceptedItems = account.NGO.AcceptedItems
		configured = account.NGO.Configured
	}
	if acceptedItems == nil {
		acceptedItems = []string{}
	}

	query := `INSERT INTO accounts
		(id, name, email, password_hash, phone, role, category, location, description, logo_url, accepted_items, configured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := db.Exec(ctx, query,
		account.ID, account.Name, account.Email, account.PasswordHash,
		account.Phone, account.Role, category, location, description, logoURL,
		acceptedItems, configured, account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by id, or (nil, nil) if absent.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getByField(ctx, "id", id)
}

// GetByEmail retrieves an account by email, or (nil, nil) if absent.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getByField(ctx, "email", email)
}

func (r *AccountRepository) getByField(ctx context.Context, field, value string) (*domain.Account, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := fmt.Sprintf(`SELECT id, name, email, password_hash, phone, role,
		category, location, description, logo_url, accepted_items, configured, created_at
		FROM accounts WHERE %s = $1`, field)

	account, err := scanAccount(db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query account by %s: %w", field, err)
	}
	return account, nil
}

// ListConfiguredNGOs returns the public projection of every NGO that has
// configured its accepted-items catalog. No pagination.
func (r *AccountRepository) ListConfiguredNGOs(ctx context.Context) ([]domain.NGOView, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `SELECT id, name, logo_url, category, location, description, accepted_items
		FROM accounts WHERE role = 'ngo' AND configured ORDER BY created_at`
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query configured ngos: %w", err)
	}
	defer rows.Close()

	ngos := []domain.NGOView{}
	for rows.Next() {
		var (
			view                                     domain.NGOView
			logoURL, category, location, description *string
		)
		if err := rows.Scan(&view.ID, &view.Name, &logoURL, &category, &location, &description, &view.AcceptedItems); err != nil {
			return nil, fmt.Errorf("scan ngo: %w", err)
		}
		view.LogoURL = deref(logoURL)
		view.Category = deref(category)
		view.Location = deref(location)
		view.Description = deref(description)
		ngos = append(ngos, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ngos: %w", err)
	}
	return ngos, nil
}

// SetAcceptedItems replaces the catalog and marks the account configured,
// returning the updated account.
func (r *AccountRepository) SetAcceptedItems(ctx context.Context, id string, items []string) (*domain.Account, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `UPDATE accounts SET accepted_items = $1, configured = TRUE
		WHERE id = $2 AND role = 'ngo'
		RETURNING id, name, email, password_hash, phone, role,
			category, location, description, logo_url, accepted_items, configured, created_at`
	account, err := scanAccount(db.QueryRow(ctx, query, items, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update accepted items: %w", err)
	}
	return account, nil
}

// scanAccount reads a full account row, attaching the NGO payload only for
// the ngo role.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account                                  domain.Account
		category, location, description, logoURL *string
		acceptedItems                            []string
		configured                               bool
	)
	err := row.Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash,
		&account.Phone, &account.Role, &category, &location, &description,
		&logoURL, &acceptedItems, &configured, &account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if account.Role == domain.RoleNGO {
		account.NGO = &domain.NGOProfile{
			Category:      deref(category),
			Location:      deref(location),
			Description:   deref(description),
			LogoURL:       deref(logoURL),
			AcceptedItems: acceptedItems,
			Configured:    configured,
		}
	}
	return &account, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
