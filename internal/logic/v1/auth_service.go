package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/givehope/donation-service/internal/core/domain"
	"github.com/givehope/donation-service/internal/token"
	"github.com/givehope/donation-service/middleware"
)

// AuthService implements account registration, login, the configured-NGO
// listing, and NGO catalog configuration.
type AuthService struct {
	accounts  domain.AccountRepository
	jwtSecret string
}

// NewAuthService creates a new auth service.
func NewAuthService(accounts domain.AccountRepository, jwtSecret string) *AuthService {
	return &AuthService{
		accounts:  accounts,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new account, attaching the NGO payload only for the
// ngo role, and issues a session token bound to the new account id. The
// returned account is the redacted view (hash excluded from serialization).
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("account.role", req.Role),
	))
	defer span.End()

	if req.Role != domain.RoleDonor && req.Role != domain.RoleNGO {
		return nil, "", fmt.Errorf("register %q with role %q: %w", req.Email, req.Role, domain.ErrInvalidInput)
	}

	existing, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("check existing account: %w", err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("account.created", false))
		return nil, "", fmt.Errorf("register %q: %w", req.Email, domain.ErrDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Role == domain.RoleNGO {
		account.NGO = &domain.NGOProfile{
			Category:      req.Category,
			Location:      req.Location,
			Description:   req.Description,
			LogoURL:       req.LogoURL,
			AcceptedItems: []string{},
		}
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		span.RecordError(err)
		// A concurrent signup with the same email loses here via the
		// unique constraint.
		return nil, "", fmt.Errorf("create account %q: %w", req.Email, err)
	}

	signed, err := token.Generate(s.jwtSecret, account.ID, account.Role)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	span.SetAttributes(
		attribute.String("account.id", account.ID),
		attribute.Bool("account.created", true),
	)
	return account, signed, nil
}

// Login authenticates by email and password and issues a session token
// identical in shape to registration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		span.SetAttributes(attribute.Bool("login.ok", false))
		return nil, "", fmt.Errorf("login %q: %w", email, domain.ErrAccountNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("login.ok", false))
		return nil, "", fmt.Errorf("login %q: %w", email, domain.ErrInvalidCredentials)
	}

	signed, err := token.Generate(s.jwtSecret, account.ID, account.Role)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	span.SetAttributes(attribute.Bool("login.ok", true))
	return account, signed, nil
}

// ListConfiguredNGOs returns every configured NGO projected to its public
// fields. No pagination.
func (s *AuthService) ListConfiguredNGOs(ctx context.Context) ([]domain.NGOView, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.list_ngos", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	ngos, err := s.accounts.ListConfiguredNGOs(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list configured ngos: %w", err)
	}

	span.SetAttributes(attribute.Int("ngos.count", len(ngos)))
	return ngos, nil
}

// ConfigureAcceptedItems normalizes and persists the caller NGO's catalog
// and marks the account configured.
func (s *AuthService) ConfigureAcceptedItems(ctx context.Context, callerID, callerRole string, input any) (*domain.Account, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.configure", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("account.id", callerID),
	))
	defer span.End()

	if callerRole != domain.RoleNGO {
		return nil, fmt.Errorf("configure by role %q: %w", callerRole, domain.ErrForbidden)
	}

	items, err := NormalizeAcceptedItems(input)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.SetAcceptedItems(ctx, callerID, items)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("configure ngo %q: %w", callerID, err)
	}

	span.SetAttributes(attribute.Int("items.count", len(items)))
	return account, nil
}
