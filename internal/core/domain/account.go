package domain

import "time"

// Roles.
const (
	RoleDonor = "donor"
	RoleNGO   = "ngo"
)

// Account is a donor or NGO identity record. The password hash is never
// serialized; API responses therefore always carry the redacted view.
// NGO-specific state lives in the NGO payload, which is nil for donors.
type Account struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Phone        string      `json:"phoneNumber,omitempty"`
	Role         string      `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	NGO          *NGOProfile `json:"ngo,omitempty"`
}

// NGOProfile is the NGO variant payload of an Account.
// Invariant: Configured implies AcceptedItems is a non-empty list of
// distinct, trimmed, non-empty strings.
type NGOProfile struct {
	Category      string   `json:"category,omitempty"`
	Location      string   `json:"location,omitempty"`
	Description   string   `json:"description,omitempty"`
	LogoURL       string   `json:"logoUrl,omitempty"`
	AcceptedItems []string `json:"acceptedItems"`
	Configured    bool     `json:"isConfigured"`
}

// NGOView is the public projection of a configured NGO used by the
// unredacted-safe listing endpoint.
type NGOView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LogoURL       string   `json:"logoUrl,omitempty"`
	Category      string   `json:"category,omitempty"`
	Location      string   `json:"location,omitempty"`
	Description   string   `json:"description,omitempty"`
	AcceptedItems []string `json:"acceptedItems"`
}

// RegisterRequest carries a signup submission. LogoURL is filled by the web
// layer after the uploaded file has been stored.
type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	Role        string
	Category    string
	Location    string
	Description string
	LogoURL     string
}

// LoginRequest is the JSON body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ConfigureRequest is the JSON body of the NGO configuration endpoint.
// AcceptedItems may arrive as a JSON array of strings, a JSON-encoded array
// string, or a comma-separated string; the service normalizes all three.
type ConfigureRequest struct {
	AcceptedItems any `json:"acceptedItems" binding:"required"`
}
