package domain

import "errors"

// Sentinel errors for account and donation operations.
var (
	// ErrDuplicateEmail indicates an account with that email already exists.
	// HTTP Status: 400 Bad Request
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials indicates a failed password comparison.
	// HTTP Status: 400 Bad Request
	ErrInvalidCredentials = errors.New("wrong password")

	// ErrForbidden indicates the caller's role does not permit the operation.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("operation not permitted for this role")

	// ErrInvalidInput indicates a request that fails validation.
	// HTTP Status: 400 Bad Request
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates the target NGO has not configured its
	// accepted-items catalog yet.
	// HTTP Status: 400 Bad Request
	ErrNotConfigured = errors.New("ngo is not accepting donations yet")

	// ErrItemNotAccepted indicates the item is not in the NGO's catalog.
	// HTTP Status: 400 Bad Request
	ErrItemNotAccepted = errors.New("item not accepted by this ngo")

	// ErrDonationNotFound indicates the requested donation does not exist.
	// HTTP Status: 404 Not Found
	ErrDonationNotFound = errors.New("donation not found")

	// ErrAlreadyDecided indicates a status transition on a donation that is
	// no longer pending. Exactly one concurrent decision wins.
	// HTTP Status: 409 Conflict
	ErrAlreadyDecided = errors.New("donation already decided")
)
