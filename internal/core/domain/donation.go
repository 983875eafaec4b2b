package domain

import "time"

// Donation statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Donation is one donor's offer of items to one NGO. Donor name/email/phone
// are denormalized copies taken at creation time and not kept in sync with
// later account edits.
type Donation struct {
	ID            string    `json:"id"`
	DonorID       string    `json:"userId"`
	NGOID         string    `json:"ngoId"`
	DonorName     string    `json:"userName"`
	DonorEmail    string    `json:"userEmail"`
	DonorPhone    string    `json:"userPhoneNumber,omitempty"`
	ItemName      string    `json:"itemName"`
	Description   string    `json:"description,omitempty"`
	PickupAddress string    `json:"userAddress,omitempty"`
	Images        []string  `json:"images"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Read-time joins with the counterpart account; populated by the
	// listing operations, never persisted.
	NGO   *NGOSummary   `json:"ngo,omitempty"`
	Donor *DonorSummary `json:"donor,omitempty"`
}

// NGOSummary is the NGO-side join attached to a donor's listing.
type NGOSummary struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// DonorSummary is the donor-side join attached to an NGO's listing.
type DonorSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phoneNumber,omitempty"`
}

// CreateDonationRequest carries the multipart fields of a donation
// submission. Image URLs are filled by the web layer after upload.
type CreateDonationRequest struct {
	NGOID         string
	DonorName     string
	DonorEmail    string
	DonorPhone    string
	ItemName      string
	Description   string
	PickupAddress string
}

// UpdateStatusRequest is the JSON body of the status decision endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatusEvent is the outbound notification emitted after a successful
// status transition. Delivery is best-effort and decoupled from the
// transition itself.
type StatusEvent struct {
	DonationID string `json:"donationId"`
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
	ItemName   string `json:"itemName"`
	Status     string `json:"status"`
}
