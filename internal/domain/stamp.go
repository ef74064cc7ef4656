package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QRCodePrefix is the fixed prefix carried by every heritage-site QR code.
// The remainder of the payload is the site's UUID.
const QRCodePrefix = "hampi-heritage:"

// PassportStamp records a user's successful check-in to a heritage site.
// At most one stamp exists per (UserID, SiteID) pair — enforced by a
// uniqueness constraint in the database. Stamps are never mutated or
// deleted by this service.
type PassportStamp struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SiteID      uuid.UUID `json:"site_id"`
	CollectedAt time.Time `json:"collected_at"`
}

// ParseQRCode extracts the site ID from a scanned QR payload.
// Returns ErrValidation when the prefix is missing or the remainder is not
// a valid UUID — scanning an unrelated QR code is an expected user mistake,
// not a server fault.
func ParseQRCode(code string) (uuid.UUID, error) {
	if !strings.HasPrefix(code, QRCodePrefix) {
		return uuid.Nil, fmt.Errorf("%w: QR code does not match any heritage site", ErrValidation)
	}
	id, err := uuid.Parse(strings.TrimPrefix(code, QRCodePrefix))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: QR code does not match any heritage site", ErrValidation)
	}
	return id, nil
}
