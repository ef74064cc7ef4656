package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

func TestParseQRCode_OK(t *testing.T) {
	siteID := uuid.New()

	got, err := domain.ParseQRCode(domain.QRCodePrefix + siteID.String())

	require.NoError(t, err)
	assert.Equal(t, siteID, got)
}

func TestParseQRCode_WrongPrefix(t *testing.T) {
	_, err := domain.ParseQRCode("some-other-app:" + uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseQRCode_NotAUUID(t *testing.T) {
	_, err := domain.ParseQRCode(domain.QRCodePrefix + "virupaksha-temple")

	assert.ErrorIs(t, err, domain.ErrValidation)
}
