package storage

import (
	"testing"

	"guilde-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidateLogo(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{"jpeg under limit", "image/jpeg", 1024, nil},
		{"png at limit", "image/png", MaxLogoSize, nil},
		{"webp accepted", "image/webp", 2048, nil},
		{"gif accepted", "image/gif", 2048, nil},
		{"content type with charset", "image/png; charset=utf-8", 2048, nil},
		{"uppercase media type", "IMAGE/PNG", 2048, nil},
		{"6MB rejected", "image/jpeg", 6 * 1024 * 1024, domain.ErrLogoTooLarge},
		{"one byte over limit rejected", "image/jpeg", MaxLogoSize + 1, domain.ErrLogoTooLarge},
		{"svg rejected", "image/svg+xml", 1024, domain.ErrLogoUnsupportedType},
		{"pdf rejected", "application/pdf", 1024, domain.ErrLogoUnsupportedType},
		{"empty content type rejected", "", 1024, domain.ErrLogoUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogo(tt.contentType, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	// One key per profile so re-uploads overwrite the previous logo
	assert.Equal(t, "abc-123.jpg", ObjectKey("abc-123", "image/jpeg"))
	assert.Equal(t, "abc-123.png", ObjectKey("abc-123", "image/png"))
	assert.Equal(t, "abc-123.webp", ObjectKey("abc-123", "image/webp; charset=binary"))
}
