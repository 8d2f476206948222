package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMemberType(t *testing.T) {
	valid := []string{"", "brand", "artisan", "artist", "restaurateur", "author", "other"}
	for _, v := range valid {
		assert.True(t, IsValidMemberType(v), "expected %q to be valid", v)
	}

	invalid := []string{"Brand", "ARTISAN", "marque", "wizard", " artisan"}
	for _, v := range invalid {
		assert.False(t, IsValidMemberType(v), "expected %q to be invalid", v)
	}
}

func TestIsValidProfileStatus(t *testing.T) {
	valid := []string{"pending_review", "pending_payment", "active", "inactive"}
	for _, v := range valid {
		assert.True(t, IsValidProfileStatus(v), "expected %q to be valid", v)
	}

	invalid := []string{"", "Active", "deleted", "pending"}
	for _, v := range invalid {
		assert.False(t, IsValidProfileStatus(v), "expected %q to be invalid", v)
	}
}

func TestIsValidCotisationStatus(t *testing.T) {
	valid := []string{"paid", "unpaid", "pending"}
	for _, v := range valid {
		assert.True(t, IsValidCotisationStatus(v), "expected %q to be valid", v)
	}

	invalid := []string{"", "Paid", "overdue", "maybe"}
	for _, v := range invalid {
		assert.False(t, IsValidCotisationStatus(v), "expected %q to be invalid", v)
	}
}
