package domain

// ProfileStatus represents the lifecycle status of a member profile.
// Transitions are admin-driven; no transition table is enforced.
type ProfileStatus string

const (
	StatusPendingReview  ProfileStatus = "pending_review"
	StatusPendingPayment ProfileStatus = "pending_payment"
	StatusActive         ProfileStatus = "active"
	StatusInactive       ProfileStatus = "inactive"
)

// IsValidProfileStatus checks a status against the canonical set
func IsValidProfileStatus(s string) bool {
	switch ProfileStatus(s) {
	case StatusPendingReview, StatusPendingPayment, StatusActive, StatusInactive:
		return true
	}
	return false
}

// MemberType represents the category of a member (stored lowercase codes)
type MemberType string

const (
	MemberTypeBrand        MemberType = "brand"
	MemberTypeArtisan      MemberType = "artisan"
	MemberTypeArtist       MemberType = "artist"
	MemberTypeRestaurateur MemberType = "restaurateur"
	MemberTypeAuthor       MemberType = "author"
	MemberTypeOther        MemberType = "other"
)

// IsValidMemberType checks a member type against the canonical set.
// Empty is allowed (type not chosen yet).
func IsValidMemberType(t string) bool {
	if t == "" {
		return true
	}
	switch MemberType(t) {
	case MemberTypeBrand, MemberTypeArtisan, MemberTypeArtist,
		MemberTypeRestaurateur, MemberTypeAuthor, MemberTypeOther:
		return true
	}
	return false
}

// CotisationStatus represents the payment status of a yearly dues record
type CotisationStatus string

const (
	CotisationPaid    CotisationStatus = "paid"
	CotisationUnpaid  CotisationStatus = "unpaid"
	CotisationPending CotisationStatus = "pending"
)

// IsValidCotisationStatus checks a dues status against the canonical set
func IsValidCotisationStatus(s string) bool {
	switch CotisationStatus(s) {
	case CotisationPaid, CotisationUnpaid, CotisationPending:
		return true
	}
	return false
}

// EventStatus represents the publication status of an event
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
)
