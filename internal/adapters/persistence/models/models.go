package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth Tables
// ============================================================

// User represents the users table (auth accounts, 1:1 with profiles)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProfileID string         `gorm:"uniqueIndex;size:36;not null" json:"profile_id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  *string        `gorm:"size:255" json:"-"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsAdmin     bool      `json:"is_admin"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		ProfileID: u.ProfileID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// LoginCode represents the login_codes table (magic-link codes, stored hashed)
type LoginCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CodeHash   string     `gorm:"size:255;not null;index" json:"-"`
	Email      string     `gorm:"size:100;not null;index" json:"email"`
	ProfileID  string     `gorm:"size:36;not null" json:"profile_id"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LoginCode) TableName() string {
	return "login_codes"
}

func (lc *LoginCode) IsConsumed() bool {
	return lc.ConsumedAt != nil
}

func (lc *LoginCode) IsExpired() bool {
	return time.Now().After(lc.ExpiresAt)
}

// ============================================================
// Membership Tables
// ============================================================

// Profile represents the profiles table.
// ID is a UUID equal to the auth identity and never changes.
type Profile struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Email         string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	CompanyName   *string   `gorm:"size:150" json:"company_name"`
	ManagerName   *string   `gorm:"size:150" json:"manager_name"`
	Siret         *string   `gorm:"size:20" json:"siret"`
	MemberType    *string   `gorm:"size:30" json:"member_type"`
	LogoURL       *string   `gorm:"size:500" json:"logo_url"`
	Sponsor       *string   `gorm:"size:150" json:"sponsor"`
	JoinReason    *string   `gorm:"type:text" json:"join_reason"`
	Phone         *string   `gorm:"size:30" json:"phone"`
	Address       *string   `gorm:"size:300" json:"address"`
	WebsiteURL    *string   `gorm:"size:300" json:"website_url"`
	InstagramURL  *string   `gorm:"size:300" json:"instagram_url"`
	TiktokURL     *string   `gorm:"size:300" json:"tiktok_url"`
	Status        string    `gorm:"size:20;not null;default:'pending_review';index" json:"status"`
	IsAdmin       bool      `gorm:"default:false" json:"is_admin"`
	CharterSigned bool      `gorm:"default:false" json:"charter_signed"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Cotisations []Cotisation `gorm:"foreignKey:ProfileID" json:"cotisations,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileResponse DTO
type ProfileResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	CompanyName   *string   `json:"company_name"`
	ManagerName   *string   `json:"manager_name"`
	Siret         *string   `json:"siret"`
	MemberType    *string   `json:"member_type"`
	LogoURL       *string   `json:"logo_url"`
	Sponsor       *string   `json:"sponsor"`
	JoinReason    *string   `json:"join_reason"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	WebsiteURL    *string   `json:"website_url"`
	InstagramURL  *string   `json:"instagram_url"`
	TiktokURL     *string   `json:"tiktok_url"`
	Status        string    `json:"status"`
	IsAdmin       bool      `json:"is_admin"`
	CharterSigned bool      `json:"charter_signed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Profile) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:            p.ID,
		Email:         p.Email,
		CompanyName:   p.CompanyName,
		ManagerName:   p.ManagerName,
		Siret:         p.Siret,
		MemberType:    p.MemberType,
		LogoURL:       p.LogoURL,
		Sponsor:       p.Sponsor,
		JoinReason:    p.JoinReason,
		Phone:         p.Phone,
		Address:       p.Address,
		WebsiteURL:    p.WebsiteURL,
		InstagramURL:  p.InstagramURL,
		TiktokURL:     p.TiktokURL,
		Status:        p.Status,
		IsAdmin:       p.IsAdmin,
		CharterSigned: p.CharterSigned,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Cotisation represents the cotisations table (yearly dues).
// One row per (profile, year); enforced by the composite unique index and
// written through upsert-on-conflict only.
type Cotisation struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ProfileID string     `gorm:"size:36;not null;uniqueIndex:idx_cotisations_profile_year" json:"profile_id"`
	Year      int        `gorm:"not null;uniqueIndex:idx_cotisations_profile_year" json:"year"`
	Status    string     `gorm:"size:20;not null;default:'unpaid'" json:"status"`
	Amount    *float64   `gorm:"type:decimal(10,2)" json:"amount"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"-"`
}

func (Cotisation) TableName() string {
	return "cotisations"
}

// CotisationResponse DTO
type CotisationResponse struct {
	ID        uint       `json:"id"`
	ProfileID string     `json:"profile_id"`
	Year      int        `json:"year"`
	Status    string     `json:"status"`
	Amount    *float64   `json:"amount"`
	PaidAt    *time.Time `json:"paid_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (ct *Cotisation) ToResponse() *CotisationResponse {
	return &CotisationResponse{
		ID:        ct.ID,
		ProfileID: ct.ProfileID,
		Year:      ct.Year,
		Status:    ct.Status,
		Amount:    ct.Amount,
		PaidAt:    ct.PaidAt,
		UpdatedAt: ct.UpdatedAt,
	}
}

// ============================================================
// Events
// ============================================================

// Event represents the events table
type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Date        time.Time      `gorm:"not null;index" json:"date"`
	Type        string         `gorm:"size:50;not null" json:"type"`
	Description *string        `gorm:"type:text" json:"description"`
	Location    *string        `gorm:"size:300" json:"location"`
	Status      string         `gorm:"size:20;not null;default:'draft'" json:"status"`
	OrganizerID string         `gorm:"size:36;not null;index" json:"organizer_id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Organizer *Profile `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// EventResponse DTO
type EventResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Status      string    `json:"status"`
	OrganizerID string    `json:"organizer_id"`
	Organizer   string    `json:"organizer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Event) ToResponse() *EventResponse {
	resp := &EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		Type:        e.Type,
		Description: e.Description,
		Location:    e.Location,
		Status:      e.Status,
		OrganizerID: e.OrganizerID,
		CreatedAt:   e.CreatedAt,
	}
	if e.Organizer != nil && e.Organizer.CompanyName != nil {
		resp.Organizer = *e.Organizer.CompanyName
	}
	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&User{},
		&RefreshToken{},
		&LoginCode{},
		&Cotisation{},
		&Event{},
	)
}
