package model

import (
	"errors"
	"net/mail"
	"regexp"
	"time"
)

// Role discriminates the three kinds of portal accounts.
type Role string

// Roles.
const (
	RoleCitizen Role = "citizen"
	RolePolice  Role = "police"
	RoleAdmin   Role = "admin"
)

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleCitizen, RolePolice, RoleAdmin:
		return r, true
	}
	return "", false
}

// Capability is an action a role may be allowed to perform.
type Capability int

// Capabilities.
const (
	CapReportItems Capability = iota
	CapClaimItems
	CapReviewClaims
	CapMatchReports
	CapApproveReports
	CapManageAccounts
	CapManageCatalog
)

var roleCapabilities = map[Role][]Capability{
	RoleCitizen: {CapReportItems, CapClaimItems},
	RolePolice:  {CapReportItems, CapReviewClaims, CapMatchReports},
	RoleAdmin:   {CapApproveReports, CapManageAccounts, CapManageCatalog},
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

// Actor is anyone performing a portal operation.
type Actor interface {
	ActorID() int64
	ActorRole() Role
}

// Account statuses. Categories and locations use the same values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Languages supported by the portal.
const (
	LangEnglish  = "en"
	LangHindi    = "hi"
	LangGujarati = "gu"
)

// SupportedLanguages lists the language codes in display order.
var SupportedLanguages = []string{LangEnglish, LangHindi, LangGujarati}

// ValidLanguage reports whether lang is a supported language code.
func ValidLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Account is a citizen, police officer or administrator.
type Account struct {
	ID           int64     `json:"id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`

	// Police only.
	BadgeNumber string `json:"badge_number,omitempty"`
	StationID   *int64 `json:"station_id,omitempty"`
	StationName string `json:"station_name,omitempty"`
	PoliceRank  string `json:"police_rank,omitempty"`
}

// ActorID implements Actor.
func (a *Account) ActorID() int64 { return a.ID }

// ActorRole implements Actor.
func (a *Account) ActorRole() Role { return a.Role }

// Active reports whether the account may log in.
func (a *Account) Active() bool { return a.Status == StatusActive }

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ErrPasswordTooShort is returned by ValidatePassword.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// ValidatePassword checks password requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidPhone reports whether phone is a 10-digit number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidEmail reports whether email is a bare address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
