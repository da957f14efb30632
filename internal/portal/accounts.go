package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/milaap/internal/auth"
	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// RegisterInput is a citizen's self-registration.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	Password        string
	ConfirmPassword string
	Language        string
}

// RegisterCitizen creates an active citizen account and sends a welcome
// notification.
func (s *Service) RegisterCitizen(ctx context.Context, in RegisterInput) (*model.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	v := &ValidationError{}
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Address == "" ||
		in.Password == "" || in.ConfirmPassword == "" {
		v.add("errors.required_fields")
	}
	if in.Email != "" && !model.ValidEmail(in.Email) {
		v.add("errors.invalid_email")
	}
	if in.Phone != "" && !model.ValidPhone(in.Phone) {
		v.add("errors.invalid_phone")
	}
	if in.Password != "" && model.ValidatePassword(in.Password) != nil {
		v.add("errors.password_too_short")
	}
	if in.Password != in.ConfirmPassword {
		v.add("errors.password_mismatch")
	}
	if in.Language == "" {
		in.Language = model.LangEnglish
	} else if !model.ValidLanguage(in.Language) {
		v.add("errors.invalid_language")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	existing, err := store.GetAccountByEmail(ctx, s.DB, model.RoleCitizen, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("errors.email_taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	account, err := store.CreateAccount(ctx, s.DB, &model.Account{
		Role:         model.RoleCitizen,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: hash,
		Status:       model.StatusActive,
		Language:     in.Language,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, account.ID, message{
		Type:     model.NotifySystem,
		TitleKey: "citizen.register.welcome_title",
		BodyKey:  "citizen.register.welcome_message",
		Params:   map[string]string{"name": account.Name},
	})
	s.logActivity(ctx, account, "Registration", "New citizen registered: "+account.Email)
	s.publish(ctx, events.AccountRegistered, account, account.ID, map[string]string{"email": account.Email})

	slog.Info("citizen registered", "account", account.ID)
	return account, nil
}

// Authenticate checks credentials for a role. Police may sign in with their
// badge number instead of an email address.
func (s *Service) Authenticate(ctx context.Context, role model.Role, login, password string) (*model.Account, error) {
	if _, ok := model.ParseRole(string(role)); !ok {
		return nil, ErrInvalidCredentials
	}
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, invalid("errors.required_fields")
	}

	account, err := store.GetAccountByEmail(ctx, s.DB, role, strings.ToLower(login))
	if err != nil {
		return nil, err
	}
	if account == nil && role == model.RolePolice {
		if account, err = store.GetAccountByBadge(ctx, s.DB, login); err != nil {
			return nil, err
		}
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, password) {
		slog.Warn("failed login", "role", role, "login", login, "ip", ClientIP(ctx))
		return nil, ErrInvalidCredentials
	}
	if !account.Active() {
		return nil, ErrInactive
	}

	s.logActivity(ctx, account, "Login", fmt.Sprintf("%s logged in", role))
	return account, nil
}

// Logout revokes the session token and records the logout.
func (s *Service) Logout(ctx context.Context, actor model.Actor, tokenID string, expiresAt time.Time) error {
	if tokenID != "" {
		if err := store.RevokeToken(ctx, s.DB, tokenID, expiresAt); err != nil {
			return err
		}
	}
	if actor != nil {
		s.logActivity(ctx, actor, "Logout", fmt.Sprintf("%s logged out", actor.ActorRole()))
	}
	return nil
}

// Account returns the actor's own account. Accounts deactivated since the
// session began are refused.
func (s *Service) Account(ctx context.Context, actor model.Actor) (*model.Account, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	account, err := store.GetAccount(ctx, s.DB, actor.ActorID())
	if err != nil {
		return nil, err
	}
	if account == nil || account.Role != actor.ActorRole() {
		return nil, ErrNotFound
	}
	if !account.Active() {
		return nil, ErrInactive
	}
	return account, nil
}

// PoliceInput creates or updates a police account.
type PoliceInput struct {
	Name        string
	BadgeNumber string
	Email       string
	Phone       string
	StationID   int64
	Rank        string
	// Password is required on create and optional on update.
	Password string
}

func (s *Service) validatePolice(ctx context.Context, in *PoliceInput, id int64) error {
	in.Name = strings.TrimSpace(in.Name)
	in.BadgeNumber = strings.TrimSpace(in.BadgeNumber)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Rank = strings.TrimSpace(in.Rank)

	v := &ValidationError{}
	if in.Name == "" || in.BadgeNumber == "" || in.Email == "" || in.Phone == "" ||
		in.StationID == 0 || in.Rank == "" || (id == 0 && in.Password == "") {
		v.add("errors.required_fields")
	}
	if in.Email != "" && !model.ValidEmail(in.Email) {
		v.add("errors.invalid_email")
	}
	if in.Phone != "" && !model.ValidPhone(in.Phone) {
		v.add("errors.invalid_phone")
	}
	if in.Password != "" && model.ValidatePassword(in.Password) != nil {
		v.add("errors.password_too_short")
	}
	if in.StationID != 0 {
		st, err := store.GetStation(ctx, s.DB, in.StationID)
		if err != nil {
			return err
		}
		if st == nil {
			v.add("errors.invalid_station")
		}
	}
	if in.BadgeNumber != "" {
		other, err := store.GetAccountByBadge(ctx, s.DB, in.BadgeNumber)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			v.add("errors.badge_taken")
		}
	}
	if in.Email != "" {
		other, err := store.GetAccountByEmail(ctx, s.DB, model.RolePolice, in.Email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			v.add("errors.email_taken")
		}
	}
	return v.err()
}

// CreatePolice adds a police officer account.
func (s *Service) CreatePolice(ctx context.Context, actor model.Actor, in PoliceInput) (*model.Account, error) {
	if err := authorize(actor, model.CapManageAccounts); err != nil {
		return nil, err
	}
	if err := s.validatePolice(ctx, &in, 0); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	station := in.StationID
	account, err := store.CreateAccount(ctx, s.DB, &model.Account{
		Role:         model.RolePolice,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Status:       model.StatusActive,
		BadgeNumber:  in.BadgeNumber,
		StationID:    &station,
		PoliceRank:   in.Rank,
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "Add Police", fmt.Sprintf("Added officer %s (%s)", account.Name, account.BadgeNumber))
	return account, nil
}

// UpdatePolice edits a police officer account. An empty password keeps the
// current one.
func (s *Service) UpdatePolice(ctx context.Context, actor model.Actor, id int64, in PoliceInput) (*model.Account, error) {
	if err := authorize(actor, model.CapManageAccounts); err != nil {
		return nil, err
	}
	account, err := store.GetAccount(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Role != model.RolePolice {
		return nil, ErrNotFound
	}
	if err := s.validatePolice(ctx, &in, id); err != nil {
		return nil, err
	}

	station := in.StationID
	account.Name = in.Name
	account.Email = in.Email
	account.Phone = in.Phone
	account.BadgeNumber = in.BadgeNumber
	account.StationID = &station
	account.PoliceRank = in.Rank
	if err := store.UpdateAccountProfile(ctx, s.DB, account); err != nil {
		return nil, err
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		if err := store.UpdateAccountPassword(ctx, s.DB, id, hash); err != nil {
			return nil, err
		}
	}
	s.logActivity(ctx, actor, "Update Police", fmt.Sprintf("Updated officer %s (%s)", account.Name, account.BadgeNumber))
	return store.GetAccount(ctx, s.DB, id)
}

// SetAccountStatus activates or deactivates a citizen or police account.
// Administrator accounts cannot be deactivated here.
func (s *Service) SetAccountStatus(ctx context.Context, actor model.Actor, id int64, status string) error {
	if err := authorize(actor, model.CapManageAccounts); err != nil {
		return err
	}
	if !model.ValidCatalogStatus(status) {
		return invalid("errors.invalid_status")
	}
	account, err := store.GetAccount(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if account == nil || account.Role == model.RoleAdmin {
		return ErrNotFound
	}
	if err := store.UpdateAccountStatus(ctx, s.DB, id, status); err != nil {
		return err
	}
	s.logActivity(ctx, actor, "Update Account Status",
		fmt.Sprintf("%s %s set to %s", account.Role, account.Email, status))
	return nil
}

// Accounts lists accounts for administrators.
func (s *Service) Accounts(ctx context.Context, actor model.Actor, f store.AccountFilter) ([]model.Account, error) {
	if err := authorize(actor, model.CapManageAccounts); err != nil {
		return nil, err
	}
	return store.ListAccounts(ctx, s.DB, f)
}

// SetLanguage stores the actor's preferred language.
func (s *Service) SetLanguage(ctx context.Context, actor model.Actor, lang string) error {
	if actor == nil {
		return ErrForbidden
	}
	if !model.ValidLanguage(lang) {
		return invalid("errors.invalid_language")
	}
	return store.UpdateAccountLanguage(ctx, s.DB, actor.ActorID(), lang)
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, actor model.Actor, current, next, confirm string) error {
	account, err := s.Account(ctx, actor)
	if err != nil {
		return err
	}
	v := &ValidationError{}
	if current == "" || next == "" || confirm == "" {
		v.add("errors.required_fields")
	}
	if next != "" && model.ValidatePassword(next) != nil {
		v.add("errors.password_too_short")
	}
	if next != confirm {
		v.add("errors.password_mismatch")
	}
	if err := v.err(); err != nil {
		return err
	}
	if !auth.CheckPassword(account.PasswordHash, current) {
		return invalid("errors.wrong_password")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := store.UpdateAccountPassword(ctx, s.DB, account.ID, hash); err != nil {
		return err
	}
	s.logActivity(ctx, actor, "Change Password", "Password changed")
	return nil
}

// Bootstrap creates the first administrator. It is used by the init command
// and bypasses capability checks.
func (s *Service) Bootstrap(ctx context.Context, name, email, password string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !model.ValidEmail(email) {
		return nil, invalid("errors.invalid_email")
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, invalid("errors.password_too_short")
	}
	existing, err := store.GetAccountByEmail(ctx, s.DB, model.RoleAdmin, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("errors.email_taken")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return store.CreateAccount(ctx, s.DB, &model.Account{
		Role:         model.RoleAdmin,
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Status:       model.StatusActive,
	})
}
