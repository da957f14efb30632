package portal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// Categories lists categories. Only administrators see inactive ones.
func (s *Service) Categories(ctx context.Context, actor model.Actor) ([]model.Category, error) {
	all := actor != nil && actor.ActorRole().Can(model.CapManageCatalog)
	return store.ListCategories(ctx, s.DB, !all)
}

// SaveCategory creates a category when id is zero and updates it otherwise.
// Names are unique.
func (s *Service) SaveCategory(ctx context.Context, actor model.Actor, id int64, name, description, status string) (*model.Category, error) {
	if err := authorize(actor, model.CapManageCatalog); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if status == "" {
		status = model.StatusActive
	}

	v := &ValidationError{}
	if name == "" || description == "" {
		v.add("errors.required_fields")
	}
	if !model.ValidCatalogStatus(status) {
		v.add("errors.invalid_status")
	}
	if name != "" {
		other, err := store.GetCategoryByName(ctx, s.DB, name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			v.add("errors.name_taken")
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if id == 0 {
		c, err := store.CreateCategory(ctx, s.DB, name, description)
		if err != nil {
			return nil, err
		}
		s.logActivity(ctx, actor, "Add Category", "Added category "+name)
		return c, nil
	}

	existing, err := store.GetCategory(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if err := store.UpdateCategory(ctx, s.DB, id, name, description, status); err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "Update Category", "Updated category "+name)
	return store.GetCategory(ctx, s.DB, id)
}

// DeleteCategory removes a category no report uses.
func (s *Service) DeleteCategory(ctx context.Context, actor model.Actor, id int64) error {
	if err := authorize(actor, model.CapManageCatalog); err != nil {
		return err
	}
	c, err := store.GetCategory(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	used, err := store.CategoryInUse(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	if err := store.DeleteCategory(ctx, s.DB, id); err != nil {
		return err
	}
	s.logActivity(ctx, actor, "Delete Category", "Deleted category "+c.Name)
	return nil
}

// Locations lists locations. Only administrators see inactive ones.
func (s *Service) Locations(ctx context.Context, actor model.Actor) ([]model.Location, error) {
	all := actor != nil && actor.ActorRole().Can(model.CapManageCatalog)
	return store.ListLocations(ctx, s.DB, !all)
}

// AddLocation creates an active location with a unique name.
func (s *Service) AddLocation(ctx context.Context, actor model.Actor, name string) (*model.Location, error) {
	if err := authorize(actor, model.CapManageCatalog); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("errors.required_fields")
	}
	existing, err := store.ListLocations(ctx, s.DB, false)
	if err != nil {
		return nil, err
	}
	for _, l := range existing {
		if strings.EqualFold(l.Name, name) {
			return nil, invalid("errors.name_taken")
		}
	}
	l, err := store.CreateLocation(ctx, s.DB, name)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "Add Location", "Added location "+name)
	return l, nil
}

// SetLocationStatus activates or deactivates a location.
func (s *Service) SetLocationStatus(ctx context.Context, actor model.Actor, id int64, status string) error {
	if err := authorize(actor, model.CapManageCatalog); err != nil {
		return err
	}
	if !model.ValidCatalogStatus(status) {
		return invalid("errors.invalid_status")
	}
	l, err := store.GetLocation(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNotFound
	}
	if err := store.UpdateLocationStatus(ctx, s.DB, id, status); err != nil {
		return err
	}
	s.logActivity(ctx, actor, "Update Location", fmt.Sprintf("Location %s set to %s", l.Name, status))
	return nil
}

// Stations lists police stations.
func (s *Service) Stations(ctx context.Context) ([]model.Station, error) {
	return store.ListStations(ctx, s.DB)
}

// AddStation creates a police station.
func (s *Service) AddStation(ctx context.Context, actor model.Actor, name, address, contact string) (*model.Station, error) {
	if err := authorize(actor, model.CapManageCatalog); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	contact = strings.TrimSpace(contact)
	if name == "" || address == "" || contact == "" {
		return nil, invalid("errors.required_fields")
	}
	st, err := store.CreateStation(ctx, s.DB, name, address, contact)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "Add Station", "Added station "+name)
	return st, nil
}

// Settings holds the administrator-editable portal settings.
type Settings struct {
	SiteName     string `json:"site_name"`
	ContactEmail string `json:"contact_email"`
}

// Settings returns the portal settings.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	values, err := store.GetSettings(ctx, s.DB, store.SettingSiteName, store.SettingContactEmail)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		SiteName:     values[store.SettingSiteName],
		ContactEmail: values[store.SettingContactEmail],
	}, nil
}

// UpdateSettings stores the portal settings.
func (s *Service) UpdateSettings(ctx context.Context, actor model.Actor, st Settings) error {
	if err := authorize(actor, model.CapManageCatalog); err != nil {
		return err
	}
	st.SiteName = strings.TrimSpace(st.SiteName)
	st.ContactEmail = strings.TrimSpace(st.ContactEmail)

	v := &ValidationError{}
	if st.SiteName == "" || st.ContactEmail == "" {
		v.add("errors.required_fields")
	}
	if st.ContactEmail != "" && !model.ValidEmail(st.ContactEmail) {
		v.add("errors.invalid_email")
	}
	if err := v.err(); err != nil {
		return err
	}

	err := store.InTx(ctx, s.DB, func(tx *sql.Tx) error {
		return store.SetSettings(ctx, tx, map[string]string{
			store.SettingSiteName:     st.SiteName,
			store.SettingContactEmail: st.ContactEmail,
		})
	})
	if err != nil {
		return err
	}
	s.logActivity(ctx, actor, "Update Settings", "Updated portal settings")
	return nil
}
