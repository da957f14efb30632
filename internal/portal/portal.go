// Package portal implements the lost-and-found workflows shared by the web
// pages and the JSON API: reports and their approval, claims and collection,
// matching, accounts, catalog and notifications.
package portal

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/i18n"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
	"github.com/erazemk/milaap/internal/uploads"
)

// Service runs portal workflows against the database and its collaborators.
type Service struct {
	DB      *sql.DB
	Events  events.Publisher
	Uploads uploads.Store
	Text    i18n.Translator

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New creates a Service. A nil publisher discards events.
func New(db *sql.DB, pub events.Publisher, up uploads.Store, text i18n.Translator) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{DB: db, Events: pub, Uploads: up, Text: text, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// authorize checks that the actor's role grants the capability.
func authorize(actor model.Actor, c model.Capability) error {
	if actor == nil || !actor.ActorRole().Can(c) {
		return ErrForbidden
	}
	return nil
}

// message is a notification to render in the recipient's language.
type message struct {
	Type     string
	TitleKey string
	BodyKey  string
	Params   map[string]string
	// Fallbacks name the key to translate for a param left empty.
	Fallbacks map[string]string
}

// notify renders msg in the recipient's language and stores it. Failures are
// logged and never fail the calling workflow.
func (s *Service) notify(ctx context.Context, accountID int64, msg message) {
	lang := model.LangEnglish
	account, err := store.GetAccount(ctx, s.DB, accountID)
	if err != nil {
		slog.Error("loading notification recipient", "account", accountID, "error", err)
	} else if account != nil {
		lang = account.Language
	}

	params := make(map[string]string, len(msg.Params))
	for k, v := range msg.Params {
		params[k] = v
	}
	for k, key := range msg.Fallbacks {
		if params[k] == "" {
			params[k] = s.Text.T(lang, key, nil)
		}
	}

	title := s.Text.T(lang, msg.TitleKey, params)
	body := s.Text.T(lang, msg.BodyKey, params)
	if err := store.CreateNotification(ctx, s.DB, accountID, title, body, msg.Type); err != nil {
		slog.Error("sending notification", "account", accountID, "title", msg.TitleKey, "error", err)
	}
}

// logActivity appends to the audit trail. Failures are logged only.
func (s *Service) logActivity(ctx context.Context, actor model.Actor, action, description string) {
	if err := store.LogActivity(ctx, s.DB, actor.ActorID(), actor.ActorRole(), action, description, ClientIP(ctx)); err != nil {
		slog.Error("logging activity", "action", action, "error", err)
	}
}

// publish emits a domain event. Broker failures are logged only.
func (s *Service) publish(ctx context.Context, typ string, actor model.Actor, subjectID int64, attrs map[string]string) {
	e := events.New(typ, actor, subjectID, attrs)
	if err := s.Events.Publish(ctx, e); err != nil {
		slog.Warn("publishing event", "type", typ, "subject", subjectID, "error", err)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
