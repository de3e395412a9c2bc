package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/uuid"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/validator"
)

// settingsService reads and writes per-user settings. Every write brings the
// settings table up to the current column set first.
type settingsService struct {
	store *store.Store
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(s *store.Store) SettingsServicer {
	return &settingsService{store: s}
}

func (s *settingsService) find(ctx context.Context, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.store.Run(ctx, "find settings", func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).First(&settings).Error
	})
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	return &settings, nil
}

// GetSettings returns the stored settings, or the defaults when the user
// has never saved any.
func (s *settingsService) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings, err := s.find(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.DefaultSettings(userID), nil
	}
	return settings, err
}

// SaveSettings upserts the supplied fields. A failure to migrate the table
// aborts the write.
func (s *settingsService) SaveSettings(ctx context.Context, userID string, in SettingsInput) (*models.UserSettings, error) {
	if err := s.store.Migrator().EnsureSettingsColumns(ctx); err != nil {
		logger.Named("settings").Errorw("settings migration failed", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	fields, err := settingsFields(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.RequireUser(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		created, cerr := s.create(ctx, userID, in)
		if !errors.Is(cerr, apperrors.ErrDuplicateID) {
			return created, cerr
		}
		// Another request created the row first; apply ours on top.
		if existing, err = s.find(ctx, userID); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if _, err := s.store.UpdateScoped(ctx, &models.UserSettings{}, existing.ID, userID, fields); err != nil {
		return nil, err
	}
	return s.find(ctx, userID)
}

func (s *settingsService) create(ctx context.Context, userID string, in SettingsInput) (*models.UserSettings, error) {
	settings := models.DefaultSettings(userID)
	if in.Currency != nil {
		settings.Currency = normalizeCurrency(*in.Currency)
	}
	if in.Language != nil {
		settings.Language = strings.TrimSpace(*in.Language)
	}
	if in.CustomCategories != nil {
		settings.CustomCategories = *in.CustomCategories
	}
	if in.Accounts != nil {
		settings.Accounts = *in.Accounts
	}
	if in.AnalyticsPreferences != nil {
		settings.AnalyticsPreferences = in.AnalyticsPreferences
	}

	if err := s.store.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// settingsFields validates in and returns the columns to write. Custom
// categories and accounts without an id are assigned one in place.
func settingsFields(in SettingsInput) (map[string]any, error) {
	fields := map[string]any{}

	if in.Currency != nil {
		code := normalizeCurrency(*in.Currency)
		if !validator.IsCurrency(code) {
			return nil, apperrors.Validation("currency must be an ISO 4217 code")
		}
		fields["currency"] = code
	}
	if in.Language != nil {
		lang := strings.TrimSpace(*in.Language)
		if lang == "" || len(lang) > 10 {
			return nil, apperrors.Validation("language must be 1 to 10 characters")
		}
		fields["language"] = lang
	}
	if in.CustomCategories != nil {
		categories := *in.CustomCategories
		for i := range categories {
			c := &categories[i]
			c.Name = strings.TrimSpace(c.Name)
			if c.Name == "" {
				return nil, apperrors.Validation("custom category name is required")
			}
			if c.Type != "income" && c.Type != "expense" {
				return nil, apperrors.Validation("custom category type must be income or expense")
			}
			if c.ID == "" {
				c.ID = uuid.New()
			}
		}
		fields["custom_categories"] = datatypes.JSONSlice[models.CustomCategory](categories)
	}
	if in.Accounts != nil {
		accounts := *in.Accounts
		for i := range accounts {
			a := &accounts[i]
			a.Name = strings.TrimSpace(a.Name)
			if a.Name == "" {
				return nil, apperrors.Validation("account name is required")
			}
			t, err := accountTypeOrDefault(a.Type)
			if err != nil {
				return nil, err
			}
			a.Type = t
			if a.ID == "" {
				a.ID = uuid.New()
			}
		}
		fields["accounts"] = datatypes.JSONSlice[models.SettingsAccount](accounts)
	}
	if in.AnalyticsPreferences != nil {
		fields["analytics_preferences"] = datatypes.JSONMap(in.AnalyticsPreferences)
	}
	return fields, nil
}
