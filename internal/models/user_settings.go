package models

import (
	"gorm.io/datatypes"
)

// Settings defaults applied when a user has no row or a column was added
// after the row was written.
const (
	DefaultCurrency = "USD"
	DefaultLanguage = "en"
)

// CustomCategory is a user-defined income or expense category.
type CustomCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

// SettingsAccount is a user-defined account that entries can reference.
type SettingsAccount struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Type AccountType `json:"type"`
}

// UserSettings holds per-user preferences. Its column set grows over time;
// every column beyond the base set is added by the schema migrator.
type UserSettings struct {
	Base
	UserID               string                               `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Currency             string                               `json:"currency"`
	Language             string                               `json:"language"`
	CustomCategories     datatypes.JSONSlice[CustomCategory]  `json:"custom_categories"`
	Accounts             datatypes.JSONSlice[SettingsAccount] `json:"accounts"`
	AnalyticsPreferences datatypes.JSONMap                    `json:"analytics_preferences"`
}

// TableName overrides the table name used by UserSettings
func (UserSettings) TableName() string { return TableUserSettings }

// DefaultSettings returns the settings a user sees before saving any.
func DefaultSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		Currency:             DefaultCurrency,
		Language:             DefaultLanguage,
		CustomCategories:     datatypes.JSONSlice[CustomCategory]{},
		Accounts:             datatypes.JSONSlice[SettingsAccount]{},
		AnalyticsPreferences: datatypes.JSONMap{},
	}
}

// ApplyDefaults fills columns left empty by rows written before the column existed.
func (s *UserSettings) ApplyDefaults() {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.CustomCategories == nil {
		s.CustomCategories = datatypes.JSONSlice[CustomCategory]{}
	}
	if s.Accounts == nil {
		s.Accounts = datatypes.JSONSlice[SettingsAccount]{}
	}
	if s.AnalyticsPreferences == nil {
		s.AnalyticsPreferences = datatypes.JSONMap{}
	}
}
