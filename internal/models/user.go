package models

// User represents the user model in the database. PasswordHash is nil for
// accounts created through an external identity provider.
type User struct {
	Base
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash *string `json:"-"`
	Name         string  `json:"name"`
	AvatarURL    string  `json:"avatar_url"`
}

// TableName overrides the table name used by User
func (User) TableName() string { return TableUsers }
