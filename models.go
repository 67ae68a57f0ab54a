package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record. PasswordDigest never leaves the package:
// Manager strips it from every returned value and it is excluded from JSON.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Name           string     `bun:"name" json:"name,omitempty"`
	ProfilePicture string     `bun:"profile_picture" json:"pfp,omitempty"`
	PasswordDigest string     `bun:"password_digest" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Sanitized returns a copy of the user with the credential digest removed.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.PasswordDigest = ""
	return &clean
}

// Credentials is the registration payload.
type Credentials struct {
	Email          string `json:"email" form:"email"`
	Username       string `json:"username" form:"username"`
	Name           string `json:"name" form:"name"`
	ProfilePicture string `json:"pfp" form:"pfp"`
	Password       string `json:"password" form:"password"`
}

// Validate will validate the payload
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(
			&c.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&c.Username,
			validation.Required,
			validation.Length(1, 100),
		),
		validation.Field(
			&c.Password,
			validation.Required,
			validation.Length(6, 100),
		),
	)
}

// UserPatch is a partial update. Nil fields are left untouched; the record
// id is never patchable. Password, when set, is digested before storage.
type UserPatch struct {
	Email          *string `json:"email,omitempty"`
	Username       *string `json:"username,omitempty"`
	Name           *string `json:"name,omitempty"`
	ProfilePicture *string `json:"pfp,omitempty"`
	Password       *string `json:"password,omitempty"`

	// PasswordDigest is what the store persists. Manager fills it from
	// Password; stores must never see the plaintext.
	PasswordDigest *string `json:"-"`
}

// IsZero reports whether the patch carries no changes.
func (p UserPatch) IsZero() bool {
	return p.Email == nil &&
		p.Username == nil &&
		p.Name == nil &&
		p.ProfilePicture == nil &&
		p.Password == nil &&
		p.PasswordDigest == nil
}

// ApplyTo merges the patch into a copy of the given user.
func (p UserPatch) ApplyTo(user *User) *User {
	if user == nil {
		return nil
	}
	merged := *user
	if p.Email != nil {
		merged.Email = *p.Email
	}
	if p.Username != nil {
		merged.Username = *p.Username
	}
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.ProfilePicture != nil {
		merged.ProfilePicture = *p.ProfilePicture
	}
	if p.PasswordDigest != nil {
		merged.PasswordDigest = *p.PasswordDigest
	}
	return &merged
}

// AuthResult pairs a freshly issued token with the matching user record.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
