package domain

import "time"

// Account models a registered identity on the platform.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Phone        string    `json:"phone"`
	Enabled      bool      `json:"enabled"`
	Locked       bool      `json:"locked"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName is the display name carried in session tokens and emails.
func (a *Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// HasRole reports whether the account holds r.
func (a *Account) HasRole(r Role) bool {
	for _, have := range a.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// Activate moves the account to the active state. There is no way back.
func (a *Account) Activate(now time.Time) {
	a.Enabled = true
	a.UpdatedAt = now
}

// ProfileUpdate carries the self-service editable fields.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
}

// AdminUpdate carries the fields an administrator may change on any account.
type AdminUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	Enabled   bool
}
