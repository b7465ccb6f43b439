package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           int64           `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	Name         string          `json:"name" db:"name"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Credit       decimal.Decimal `json:"credit" db:"credit"`
	Description  string          `json:"description" db:"description"`

	IsArtist   bool `json:"is_artist" db:"is_artist"`
	IsPromoter bool `json:"is_promoter" db:"is_promoter"`
	IsVerified bool `json:"is_verified" db:"is_verified"`

	ProcessorCustomerID *string `json:"processor_customer_id,omitempty" db:"processor_customer_id"`
	ProcessorAccountID  *string `json:"processor_account_id,omitempty" db:"processor_account_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile is the closed set of public view models for an account.
// The concrete type is picked once from the account's role flags instead of
// branching on is_artist/is_promoter at every call site.
type Profile interface {
	ProfileKind() string
}

type UserProfile struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (UserProfile) ProfileKind() string { return "user" }

type ArtistProfile struct {
	UserProfile
	Description string          `json:"description"`
	Points      decimal.Decimal `json:"points"`
}

func (ArtistProfile) ProfileKind() string { return "artist" }

type PromoterProfile struct {
	UserProfile
	Description string `json:"description"`
	IsVerified  bool   `json:"is_verified"`
}

func (PromoterProfile) ProfileKind() string { return "promoter" }

// BuildProfile dispatches an account to its view model. Artist points are
// supplied by the caller because they come from the standings query.
func BuildProfile(a Account, points decimal.Decimal) Profile {
	base := UserProfile{Email: a.Email, Name: a.Name}
	switch {
	case a.IsArtist:
		base.Kind = "artist"
		return ArtistProfile{UserProfile: base, Description: a.Description, Points: points}
	case a.IsPromoter:
		base.Kind = "promoter"
		return PromoterProfile{UserProfile: base, Description: a.Description, IsVerified: a.IsVerified}
	default:
		base.Kind = "user"
		return base
	}
}
