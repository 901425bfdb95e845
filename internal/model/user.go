package model

import "time"

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

const (
	TierBasic  = "Basic"
	TierSilver = "Silver"
	TierGold   = "Gold"
)

// User represents an account row in the `users` table. It carries the
// wallet and loyalty fields as well as login data; the wallet columns are
// only mutated by the payment, refund and top-up paths.
//
// Fields:
//
//	ID             – primary key identifier of the user.
//	Name           – display name used in emails and reviews.
//	Email          – unique, lowercased address.
//	PasswordHash   – bcrypt hashed password.
//	Role           – CUSTOMER or ADMIN.
//	IsActive       – whether the account may log in.
//	WalletBalance  – stored credit in currency units.
//	LoyaltyPoints  – points accrued from wallet top-ups.
//	MembershipTier – Basic, Silver or Gold (informational).
//	ResetTokenHash – SHA‑256 of the outstanding password reset token.
//	ResetExpiresAt – when that reset token stops being valid.
type User struct {
	ID             uint64     `json:"id"`             // users.id
	Name           string     `json:"name"`           // users.name
	Email          string     `json:"email"`          // users.email
	PasswordHash   string     `json:"-"`              // users.password_hash
	Role           string     `json:"role"`           // users.role
	IsActive       bool       `json:"isActive"`       // users.is_active
	WalletBalance  float64    `json:"walletBalance"`  // users.wallet_balance
	LoyaltyPoints  int        `json:"loyaltyPoints"`  // users.loyalty_points
	MembershipTier string     `json:"membershipTier"` // users.membership_tier
	ResetTokenHash string     `json:"-"`              // users.reset_token_hash
	ResetExpiresAt *time.Time `json:"-"`              // users.reset_expires_at (nullable)
	CreatedAt      time.Time  `json:"createdAt"`      // users.created_at
	UpdatedAt      time.Time  `json:"updatedAt"`      // users.updated_at
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA‑256 hash of the token handed to the client is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
