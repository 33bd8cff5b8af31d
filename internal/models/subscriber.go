package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the caller's role as reported by the identity provider
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is the authenticated caller as supplied by the identity provider
type Identity struct {
	UserID string
	Role   Role
}

// Subscriber holds the subscription state of a user identity.
// VIP is a cached flag, VIPExpiry is authoritative.
type Subscriber struct {
	ID        string     `json:"id"`
	Username  string     `json:"username,omitempty"`
	Role      Role       `json:"role"`
	VIP       bool       `json:"is_vip"`
	VIPExpiry *time.Time `json:"vip_expiry,omitempty"`
}

// IsAdmin reports whether the subscriber carries the admin role
func (s *Subscriber) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// VIPStatus is the subscription status reported to the caller
type VIPStatus struct {
	IsVIP     bool       `json:"is_vip"`
	VIPFlag   bool       `json:"vip_flag"`
	VIPExpiry *time.Time `json:"vip_expiry"`
}

// PaymentStatusCompleted marks a payment the provider has settled
const PaymentStatusCompleted = "completed"

// PaymentEvent is a payment confirmation published by the payment collaborator
type PaymentEvent struct {
	Reference   string          `json:"reference" validate:"required"`
	UserID      string          `json:"user_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CompletedAt time.Time       `json:"completed_at"`
}

// SubscriptionPlan is the priced VIP tier set
type SubscriptionPlan struct {
	YearlyAmount  decimal.Decimal
	MonthlyAmount decimal.Decimal
}
