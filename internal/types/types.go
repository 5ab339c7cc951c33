package types

import (
	"fmt"
	"strings"
)

// Tier is a subscription level of a user account
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierUltra   Tier = "ultra"
)

// Tiers lists every valid tier in display order
var Tiers = []Tier{TierFree, TierPremium, TierUltra}

// ParseTier lowercases and trims s, returning an error when it is not a known tier
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tiers {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// TierNames returns the tiers as strings, e.g. for flag help
func TierNames() []string {
	names := make([]string, len(Tiers))
	for i, t := range Tiers {
		names[i] = string(t)
	}
	return names
}

// TierCount holds the number of keys for one tier
type TierCount struct {
	Total  int `json:"total" yaml:"total"`
	Active int `json:"active" yaml:"active"`
}

// Stats is the aggregate dashboard payload
type Stats struct {
	RequestsToday int                `json:"requests_today" yaml:"requests_today"`
	Tiers         map[Tier]TierCount `json:"tiers" yaml:"tiers"`
}

// Payment is one pending payment awaiting review
type Payment struct {
	ID        int     `json:"id" yaml:"id"`
	UserEmail string  `json:"user_email" yaml:"user_email"`
	UserName  string  `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Currency  string  `json:"currency" yaml:"currency"`
	Tier      Tier    `json:"tier" yaml:"tier"`
	Notes     string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt string  `json:"created_at" yaml:"created_at"`
}

// PaymentsResponse wraps the pending queue
type PaymentsResponse struct {
	Payments []Payment `json:"payments" yaml:"payments"`
}

// User is a registered account
type User struct {
	ID          int    `json:"id" yaml:"id"`
	Email       string `json:"email" yaml:"email"`
	FullName    string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	CurrentTier Tier   `json:"current_tier" yaml:"current_tier"`
	Status      string `json:"status" yaml:"status"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

// Pagination describes where a page sits in the full collection
type Pagination struct {
	Page       int `json:"page" yaml:"page"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
	Total      int `json:"total" yaml:"total"`
}

// UsersPage is one page of the users list
type UsersPage struct {
	Users      []User     `json:"users" yaml:"users"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// ActionResult is the body returned by mutating endpoints
type ActionResult struct {
	Success *bool  `json:"success,omitempty" yaml:"success,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Succeeded reports whether the payload carries success: true
func (r ActionResult) Succeeded() bool {
	return r.Success != nil && *r.Success
}

// Text returns the most specific message carried by the payload
func (r ActionResult) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// CreateKeyRequest is the body of POST /admin/keys/create
type CreateKeyRequest struct {
	Tier  Tier   `json:"tier"`
	Email string `json:"email,omitempty"`
	Days  *int   `json:"days,omitempty"`
}

// CreatedKey is returned once; the plaintext key is never shown again
type CreatedKey struct {
	APIKey        string `json:"api_key" yaml:"api_key"`
	Tier          Tier   `json:"tier" yaml:"tier"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	ExpiresInDays *int   `json:"expires_in_days,omitempty" yaml:"expires_in_days,omitempty"`
	Message       string `json:"message,omitempty" yaml:"message,omitempty"`
}

// KeyRecord is the stored metadata of one API key
type KeyRecord struct {
	KeyPrefix  string `json:"key_prefix" yaml:"key_prefix"`
	Tier       Tier   `json:"tier" yaml:"tier"`
	OwnerEmail string `json:"owner_email,omitempty" yaml:"owner_email,omitempty"`
	Active     bool   `json:"active" yaml:"active"`
	CreatedAt  string `json:"created_at" yaml:"created_at"`
	ExpiresAt  string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// KeyInfo lists keys matching a prefix
type KeyInfo struct {
	Count int         `json:"count" yaml:"count"`
	Keys  []KeyRecord `json:"keys" yaml:"keys"`
}

// DailyUsage is the request count of one day
type DailyUsage struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// KeyUsage summarizes requests made with a key
type KeyUsage struct {
	KeyPrefix     string       `json:"key_prefix" yaml:"key_prefix"`
	Tier          Tier         `json:"tier" yaml:"tier"`
	TotalRequests int          `json:"total_requests" yaml:"total_requests"`
	Daily         []DailyUsage `json:"daily" yaml:"daily"`
}
