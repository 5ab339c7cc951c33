package mock

import (
	"time"

	"github.com/studiowebux/adminctl/internal/types"
)

// Seed is the initial data of the fake admin API
type Seed struct {
	AdminKey      string          `json:"adminKey" yaml:"adminKey"`           // empty answers 503 like an unconfigured server
	RequestsToday int             `json:"requestsToday" yaml:"requestsToday"` // reported by /admin/stats
	Delay         int             `json:"delay,omitempty" yaml:"delay,omitempty"` // per-request delay in milliseconds
	Payments      []types.Payment `json:"payments" yaml:"payments"`
	Users         []types.User    `json:"users" yaml:"users"`
	Keys          []SeedKey       `json:"keys" yaml:"keys"`
}

// SeedKey is a stored API key with its usage history
type SeedKey struct {
	Key    string             `json:"key" yaml:"key"`
	Record types.KeyRecord    `json:"record" yaml:"record"`
	Daily  []types.DailyUsage `json:"daily,omitempty" yaml:"daily,omitempty"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Query     string        `json:"query,omitempty"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}
