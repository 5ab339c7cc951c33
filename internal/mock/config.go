package mock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/adminctl/internal/types"
)

// LoadSeed loads seed data from a .yaml, .yml or .json file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML seed: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := validateSeed(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	return &seed, nil
}

// validateSeed checks ids are unique and tiers are known
func validateSeed(seed *Seed) error {
	paymentIDs := make(map[int]bool)
	for i, p := range seed.Payments {
		if p.ID <= 0 {
			return fmt.Errorf("payment %d: id must be positive", i)
		}
		if paymentIDs[p.ID] {
			return fmt.Errorf("payment %d: duplicate id %d", i, p.ID)
		}
		paymentIDs[p.ID] = true
		if _, err := types.ParseTier(string(p.Tier)); err != nil {
			return fmt.Errorf("payment %d: %w", i, err)
		}
	}

	userIDs := make(map[int]bool)
	for i, u := range seed.Users {
		if u.ID <= 0 {
			return fmt.Errorf("user %d: id must be positive", i)
		}
		if userIDs[u.ID] {
			return fmt.Errorf("user %d: duplicate id %d", i, u.ID)
		}
		userIDs[u.ID] = true
		if u.Email == "" {
			return fmt.Errorf("user %d: email is required", i)
		}
	}

	for i, k := range seed.Keys {
		if k.Key == "" {
			return fmt.Errorf("key %d: key is required", i)
		}
	}

	return nil
}

// SaveSeed writes seed data, e.g. to bootstrap a file from DefaultSeed
func SaveSeed(seed *Seed, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(seed)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(seed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported seed file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write seed file: %w", err)
	}

	return nil
}

// DefaultSeed returns a small data set for local development
func DefaultSeed() *Seed {
	seed := &Seed{
		AdminKey:      "dev-admin-key",
		RequestsToday: 1287,
		Payments: []types.Payment{
			{ID: 41, UserEmail: "lan@example.com", UserName: "Nguyễn Thị Lan", Amount: 199000, Currency: "VND", Tier: types.TierPremium, Notes: "MB Bank transfer", CreatedAt: "2026-10-16T08:12:00Z"},
			{ID: 42, UserEmail: "minh@example.com", UserName: "Trần Minh", Amount: 499000, Currency: "VND", Tier: types.TierUltra, CreatedAt: "2026-10-16T10:45:00Z"},
			{ID: 43, UserEmail: "sam@example.com", UserName: "Sam Carter", Amount: 19.99, Currency: "USD", Tier: types.TierPremium, Notes: "PayPal", CreatedAt: "2026-10-17T01:03:00Z"},
		},
		Keys: []SeedKey{
			{
				Key:    "ak_live_8f3c2a91d0b74e55a1c6",
				Record: types.KeyRecord{KeyPrefix: "ak_live_8f3c", Tier: types.TierUltra, OwnerEmail: "minh@example.com", Active: true, CreatedAt: "2026-09-01T00:00:00Z"},
				Daily:  []types.DailyUsage{{Date: "2026-10-15", Count: 310}, {Date: "2026-10-16", Count: 422}},
			},
			{
				Key:    "ak_live_17be0c44f9a2d3e6b8f0",
				Record: types.KeyRecord{KeyPrefix: "ak_live_17be", Tier: types.TierFree, OwnerEmail: "lan@example.com", Active: true, CreatedAt: "2026-10-02T00:00:00Z"},
			},
		},
	}

	tiers := []types.Tier{types.TierFree, types.TierFree, types.TierPremium, types.TierUltra}
	for i := 1; i <= 45; i++ {
		seed.Users = append(seed.Users, types.User{
			ID:          i,
			Email:       fmt.Sprintf("user%02d@example.com", i),
			FullName:    fmt.Sprintf("User %02d", i),
			CurrentTier: tiers[i%len(tiers)],
			Status:      "active",
			CreatedAt:   fmt.Sprintf("2026-%02d-%02dT09:00:00Z", 1+i%9, 1+i%27),
		})
	}
	return seed
}
