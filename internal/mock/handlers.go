package mock

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/types"
)

// defaultPerPage matches the page size of the real users endpoint
const defaultPerPage = 20

// prefixLen is how much of a generated key is stored as its prefix
const prefixLen = 12

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func actionJSON(c *fiber.Ctx, success bool, msg string) error {
	return c.JSON(types.ActionResult{Success: &success, Message: msg})
}

// requireAdminKey guards every admin route
func (s *Server) requireAdminKey(c *fiber.Ctx) error {
	s.mu.RLock()
	expected := s.adminKey
	s.mu.RUnlock()

	if expected == "" {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Admin access not configured")
	}
	if c.Get(adminapi.HeaderAdminKey) != expected {
		return errorJSON(c, fiber.StatusForbidden, "Unauthorized")
	}
	return c.Next()
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		RequestsToday: s.requestsToday,
		Tiers:         make(map[types.Tier]types.TierCount, len(types.Tiers)),
	}
	for _, t := range types.Tiers {
		stats.Tiers[t] = types.TierCount{}
	}
	for _, k := range s.keys {
		tc := stats.Tiers[k.Record.Tier]
		tc.Total++
		if k.Record.Active {
			tc.Active++
		}
		stats.Tiers[k.Record.Tier] = tc
	}
	return c.JSON(stats)
}

func (s *Server) handlePayments(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := make([]types.Payment, len(s.payments))
	copy(payments, s.payments)
	return c.JSON(types.PaymentsResponse{Payments: payments})
}

// handleSettle approves or rejects a pending payment, then redirects to the
// admin page the way the server-rendered form flow does
func (s *Server) handleSettle(approve bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid payment id")
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		idx := -1
		for i, p := range s.payments {
			if p.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errorJSON(c, fiber.StatusNotFound, "Payment not found")
		}

		p := s.payments[idx]
		s.payments = append(s.payments[:idx], s.payments[idx+1:]...)
		if approve {
			for i := range s.users {
				if strings.EqualFold(s.users[i].Email, p.UserEmail) {
					s.users[i].CurrentTier = p.Tier
				}
			}
		}
		return c.Redirect("/admin/", fiber.StatusFound)
	}
}

func (s *Server) handleUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		if search == "" ||
			strings.Contains(strings.ToLower(u.Email), search) ||
			strings.Contains(strings.ToLower(u.FullName), search) {
			matched = append(matched, u)
		}
	}

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return c.JSON(types.UsersPage{
		Users: append([]types.User{}, matched[start:end]...),
		Pagination: types.Pagination{
			Page:       page,
			TotalPages: totalPages,
			Total:      total,
		},
	})
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return actionJSON(c, true, "User "+u.Email+" deleted")
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(types.ActionResult{Success: new(bool), Error: "User not found"})
}

func (s *Server) handleChangeTier(c *fiber.Ctx) error {
	id, err := fiberFormInt(c, "user_id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user id")
	}
	tier, err := types.ParseTier(c.FormValue("tier"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid tier")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].CurrentTier = tier
			return actionJSON(c, true, "Tier changed to "+string(tier))
		}
	}
	return errorJSON(c, fiber.StatusNotFound, "User not found")
}

func fiberFormInt(c *fiber.Ctx, key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(c.FormValue(key)))
}

func (s *Server) handleCreateKey(c *fiber.Ctx) error {
	var req types.CreateKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON body")
	}
	tier, err := types.ParseTier(string(req.Tier))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid tier")
	}
	if req.Days != nil && *req.Days < 1 {
		return errorJSON(c, fiber.StatusBadRequest, "days must be >= 1")
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate key")
	}
	key := "ak_" + hex.EncodeToString(raw)

	now := time.Now().UTC()
	record := types.KeyRecord{
		KeyPrefix:  key[:prefixLen],
		Tier:       tier,
		OwnerEmail: req.Email,
		Active:     true,
		CreatedAt:  now.Format(time.RFC3339),
	}
	if req.Days != nil {
		record.ExpiresAt = now.AddDate(0, 0, *req.Days).Format(time.RFC3339)
	}

	s.mu.Lock()
	s.keys = append(s.keys, SeedKey{Key: key, Record: record})
	s.mu.Unlock()

	return c.JSON(types.CreatedKey{
		APIKey:        key,
		Tier:          tier,
		Email:         req.Email,
		ExpiresInDays: req.Days,
		Message:       "Store this key securely - it will not be shown again",
	})
}

// matchKeys returns the indexes of keys starting with prefix; caller holds mu
func (s *Server) matchKeys(prefix string) []int {
	var idx []int
	for i, k := range s.keys {
		if strings.HasPrefix(k.Key, prefix) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (s *Server) handleKeyInfo(c *fiber.Ctx) error {
	prefix := c.Params("prefix")

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.matchKeys(prefix)
	if len(idx) == 0 {
		return errorJSON(c, fiber.StatusNotFound, "No keys found with this prefix")
	}
	info := types.KeyInfo{Count: len(idx), Keys: make([]types.KeyRecord, 0, len(idx))}
	for _, i := range idx {
		info.Keys = append(info.Keys, s.keys[i].Record)
	}
	return c.JSON(info)
}

func (s *Server) handleDeactivateKey(c *fiber.Ctx) error {
	prefix := c.Params("prefix")

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.matchKeys(prefix)
	if len(idx) == 0 {
		return errorJSON(c, fiber.StatusNotFound, "No keys found with this prefix")
	}
	for _, i := range idx {
		s.keys[i].Record.Active = false
	}
	return actionJSON(c, true, "Key deactivated")
}

func (s *Server) handleKeyUsage(c *fiber.Ctx) error {
	prefix := c.Params("prefix")

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.matchKeys(prefix)
	if len(idx) == 0 {
		return errorJSON(c, fiber.StatusNotFound, "No keys found with this prefix")
	}
	k := s.keys[idx[0]]
	usage := types.KeyUsage{
		KeyPrefix: k.Record.KeyPrefix,
		Tier:      k.Record.Tier,
		Daily:     append([]types.DailyUsage{}, k.Daily...),
	}
	for _, d := range k.Daily {
		usage.TotalRequests += d.Count
	}
	return c.JSON(usage)
}
