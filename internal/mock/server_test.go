package mock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/testutil"
	"github.com/studiowebux/adminctl/internal/types"
)

func newTestClient(t *testing.T, seed *Seed, key string) (*adminapi.Client, *Server) {
	t.Helper()
	srv := NewServer(seed, testutil.NewTestLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := adminapi.New(adminapi.Options{
		BaseURL: ts.URL,
		Logger:  testutil.NewTestLogger(t),
	}, adminapi.StaticKey(key))
	return client, srv
}

func TestServer_RequiresAdminKey(t *testing.T) {
	srv := NewServer(DefaultSeed(), testutil.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set(adminapi.HeaderAdminKey, "dev-admin-key")
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_UnconfiguredAdminKey(t *testing.T) {
	seed := DefaultSeed()
	seed.AdminKey = ""
	client, _ := newTestClient(t, seed, "anything")

	_, err := client.Stats(context.Background())
	var re *adminapi.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusServiceUnavailable, re.Status)
	assert.Equal(t, "Admin access not configured", re.Message)
}

func TestServer_WrongKeyIsUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "nope")

	_, err := client.Payments(context.Background())
	assert.True(t, adminapi.IsUnauthorized(err))
}

func TestServer_StatsCountsKeysPerTier(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1287, stats.RequestsToday)
	assert.Equal(t, types.TierCount{Total: 1, Active: 1}, stats.Tiers[types.TierUltra])
	assert.Equal(t, types.TierCount{Total: 1, Active: 1}, stats.Tiers[types.TierFree])
	assert.Equal(t, types.TierCount{}, stats.Tiers[types.TierPremium])
}

func TestServer_ApproveRemovesPaymentAndUpgradesUser(t *testing.T) {
	seed := DefaultSeed()
	seed.Users[0].Email = "lan@example.com"
	seed.Users[0].CurrentTier = types.TierFree
	client, srv := newTestClient(t, seed, "dev-admin-key")
	ctx := context.Background()

	require.NoError(t, client.ApprovePayment(ctx, 41))

	payments, err := client.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 42, payments[0].ID)

	page, err := client.Users(ctx, 1, 20, "lan@")
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, types.TierPremium, page.Users[0].CurrentTier)

	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/admin/payments/41/approve"))
}

func TestServer_RequestLogSurvivesLaterRequests(t *testing.T) {
	client, srv := newTestClient(t, DefaultSeed(), "dev-admin-key")
	ctx := context.Background()

	require.NoError(t, client.ApprovePayment(ctx, 41))
	_, err := client.Payments(ctx)
	require.NoError(t, err)
	_, err = client.Users(ctx, 2, 20, "user")
	require.NoError(t, err)
	_, err = client.Stats(ctx)
	require.NoError(t, err)

	var got []string
	for _, l := range srv.GetLogs() {
		got = append(got, l.Method+" "+l.Path+"?"+l.Query)
	}
	assert.Equal(t, []string{
		"POST /admin/payments/41/approve?",
		"GET /admin/payments?",
		"GET /admin/users?page=2&per_page=20&search=user",
		"GET /admin/stats?",
	}, got)
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/admin/payments/41/approve"))
	assert.Equal(t, 1, srv.CountRequests(http.MethodGet, "/admin/payments"))
}

func TestServer_SettleUnknownPayment(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")

	err := client.RejectPayment(context.Background(), 999)
	var re *adminapi.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "Payment not found", re.Message)
}

func TestServer_UsersPagination(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")
	ctx := context.Background()

	tests := []struct {
		name      string
		page      int
		search    string
		wantLen   int
		wantPages int
		wantTotal int
	}{
		{"first page", 1, "", 20, 3, 45},
		{"last page", 3, "", 5, 3, 45},
		{"past the end", 9, "", 0, 3, 45},
		{"search by name", 1, "user 1", 10, 1, 10},
		{"search no match", 1, "nobody", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := client.Users(ctx, tt.page, 20, tt.search)
			require.NoError(t, err)
			assert.Len(t, page.Users, tt.wantLen)
			assert.Equal(t, tt.wantPages, page.Pagination.TotalPages)
			assert.Equal(t, tt.wantTotal, page.Pagination.Total)
			assert.Equal(t, tt.page, page.Pagination.Page)
		})
	}
}

func TestServer_UserMutations(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")
	ctx := context.Background()

	msg, err := client.ChangeTier(ctx, 2, types.TierUltra, "promo")
	require.NoError(t, err)
	assert.Equal(t, "Tier changed to ultra", msg)

	msg, err = client.DeleteUser(ctx, 2)
	require.NoError(t, err)
	assert.Contains(t, msg, "user02@example.com")

	_, err = client.DeleteUser(ctx, 2)
	var re *adminapi.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "User not found", re.Message)

	page, err := client.Users(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, 44, page.Pagination.Total)
}

func TestServer_KeyLifecycle(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")
	ctx := context.Background()

	days := 30
	created, err := client.CreateKey(ctx, types.CreateKeyRequest{Tier: types.TierPremium, Email: "a@b.co", Days: &days})
	require.NoError(t, err)
	assert.Regexp(t, `^ak_[0-9a-f]{32}$`, created.APIKey)
	require.NotNil(t, created.ExpiresInDays)
	assert.Equal(t, 30, *created.ExpiresInDays)

	prefix := created.APIKey[:prefixLen]
	info, err := client.KeyInfo(ctx, prefix)
	require.NoError(t, err)
	require.Equal(t, 1, info.Count)
	assert.True(t, info.Keys[0].Active)
	assert.NotEmpty(t, info.Keys[0].ExpiresAt)

	_, err = client.DeactivateKey(ctx, prefix)
	require.NoError(t, err)

	info, err = client.KeyInfo(ctx, prefix)
	require.NoError(t, err)
	assert.False(t, info.Keys[0].Active)

	usage, err := client.KeyUsage(ctx, "ak_live_8f3c")
	require.NoError(t, err)
	assert.Equal(t, 732, usage.TotalRequests)
	assert.Len(t, usage.Daily, 2)
}

func TestServer_CreateKeyRejectsBadTier(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")

	_, err := client.CreateKey(context.Background(), types.CreateKeyRequest{Tier: "gold"})
	var re *adminapi.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)
}

func TestServer_UnknownKeyPrefix(t *testing.T) {
	client, _ := newTestClient(t, DefaultSeed(), "dev-admin-key")

	_, err := client.KeyInfo(context.Background(), "ak_missing")
	var re *adminapi.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
}

func TestServer_RequestLog(t *testing.T) {
	client, srv := newTestClient(t, DefaultSeed(), "dev-admin-key")

	_, err := client.Payments(context.Background())
	require.NoError(t, err)

	logs := srv.GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, http.MethodGet, logs[0].Method)
	assert.Equal(t, "/admin/payments", logs[0].Path)
	assert.Equal(t, http.StatusOK, logs[0].Status)

	select {
	case <-srv.NotifyChannel():
	default:
		t.Fatal("expected a notification for the logged request")
	}

	srv.ClearLogs()
	assert.Empty(t, srv.GetLogs())
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml round trip", func(t *testing.T) {
		path := filepath.Join(dir, "seed.yaml")
		require.NoError(t, SaveSeed(DefaultSeed(), path))

		seed, err := LoadSeed(path)
		require.NoError(t, err)
		assert.Equal(t, "dev-admin-key", seed.AdminKey)
		assert.Len(t, seed.Users, 45)
		assert.Len(t, seed.Keys, 2)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "seed.json")
		body := `{"adminKey":"k","payments":[{"id":1,"user_email":"a@b.co","amount":5,"currency":"USD","tier":"premium"}]}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))

		seed, err := LoadSeed(path)
		require.NoError(t, err)
		require.Len(t, seed.Payments, 1)
		assert.Equal(t, types.TierPremium, seed.Payments[0].Tier)
	})

	t.Run("duplicate payment id", func(t *testing.T) {
		path := filepath.Join(dir, "dup.yaml")
		body := "payments:\n  - id: 1\n    tier: free\n  - id: 1\n    tier: free\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))

		_, err := LoadSeed(path)
		assert.ErrorContains(t, err, "duplicate id 1")
	})

	t.Run("unknown tier", func(t *testing.T) {
		path := filepath.Join(dir, "tier.yaml")
		require.NoError(t, os.WriteFile(path, []byte("payments:\n  - id: 1\n    tier: gold\n"), 0644))

		_, err := LoadSeed(path)
		assert.ErrorContains(t, err, "unknown tier")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "seed.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0644))

		_, err := LoadSeed(path)
		assert.ErrorContains(t, err, "unsupported seed file format")
	})
}
