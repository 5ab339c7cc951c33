package adminapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/adminctl/internal/testutil"
	"github.com/studiowebux/adminctl/internal/types"
)

func newTestClient(t *testing.T, key string, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(Options{BaseURL: srv.URL + "/", Logger: testutil.NewTestLogger(t)}, StaticKey(key))
	return c, &calls
}

func TestClient_MissingCredentialMakesNoCall(t *testing.T) {
	c, calls := newTestClient(t, "  ", func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Stats(context.Background())
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, "Please enter the admin key first", Message(err))
}

func TestClient_Stats(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/stats", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(HeaderAdminKey))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"requests_today": 12, "tiers": {"free": {"total": 3, "active": 2}, "ultra": {"total": 1, "active": 1}}}`)
	})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.RequestsToday)
	assert.Equal(t, types.TierCount{Total: 3, Active: 2}, stats.Tiers[types.TierFree])
}

func TestClient_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, "wrong", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": "Unauthorized"}`)
	})

	_, err := c.Payments(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Unauthorized", Message(err))
}

func TestClient_RemoteErrorPrefersServerMessage(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "Payment already processed"}`)
	})

	err := c.ApprovePayment(context.Background(), 42)
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "Payment already processed", Message(err))
}

func TestClient_RemoteErrorFallback(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "<html>oops</html>")
	})

	err := c.RejectPayment(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "Request failed (HTTP 500)", Message(err))
}

func TestClient_ApproveAcceptsRedirect(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/payments/42/approve", r.URL.Path)
		http.Redirect(w, r, "/admin/", http.StatusFound)
	})

	assert.NoError(t, c.ApprovePayment(context.Background(), 42))
}

func TestClient_Users(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("per_page"))
		assert.Equal(t, "bob", q.Get("search"))
		io.WriteString(w, `{"users": [{"id": 7, "email": "bob@example.com", "current_tier": "free", "status": "active"}], "pagination": {"page": 2, "total_pages": 3, "total": 41}}`)
	})

	page, err := c.Users(context.Background(), 2, 20, "bob")
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, types.TierFree, page.Users[0].CurrentTier)
	assert.Equal(t, types.Pagination{Page: 2, TotalPages: 3, Total: 41}, page.Pagination)
}

func TestClient_SuccessFalsePayloadIsRemoteError(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		io.WriteString(w, `{"success": false, "message": "Cannot delete admin"}`)
	})

	_, err := c.DeleteUser(context.Background(), 3)
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Cannot delete admin", Message(err))
}

func TestClient_ChangeTierSendsForm(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "7", r.PostForm.Get("user_id"))
		assert.Equal(t, "premium", r.PostForm.Get("tier"))
		assert.Equal(t, "paid by transfer", r.PostForm.Get("notes"))
		io.WriteString(w, `{"success": true, "message": "Tier updated"}`)
	})

	msg, err := c.ChangeTier(context.Background(), 7, types.TierPremium, "paid by transfer")
	require.NoError(t, err)
	assert.Equal(t, "Tier updated", msg)
}

func TestClient_CreateKey(t *testing.T) {
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"tier": "premium", "days": 30}`, string(body))
		io.WriteString(w, `{"success": true, "api_key": "ak_123", "tier": "premium", "expires_in_days": 30}`)
	})

	days := 30
	key, err := c.CreateKey(context.Background(), types.CreateKeyRequest{Tier: types.TierPremium, Days: &days})
	require.NoError(t, err)
	assert.Equal(t, "ak_123", key.APIKey)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, Logger: testutil.NewTestLogger(t)}, StaticKey("secret"))
	_, err := c.Stats(context.Background())

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "stats", te.Op)
	assert.Contains(t, Message(err), "Connection refused")
}
