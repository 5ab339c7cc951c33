package listview

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/testutil"
	"github.com/studiowebux/adminctl/internal/types"
)

// pagedUsers serves total users in pages, recording every query
type pagedUsers struct {
	mu      sync.Mutex
	total   int
	err     error
	queries []Query
}

func (p *pagedUsers) fetch(_ context.Context, q Query) (Page[types.User], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, q)
	if p.err != nil {
		return Page[types.User]{}, p.err
	}

	totalPages := (p.total + q.PerPage - 1) / q.PerPage
	var users []types.User
	for i := (q.Page - 1) * q.PerPage; i < p.total && i < q.Page*q.PerPage; i++ {
		users = append(users, types.User{ID: i + 1, Email: fmt.Sprintf("u%d@example.com", i+1)})
	}
	return Page[types.User]{Items: users, Pagination: types.Pagination{Page: q.Page, TotalPages: totalPages, Total: p.total}}, nil
}

func newUsersList(t *testing.T, fetch FetchFunc[types.User]) *List[types.User] {
	return New(Options[types.User]{
		Name:      "users",
		Fetch:     fetch,
		Key:       func(u types.User) string { return fmt.Sprintf("user-%d", u.ID) },
		Controls:  []action.Control{{Name: "delete", Label: "Delete", Enabled: true}},
		PerPage:   2,
		EmptyText: "No users found",
		Logger:    testutil.NewTestLogger(t),
	})
}

func TestList_LoadSuccess(t *testing.T) {
	src := &pagedUsers{total: 5}
	l := newUsersList(t, src.fetch)

	require.NoError(t, l.Load(context.Background(), Query{Page: 2, Search: " u "}))

	v := l.View()
	assert.Equal(t, StatusReady, v.Status)
	assert.False(t, v.Loading)
	require.Len(t, v.Items, 2)
	assert.Equal(t, 3, v.Items[0].ID)
	assert.Equal(t, Query{Page: 2, PerPage: 2, Search: "u"}, l.Query())
	assert.Equal(t, "« 1 [2] 3 »", labels(v.Links))

	row, ok := l.Row("user-3")
	require.True(t, ok)
	assert.Equal(t, action.StateIdle, row.State)
}

func TestList_SinglePageHasNoLinks(t *testing.T) {
	src := &pagedUsers{total: 2}
	l := newUsersList(t, src.fetch)

	require.NoError(t, l.Load(context.Background(), Query{Page: 1}))
	assert.Empty(t, l.View().Links)
}

func TestList_EmptyResult(t *testing.T) {
	src := &pagedUsers{total: 0}
	l := newUsersList(t, src.fetch)

	require.NoError(t, l.Load(context.Background(), Query{Page: 1, Search: "nobody"}))
	v := l.View()
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, "No users found", v.Message)
	assert.Equal(t, "nobody", l.Query().Search)
}

func TestList_UnauthorizedKeepsQuery(t *testing.T) {
	src := &pagedUsers{total: 5}
	l := newUsersList(t, src.fetch)
	require.NoError(t, l.Load(context.Background(), Query{Page: 2, Search: "u"}))
	prior := l.Query()

	src.err = &adminapi.UnauthorizedError{Message: "Unauthorized"}
	err := l.Load(context.Background(), Query{Page: 3, Search: "other"})
	require.Error(t, err)

	v := l.View()
	assert.Equal(t, StatusUnauthorized, v.Status)
	assert.Equal(t, InvalidCredentialText, v.Message)
	assert.Empty(t, v.Items)
	assert.Equal(t, prior, l.Query())
}

func TestList_RemoteErrorShowsServerMessage(t *testing.T) {
	src := &pagedUsers{err: &adminapi.RemoteError{Status: 500, Message: "database is locked"}}
	l := newUsersList(t, src.fetch)

	require.Error(t, l.Load(context.Background(), Query{Page: 4}))
	v := l.View()
	assert.Equal(t, StatusError, v.Status)
	assert.Equal(t, "database is locked", v.Message)
	assert.Equal(t, 1, l.Query().Page)
}

func TestList_MissingCredential(t *testing.T) {
	src := &pagedUsers{err: adminapi.ErrMissingCredential}
	l := newUsersList(t, src.fetch)

	require.Error(t, l.Load(context.Background(), Query{Page: 1}))
	assert.Equal(t, MissingCredentialText, l.View().Message)
}

func TestList_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	fetch := func(ctx context.Context, q Query) (Page[types.User], error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-release
		}
		return Page[types.User]{
			Items:      []types.User{{ID: q.Page}},
			Pagination: types.Pagination{Page: q.Page, TotalPages: 9, Total: 9},
		}, nil
	}
	l := newUsersList(t, fetch)

	slow := make(chan error, 1)
	go func() { slow <- l.Load(context.Background(), Query{Page: 1, Search: "old"}) }()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, l.Load(context.Background(), Query{Page: 5, Search: "new"}))
	close(release)

	assert.ErrorIs(t, <-slow, ErrStale)
	assert.Equal(t, Query{Page: 5, PerPage: 2, Search: "new"}, l.Query())
	assert.Equal(t, 5, l.View().Items[0].ID)
}

func TestList_RefreshFallsBackToEarlierPage(t *testing.T) {
	src := &pagedUsers{total: 5}
	l := newUsersList(t, src.fetch)
	require.NoError(t, l.Load(context.Background(), Query{Page: 3}))
	require.Len(t, l.View().Items, 1)

	// The only user on page 3 disappears server side.
	src.total = 4
	assert.Equal(t, 0, l.Remove("user-5"))
	require.NoError(t, l.Refresh(context.Background()))

	v := l.View()
	assert.Equal(t, StatusReady, v.Status)
	assert.Equal(t, 2, l.Query().Page)
	require.Len(t, v.Items, 2)
	assert.Equal(t, 3, v.Items[0].ID)
}

func TestList_RefreshJumpsToLastPage(t *testing.T) {
	src := &pagedUsers{total: 20}
	l := newUsersList(t, src.fetch)
	require.NoError(t, l.Load(context.Background(), Query{Page: 9}))

	src.total = 3
	require.NoError(t, l.Refresh(context.Background()))
	assert.Equal(t, 2, l.Query().Page)

	var pages []int
	for _, q := range src.queries {
		pages = append(pages, q.Page)
	}
	assert.Equal(t, []int{9, 9, 2}, pages)
}

func TestList_RefreshEmptyFirstPage(t *testing.T) {
	src := &pagedUsers{total: 1}
	l := newUsersList(t, src.fetch)
	require.NoError(t, l.Load(context.Background(), Query{Page: 1}))

	src.total = 0
	require.NoError(t, l.Refresh(context.Background()))
	assert.Equal(t, StatusEmpty, l.View().Status)
}

func TestList_RefreshKeepsBusyRow(t *testing.T) {
	src := &pagedUsers{total: 3}
	l := newUsersList(t, src.fetch)
	require.NoError(t, l.Load(context.Background(), Query{Page: 1}))

	_, err := l.Begin("user-2", "delete")
	require.NoError(t, err)
	require.NoError(t, l.Refresh(context.Background()))

	row, ok := l.Row("user-2")
	require.True(t, ok)
	assert.Equal(t, action.StateBusy, row.State)
	_, err = l.Begin("user-2", "delete")
	assert.ErrorIs(t, err, action.ErrRowBusy)

	row, _ = l.Row("user-1")
	assert.Equal(t, action.StateIdle, row.State)
}

func TestList_Remove(t *testing.T) {
	src := &pagedUsers{total: 2}
	l := newUsersList(t, src.fetch)
	require.NoError(t, l.Load(context.Background(), Query{Page: 1}))

	assert.Equal(t, 1, l.Remove("user-1"))
	assert.Equal(t, 1, l.Remove("user-404"), "unknown key leaves rows untouched")

	v := l.View()
	assert.Equal(t, 1, v.Pagination.Total)
	_, ok := l.Find("user-1")
	assert.False(t, ok)

	assert.Equal(t, 0, l.Remove("user-2"))
	assert.Equal(t, StatusEmpty, l.View().Status)
}

func TestList_Filter(t *testing.T) {
	payments := []types.Payment{
		{ID: 1, UserEmail: "alice@example.com"},
		{ID: 2, UserEmail: "bob@example.com", Notes: "bank transfer"},
		{ID: 3, UserEmail: "carol@example.com"},
	}
	l := New(Options[types.Payment]{
		Name: "payments",
		Fetch: func(context.Context, Query) (Page[types.Payment], error) {
			return Page[types.Payment]{Items: payments, Pagination: types.Pagination{Page: 1, TotalPages: 1, Total: 3}}, nil
		},
		Key:        func(p types.Payment) string { return fmt.Sprintf("payment-%d", p.ID) },
		FilterText: func(p types.Payment) string { return p.UserEmail + " " + p.Notes },
	})
	require.NoError(t, l.Load(context.Background(), Query{}))

	l.SetFilter("transfer")
	v := l.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].ID)
	assert.Equal(t, 3, v.Total)

	l.SetFilter("")
	assert.Len(t, l.View().Items, 3)
}
