package dashboard

import (
	"context"
	"log/slog"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/notifier"
	"github.com/studiowebux/adminctl/internal/types"
)

// Row control names
const (
	ControlApprove    = "approve"
	ControlReject     = "reject"
	ControlTier       = "tier"
	ControlDelete     = "delete"
	ControlDeactivate = "deactivate"
)

func newPaymentsList(api API, n *notifier.Notifier, logger *slog.Logger) *listview.List[types.Payment] {
	return listview.New(listview.Options[types.Payment]{
		Name: "payments",
		Fetch: func(ctx context.Context, q listview.Query) (listview.Page[types.Payment], error) {
			payments, err := api.Payments(ctx)
			if err != nil {
				return listview.Page[types.Payment]{}, err
			}
			return listview.Page[types.Payment]{
				Items:      payments,
				Pagination: types.Pagination{Page: 1, TotalPages: 1, Total: len(payments)},
			}, nil
		},
		Key: func(p types.Payment) string { return paymentKey(p.ID) },
		Controls: []action.Control{
			{Name: ControlApprove, Label: "Approve", Enabled: true},
			{Name: ControlReject, Label: "Reject", Enabled: true},
		},
		EmptyText: "No pending payments",
		FilterText: func(p types.Payment) string {
			return p.UserEmail + " " + p.UserName + " " + p.Notes + " " + string(p.Tier)
		},
		Notifier: n,
		Logger:   logger,
	})
}

func newUsersList(api API, perPage int, n *notifier.Notifier, logger *slog.Logger) *listview.List[types.User] {
	return listview.New(listview.Options[types.User]{
		Name: "users",
		Fetch: func(ctx context.Context, q listview.Query) (listview.Page[types.User], error) {
			resp, err := api.Users(ctx, q.Page, q.PerPage, q.Search)
			if err != nil {
				return listview.Page[types.User]{}, err
			}
			p := resp.Pagination
			if p.Page == 0 {
				p.Page = q.Page
			}
			return listview.Page[types.User]{Items: resp.Users, Pagination: p}, nil
		},
		Key: func(u types.User) string { return userKey(u.ID) },
		Controls: []action.Control{
			{Name: ControlTier, Label: "Tier", Enabled: true},
			{Name: ControlDelete, Label: "Delete", Enabled: true},
		},
		PerPage:   perPage,
		EmptyText: "No users found",
		Notifier:  n,
		Logger:    logger,
	})
}

// newKeysList lists the keys matching the prefix held in Query.Search
func newKeysList(api API, n *notifier.Notifier, logger *slog.Logger) *listview.List[types.KeyRecord] {
	return listview.New(listview.Options[types.KeyRecord]{
		Name: "keys",
		Fetch: func(ctx context.Context, q listview.Query) (listview.Page[types.KeyRecord], error) {
			if q.Search == "" {
				return listview.Page[types.KeyRecord]{}, nil
			}
			info, err := api.KeyInfo(ctx, q.Search)
			if err != nil {
				return listview.Page[types.KeyRecord]{}, err
			}
			return listview.Page[types.KeyRecord]{
				Items:      info.Keys,
				Pagination: types.Pagination{Page: 1, TotalPages: 1, Total: len(info.Keys)},
			}, nil
		},
		Key: func(k types.KeyRecord) string { return keyRowKey(k.KeyPrefix) },
		Controls: []action.Control{
			{Name: ControlDeactivate, Label: "Deactivate", Enabled: true},
		},
		EmptyText: "No keys match this prefix",
		Notifier:  n,
		Logger:    logger,
	})
}
