package dashboard

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/format"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/types"
)

const (
	msgTierEmpty   = "Tier cannot be empty"
	msgTierInvalid = "Invalid tier! Must be: free, premium, or ultra"
	msgDaysInvalid = "Days must be an integer >= 1"
	msgEmail       = "Invalid email address"
	msgPrefixShort = "Key prefix must be at least 4 characters"

	minKeyPrefix = 4
)

// ApprovePayment settles payment id
func (d *Dashboard) ApprovePayment(ctx context.Context, id int) error {
	return d.exec.Perform(ctx, action.Request{
		List:    d.Payments,
		RowKey:  paymentKey(id),
		Trigger: ControlApprove,
		Confirm: fmt.Sprintf("Approve payment #%d? The user's tier will be upgraded.", id),
		Outcome: action.RemoveRow,
		Call: func(ctx context.Context) (string, error) {
			return "", d.api.ApprovePayment(ctx, id)
		},
		SuccessText: fmt.Sprintf("Payment #%d approved", id),
	})
}

// RejectPayment voids payment id
func (d *Dashboard) RejectPayment(ctx context.Context, id int) error {
	return d.exec.Perform(ctx, action.Request{
		List:    d.Payments,
		RowKey:  paymentKey(id),
		Trigger: ControlReject,
		Confirm: fmt.Sprintf("Reject payment #%d?", id),
		Outcome: action.RemoveRow,
		Call: func(ctx context.Context) (string, error) {
			return "", d.api.RejectPayment(ctx, id)
		},
		SuccessText: fmt.Sprintf("Payment #%d rejected", id),
	})
}

// DeleteUser removes account id after confirmation
func (d *Dashboard) DeleteUser(ctx context.Context, id int) error {
	label := fmt.Sprintf("user #%d", id)
	if u, ok := d.Users.Find(userKey(id)); ok {
		label = fmt.Sprintf("user %q (ID: %d)", format.Untrusted(u.Email), id)
	}
	return d.exec.Perform(ctx, action.Request{
		List:    d.Users,
		RowKey:  userKey(id),
		Trigger: ControlDelete,
		Confirm: fmt.Sprintf("Delete %s? This cannot be undone.", label),
		Outcome: action.RemoveRow,
		Call: func(ctx context.Context) (string, error) {
			return d.api.DeleteUser(ctx, id)
		},
		SuccessText: "User deleted",
	})
}

// ChangeTier asks for the new tier and notes, validates them and then
// runs the change. The users list reloads at its current page afterwards.
func (d *Dashboard) ChangeTier(ctx context.Context, id int) error {
	current := types.TierFree
	if u, ok := d.Users.Find(userKey(id)); ok && u.CurrentTier != "" {
		current = u.CurrentTier
	}

	input, ok, err := d.dialogs.Prompt(ctx,
		fmt.Sprintf("New tier for user #%d (free, premium, ultra):", id), string(current))
	if err != nil || !ok {
		return err
	}
	tier, err := ValidateTier(input)
	if err != nil {
		return d.showError(ctx, err)
	}

	notes, ok, err := d.dialogs.Prompt(ctx, "Notes (optional):", "")
	if err != nil || !ok {
		return err
	}

	return d.ChangeTierTo(ctx, id, tier, notes)
}

// ChangeTierTo runs a tier change whose inputs are already validated
func (d *Dashboard) ChangeTierTo(ctx context.Context, id int, tier types.Tier, notes string) error {
	return d.exec.Perform(ctx, action.Request{
		List:    d.Users,
		RowKey:  userKey(id),
		Trigger: ControlTier,
		Confirm: fmt.Sprintf("Change user #%d tier to %s?", id, strings.ToUpper(string(tier))),
		Outcome: action.ReloadList,
		Call: func(ctx context.Context) (string, error) {
			return d.api.ChangeTier(ctx, id, tier, notes)
		},
		SuccessText: fmt.Sprintf("Tier changed to %s", format.Tier(tier)),
	})
}

// ValidateTier checks a tier typed by the operator
func ValidateTier(input string) (types.Tier, error) {
	if strings.TrimSpace(input) == "" {
		return "", adminapi.Validation("tier", msgTierEmpty)
	}
	tier, err := types.ParseTier(input)
	if err != nil {
		return "", adminapi.Validation("tier", msgTierInvalid)
	}
	return tier, nil
}

// ParseDays validates the optional validity period of a new key
func ParseDays(input string) (*int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	days, err := strconv.Atoi(input)
	if err != nil || days < 1 {
		return nil, adminapi.Validation("days", msgDaysInvalid)
	}
	return &days, nil
}

// KeyInput is the operator input for a new API key
type KeyInput struct {
	Tier  string // defaults to ultra
	Email string
	Days  string // empty means no expiry
}

// CreateKey validates input, issues a key, shows and copies it, then
// re-runs the load chain so the counters include it.
func (d *Dashboard) CreateKey(ctx context.Context, in KeyInput) (*types.CreatedKey, error) {
	req, err := buildKeyRequest(in)
	if err != nil {
		return nil, d.showError(ctx, err)
	}
	if _, err := d.creds.Credential(); err != nil {
		return nil, d.showError(ctx, err)
	}

	key, err := d.api.CreateKey(ctx, req)
	if err != nil {
		d.logger.Warn("create key failed", "tier", req.Tier, "error", err)
		return nil, d.showError(ctx, err)
	}
	d.logger.Info("api key created", "tier", key.Tier)

	d.mu.Lock()
	d.keys.Created = key
	d.mu.Unlock()
	d.notify.Broadcast()

	body := "New API key:\n\n" + format.Untrusted(key.APIKey)
	if err := d.clip(key.APIKey); err != nil {
		d.logger.Debug("clipboard unavailable", "error", err)
	} else {
		body += "\n\n(copied to clipboard)"
	}
	body += "\n\nStore it now, it will not be shown again."
	if err := d.dialogs.Notify(ctx, dialog.ToneSuccess, "API key created", body); err != nil {
		return key, err
	}

	if err := d.LoadAll(ctx); err != nil {
		d.logger.Debug("reload after key creation failed", "error", err)
	}
	return key, nil
}

func buildKeyRequest(in KeyInput) (types.CreateKeyRequest, error) {
	tierInput := in.Tier
	if strings.TrimSpace(tierInput) == "" {
		tierInput = string(types.TierUltra)
	}
	tier, err := ValidateTier(tierInput)
	if err != nil {
		return types.CreateKeyRequest{}, err
	}
	days, err := ParseDays(in.Days)
	if err != nil {
		return types.CreateKeyRequest{}, err
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return types.CreateKeyRequest{}, adminapi.Validation("email", msgEmail)
		}
	}
	return types.CreateKeyRequest{Tier: tier, Email: email, Days: days}, nil
}

func validatePrefix(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minKeyPrefix {
		return "", adminapi.Validation("prefix", msgPrefixShort)
	}
	return prefix, nil
}

// LookupKey lists the keys matching prefix in the keys panel
func (d *Dashboard) LookupKey(ctx context.Context, prefix string) error {
	prefix, err := validatePrefix(prefix)
	if err != nil {
		return d.showError(ctx, err)
	}
	d.mu.Lock()
	d.keys.Usage = nil
	d.keys.UsageErr = ""
	d.mu.Unlock()
	return d.Keys.Load(ctx, listview.Query{Page: 1, Search: prefix})
}

// KeyUsage loads the request history of a key into the keys panel
func (d *Dashboard) KeyUsage(ctx context.Context, prefix string) (*types.KeyUsage, error) {
	prefix, err := validatePrefix(prefix)
	if err != nil {
		return nil, d.showError(ctx, err)
	}
	usage, err := d.api.KeyUsage(ctx, prefix)

	d.mu.Lock()
	d.keys.Usage = usage
	d.keys.UsageErr = ""
	if err != nil {
		d.keys.UsageErr = adminapi.Message(err)
	}
	d.mu.Unlock()
	d.notify.Broadcast()
	return usage, err
}

// DeactivateKey disables the key matching prefix. The key is looked up
// first when it is not rendered in the keys list yet.
func (d *Dashboard) DeactivateKey(ctx context.Context, prefix string) error {
	prefix, err := validatePrefix(prefix)
	if err != nil {
		return d.showError(ctx, err)
	}
	target, err := d.resolveKey(ctx, prefix)
	if err != nil {
		return d.showError(ctx, err)
	}

	return d.exec.Perform(ctx, action.Request{
		List:    d.Keys,
		RowKey:  keyRowKey(target),
		Trigger: ControlDeactivate,
		Confirm: fmt.Sprintf("Deactivate key %s…? Requests using it will be refused.", format.Untrusted(target)),
		Outcome: action.ReloadList,
		Call: func(ctx context.Context) (string, error) {
			return d.api.DeactivateKey(ctx, target)
		},
		SuccessText: "Key deactivated",
	})
}

// resolveKey finds the single rendered key whose prefix starts with prefix
func (d *Dashboard) resolveKey(ctx context.Context, prefix string) (string, error) {
	if _, ok := d.Keys.Find(keyRowKey(prefix)); ok {
		return prefix, nil
	}
	if err := d.LookupKey(ctx, prefix); err != nil {
		return "", err
	}

	var matches []string
	for _, k := range d.Keys.View().Items {
		if strings.HasPrefix(k.KeyPrefix, prefix) || strings.HasPrefix(prefix, k.KeyPrefix) {
			matches = append(matches, k.KeyPrefix)
		}
	}
	switch len(matches) {
	case 0:
		return "", &adminapi.RemoteError{Status: 404, Message: "No key matches prefix " + prefix}
	case 1:
		return matches[0], nil
	default:
		return "", adminapi.Validation("prefix", fmt.Sprintf("Prefix matches %d keys, use a longer prefix", len(matches)))
	}
}

// Outcome turns a workflow error into the text a CLI should print, or ""
// when there is nothing left to report
func Outcome(err error) string {
	if err == nil || isAbort(err) {
		return ""
	}
	return adminapi.Message(err)
}
