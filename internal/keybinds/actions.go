package keybinds

import "sort"

// Action is something the operator can trigger from the keyboard
type Action string

// Context is where a binding is active
type Context string

const (
	ContextGlobal    Context = "global"    // Everywhere, lowest priority
	ContextDashboard Context = "dashboard" // Lists and panels
	ContextDialog    Context = "dialog"    // Notice and confirm dialogs
	ContextInput     Context = "input"     // Prompt dialogs and inline inputs
	ContextHelp      Context = "help"      // Help overlay
)

// Contexts lists every built-in context
var Contexts = []Context{ContextGlobal, ContextDashboard, ContextDialog, ContextInput, ContextHelp}

const (
	// Global
	ActionQuitForce Action = "quit_force"

	// Dashboard navigation
	ActionQuit         Action = "quit"
	ActionNextTab      Action = "next_tab"
	ActionPrevTab      Action = "prev_tab"
	ActionTabPayments  Action = "tab_payments"
	ActionTabUsers     Action = "tab_users"
	ActionTabKeys      Action = "tab_keys"
	ActionNavigateUp   Action = "navigate_up"
	ActionNavigateDown Action = "navigate_down"
	ActionNextPage     Action = "next_page"
	ActionPrevPage     Action = "prev_page"
	ActionFirstPage    Action = "first_page"
	ActionFirstPrepare Action = "first_page_prepare" // first 'g' of "gg"
	ActionLastPage     Action = "last_page"
	ActionGotoPage     Action = "goto_page"
	ActionReload       Action = "reload"
	ActionOpenHelp     Action = "open_help"

	// Session
	ActionSetCredential Action = "set_credential"

	// Row actions
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionChangeTier Action = "change_tier"
	ActionDeleteUser Action = "delete_user"

	// Search and filter
	ActionSearchUsers    Action = "search_users"
	ActionFilterPayments Action = "filter_payments"
	ActionClearFilter    Action = "clear_filter"

	// Key tools
	ActionCreateKey     Action = "create_key"
	ActionKeyLookup     Action = "key_lookup"
	ActionKeyUsage      Action = "key_usage"
	ActionKeyDeactivate Action = "key_deactivate"
	ActionCopyKey       Action = "copy_key"

	// Dialogs
	ActionConfirm    Action = "confirm"
	ActionCancel     Action = "cancel"
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionCloseHelp  Action = "close_help"

	// Text input
	ActionTextSubmit Action = "text_submit"
	ActionTextCancel Action = "text_cancel"
)

// ActionInfo describes an action for the help overlay
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuitForce:      {ActionQuitForce, "Force quit", "Global"},
	ActionQuit:           {ActionQuit, "Quit", "Global"},
	ActionOpenHelp:       {ActionOpenHelp, "Show key bindings", "Global"},
	ActionSetCredential:  {ActionSetCredential, "Enter admin key", "Session"},
	ActionReload:         {ActionReload, "Reload everything", "Session"},
	ActionNextTab:        {ActionNextTab, "Next tab", "Navigation"},
	ActionPrevTab:        {ActionPrevTab, "Previous tab", "Navigation"},
	ActionTabPayments:    {ActionTabPayments, "Pending payments tab", "Navigation"},
	ActionTabUsers:       {ActionTabUsers, "Users tab", "Navigation"},
	ActionTabKeys:        {ActionTabKeys, "API keys tab", "Navigation"},
	ActionNavigateUp:     {ActionNavigateUp, "Select previous row", "Navigation"},
	ActionNavigateDown:   {ActionNavigateDown, "Select next row", "Navigation"},
	ActionNextPage:       {ActionNextPage, "Next page", "Navigation"},
	ActionPrevPage:       {ActionPrevPage, "Previous page", "Navigation"},
	ActionFirstPage:      {ActionFirstPage, "First page", "Navigation"},
	ActionLastPage:       {ActionLastPage, "Last page", "Navigation"},
	ActionGotoPage:       {ActionGotoPage, "Go to page", "Navigation"},
	ActionApprove:        {ActionApprove, "Approve payment", "Payments"},
	ActionReject:         {ActionReject, "Reject payment", "Payments"},
	ActionFilterPayments: {ActionFilterPayments, "Filter payments", "Payments"},
	ActionClearFilter:    {ActionClearFilter, "Clear filter", "Payments"},
	ActionChangeTier:     {ActionChangeTier, "Change user tier", "Users"},
	ActionDeleteUser:     {ActionDeleteUser, "Delete user", "Users"},
	ActionSearchUsers:    {ActionSearchUsers, "Search users", "Users"},
	ActionCreateKey:      {ActionCreateKey, "Create API key", "API Keys"},
	ActionKeyLookup:      {ActionKeyLookup, "Look up key by prefix", "API Keys"},
	ActionKeyUsage:       {ActionKeyUsage, "Show key usage", "API Keys"},
	ActionKeyDeactivate:  {ActionKeyDeactivate, "Deactivate key", "API Keys"},
	ActionCopyKey:        {ActionCopyKey, "Copy created key", "API Keys"},
	ActionConfirm:        {ActionConfirm, "Accept dialog", "Dialogs"},
	ActionCancel:         {ActionCancel, "Cancel dialog", "Dialogs"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Other"}
}

// KnownAction reports whether action is built in
func KnownAction(action Action) bool {
	switch action {
	case ActionFirstPrepare, ActionScrollUp, ActionScrollDown, ActionCloseHelp,
		ActionTextSubmit, ActionTextCancel:
		return true
	}
	_, ok := actionInfos[action]
	return ok
}

// Categories returns the help categories in display order
func Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, info := range actionInfos {
		if !seen[info.Category] {
			seen[info.Category] = true
			out = append(out, info.Category)
		}
	}
	order := map[string]int{"Global": 0, "Session": 1, "Navigation": 2, "Payments": 3, "Users": 4, "API Keys": 5, "Dialogs": 6}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}
