package keybinds

// NewDefaultRegistry creates a registry with the default bindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)

	registerDashboardBindings(r)
	registerDialogBindings(r)
	registerInputBindings(r)
	registerHelpBindings(r)

	return r
}

func registerDashboardBindings(r *Registry) {
	r.Register(ContextDashboard, "q", ActionQuit)
	r.Register(ContextDashboard, "?", ActionOpenHelp)
	r.Register(ContextDashboard, "K", ActionSetCredential)
	r.Register(ContextDashboard, "r", ActionReload)

	// Tabs
	r.Register(ContextDashboard, "tab", ActionNextTab)
	r.Register(ContextDashboard, "shift+tab", ActionPrevTab)
	r.Register(ContextDashboard, "1", ActionTabPayments)
	r.Register(ContextDashboard, "2", ActionTabUsers)
	r.Register(ContextDashboard, "3", ActionTabKeys)

	// Rows and pages
	r.RegisterMultiple(ContextDashboard, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextDashboard, []string{"down", "j"}, ActionNavigateDown)
	r.RegisterMultiple(ContextDashboard, []string{"right", "n", "pgdown"}, ActionNextPage)
	r.RegisterMultiple(ContextDashboard, []string{"left", "p", "pgup"}, ActionPrevPage)
	r.Register(ContextDashboard, "gg", ActionFirstPage)
	r.RegisterMultiple(ContextDashboard, []string{"G", "end"}, ActionLastPage)
	r.Register(ContextDashboard, "home", ActionFirstPage)
	r.Register(ContextDashboard, ":", ActionGotoPage)

	// Payments
	r.Register(ContextDashboard, "a", ActionApprove)
	r.Register(ContextDashboard, "x", ActionReject)
	r.Register(ContextDashboard, "f", ActionFilterPayments)
	r.Register(ContextDashboard, "esc", ActionClearFilter)

	// Users
	r.Register(ContextDashboard, "t", ActionChangeTier)
	r.Register(ContextDashboard, "D", ActionDeleteUser)
	r.Register(ContextDashboard, "/", ActionSearchUsers)

	// API keys
	r.Register(ContextDashboard, "c", ActionCreateKey)
	r.Register(ContextDashboard, "l", ActionKeyLookup)
	r.Register(ContextDashboard, "u", ActionKeyUsage)
	r.Register(ContextDashboard, "d", ActionKeyDeactivate)
	r.Register(ContextDashboard, "y", ActionCopyKey)
}

func registerDialogBindings(r *Registry) {
	r.RegisterMultiple(ContextDialog, []string{"enter", "y"}, ActionConfirm)
	r.RegisterMultiple(ContextDialog, []string{"esc", "n", "q"}, ActionCancel)
	r.RegisterMultiple(ContextDialog, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextDialog, []string{"down", "j"}, ActionScrollDown)
}

func registerInputBindings(r *Registry) {
	r.Register(ContextInput, "enter", ActionTextSubmit)
	r.Register(ContextInput, "esc", ActionTextCancel)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseHelp)
	r.RegisterMultiple(ContextHelp, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextHelp, []string{"down", "j"}, ActionScrollDown)
}
