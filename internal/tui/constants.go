package tui

// Layout constants
const (
	// Modal dimensions
	ModalWidthMargin  = 6  // m.width - 6
	ModalHeightMargin = 4  // m.height - 4
	DialogMaxWidth    = 72 // dialogs never grow wider than this
	DialogBodyLines   = 12 // visible body lines before the dialog scrolls

	// Main view
	HeaderLines     = 5 // title, stats box (3), tabs
	FooterLines     = 3 // pagination, toasts, status bar
	MinListHeight   = 3
	StatusMaxLength = 100 // footer messages are truncated past this

	// Inputs
	CredentialCharLimit = 256
	SearchCharLimit     = 100
	GotoCharLimit       = 6
	DialogInputWidth    = 40
)
