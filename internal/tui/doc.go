/*
Package tui implements the terminal console for moderating the admin queue.

# Architecture

The TUI follows the Bubble Tea Model-Update-View pattern:
  - model.go: Model state, messages and Update
  - keys.go: key routing per mode through the keybinds.Registry
  - actions.go: workflows started from keys, each run as a tea.Cmd
  - render.go: stats panel, tabs, lists and status bar
  - modals.go: dialogs and the help overlay

# State

The Model owns only presentation state (mode, cursor, inputs). Domain
state lives in mutex-guarded holders: the session, the dialog
controller and the dashboard lists. Each holder broadcasts through a
notifier.Notifier; the Model waits on its subscription channel and
re-renders from fresh snapshots on every ping.

# Threading Model

Every operator action runs as its own goroutine through a tea.Cmd and
may suspend on network calls or on a dialog. Dialogs are answered from
the event loop by settling the controller's current dialog, which wakes
the waiting workflow. Quitting cancels the program context, which
withdraws pending dialogs and aborts requests in flight.

# Modes

  - ModeNormal: dashboard navigation
  - ModeCredential: hidden admin key entry
  - ModeSearch, ModeFilter, ModeGoto: inline inputs in the status bar
  - ModeDialog: the dialog controller has a current dialog
  - ModeHelp: key binding overlay
*/
package tui
