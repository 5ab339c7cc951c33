/*
Package keybinds maps keyboard keys to console actions.

# Contexts

Bindings live in a context: global, dashboard, dialog, input or help.
A key is looked up in the active context first and then in the global
one, so a context binding shadows a global binding for the same key.

# Sequences

Doubled-key sequences such as "gg" (first page) are matched with
MatchSequence: the first key is held as pending and completed by the
next key press. A single key that also starts a sequence in the same
context can never fire, which the Validator reports as a conflict.

# Configuration

Users override defaults in keybinds.json next to config.yaml:

	{
	  "version": "1.0",
	  "dashboard": {
	    "approve": "a,A",
	    "delete_user": "ctrl+d"
	  }
	}

Each entry replaces every default key of that action in that context.
Unknown actions and empty keys are rejected when the file is loaded.
*/
package keybinds
