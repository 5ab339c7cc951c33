package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError is one problem found in a set of bindings
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "Errors (%d):\n", len(r.Errors))
		for _, err := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", err.Error())
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "Warnings (%d):\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", warn.Error())
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// Validator checks a registry or config before it is used
type Validator struct {
	// reservedKeys must keep their global action
	reservedKeys map[string]Action
}

// NewValidator creates a validator protecting ctrl+c
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]Action{
			"ctrl+c": ActionQuitForce,
		},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{}

	v.checkUnknownActions(registry, result)
	v.checkReservedKeys(registry, result)
	v.checkSequences(registry, result)
	v.checkShadowing(registry, result)
	v.checkUnbound(registry, result)

	sortIssues(result.Errors)
	sortIssues(result.Warnings)
	return result
}

// ValidateConfig applies config over the defaults and validates the result
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	registry := NewDefaultRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result := &ValidationResult{}
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Message: err.Error(),
		})
		return result
	}
	return v.ValidateRegistry(registry)
}

func (v *Validator) checkUnknownActions(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			if !KnownAction(action) {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("unknown action %q", action),
				})
			}
		}
	}
}

func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			reserved, ok := v.reservedKeys[key]
			if ok && action != reserved {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: "reserved key rebound (may cause issues)",
				})
			}
		}
	}
}

// checkSequences flags a single key that can never fire because it
// starts a two-key sequence in the same context
func (v *Validator) checkSequences(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			if len(key) != 1 || action == ActionFirstPrepare {
				continue
			}
			if registry.startsSequence(context, key) {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "conflict",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("%s is unreachable: key starts a sequence", action),
				})
			}
		}
	}
}

func (v *Validator) checkShadowing(registry *Registry, result *ValidationResult) {
	global := registry.bindings[ContextGlobal]
	for context, bindings := range registry.bindings {
		if context == ContextGlobal {
			continue
		}
		for key, action := range bindings {
			if globalAction, ok := global[key]; ok && globalAction != action {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows global binding (%s -> %s)", globalAction, action),
				})
			}
		}
	}
}

// checkUnbound warns when a dialog can no longer be answered
func (v *Validator) checkUnbound(registry *Registry, result *ValidationResult) {
	required := map[Context][]Action{
		ContextDialog: {ActionConfirm, ActionCancel},
		ContextInput:  {ActionTextSubmit, ActionTextCancel},
	}
	for context, actions := range required {
		for _, action := range actions {
			if len(registry.Keys(context, action)) == 0 {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Message: fmt.Sprintf("%s has no key", action),
				})
			}
		}
	}
}

func sortIssues(issues []ValidationError) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Context != issues[j].Context {
			return issues[i].Context < issues[j].Context
		}
		return issues[i].Key < issues[j].Key
	})
}

// FindConflicts lists the conflicts a config would introduce
func FindConflicts(config *Config) []string {
	result := NewValidator().ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}
	return conflicts
}

var validModifiers = []string{"ctrl+", "alt+", "shift+", "super+"}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	for _, mod := range validModifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}
	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !KnownAction(Action(actionStr)) {
		return fmt.Errorf("unknown action %q", actionStr)
	}
	return nil
}
