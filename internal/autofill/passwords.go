package autofill

import (
	"strings"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// LocatePasswordFields selects candidate password inputs from a page
// inventory, in document order. A field qualifies when it is enabled, is
// either genuinely password-typed or "looks like" a password field, and
// passes the hidden/read-only/empty/new-password policy gates. Callers use
// a two-pass policy: strict first (no hidden, no read-only), then relaxed
// when the strict pass finds nothing.
func (e *Engine) LocatePasswordFields(pd *schemas.PageDetails, canBeHidden, canBeReadOnly, mustBeEmpty, fillNewPassword bool) []*schemas.FieldDescriptor {
	var out []*schemas.FieldDescriptor
	for _, f := range pd.Fields {
		if f.Disabled {
			continue
		}
		if !canBeReadOnly && f.ReadOnly {
			continue
		}
		if f.Type != schemas.FieldTypePassword && !e.looksLikePasswordField(f) {
			continue
		}
		if !canBeHidden && !f.Viewable {
			continue
		}
		if mustBeEmpty && strings.TrimSpace(f.Value) != "" {
			continue
		}
		if !fillNewPassword && f.AutocompleteHint == "new-password" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// looksLikePasswordField is the fuzzy fallback for pages that render the
// password box as a plain text input. Only text-typed fields qualify, and
// only when the id, name or placeholder mention "password" without any of
// the ignore-list terms.
func (e *Engine) looksLikePasswordField(f *schemas.FieldDescriptor) bool {
	if f.Type != schemas.FieldTypeText {
		return false
	}
	return e.valueIsLikePassword(f.HTMLID) ||
		e.valueIsLikePassword(f.HTMLName) ||
		e.valueIsLikePassword(f.Placeholder)
}

func (e *Engine) valueIsLikePassword(value string) bool {
	if value == "" {
		return false
	}
	// Whitespace, underscores and dashes are noise for this check.
	cleaned := whitespaceDashRe.ReplaceAllString(strings.ToLower(value), "")
	if !strings.Contains(cleaned, "password") {
		return false
	}
	for _, ignore := range e.tables.PasswordIgnoreTerms {
		if strings.Contains(cleaned, ignore) {
			return false
		}
	}
	return true
}
