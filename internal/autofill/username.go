package autofill

import (
	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// LocateUsernameField scans the fields preceding passwordField in document
// order for a plausible username/email input and returns the best one, or
// nil. The closest preceding candidate wins, except that a field whose
// identifying attributes exactly match a curated username name short
// circuits the scan: an exact match always beats a closer but generic
// field. Candidates must share the password field's form unless
// ignoreForm is set.
func (e *Engine) LocateUsernameField(pd *schemas.PageDetails, passwordField *schemas.FieldDescriptor, canBeHidden, canBeReadOnly, ignoreForm bool) *schemas.FieldDescriptor {
	var usernameField *schemas.FieldDescriptor
	for _, f := range pd.Fields {
		if f.ElementIndex >= passwordField.ElementIndex {
			// The username must precede the password.
			break
		}
		if f.Disabled {
			continue
		}
		if !canBeReadOnly && f.ReadOnly {
			continue
		}
		if !ignoreForm && f.Form != passwordField.Form {
			continue
		}
		if !canBeHidden && !f.Viewable {
			continue
		}
		if f.Type != schemas.FieldTypeText && f.Type != schemas.FieldTypeEmail && f.Type != schemas.FieldTypeTel {
			continue
		}

		usernameField = f
		if findMatchingFieldIndex(f, e.tables.UsernameFieldNames) > -1 {
			// Exact match. No need to keep looking.
			break
		}
	}
	return usernameField
}
