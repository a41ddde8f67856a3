package autofill

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// sortedFormKeys gives map iteration a stable order; identical inputs must
// always produce identical scripts. Collector keys ("__form__N") sort by
// their numeric suffix so fills follow document order past ten forms, and
// anything else falls back to lexicographic order after them.
func sortedFormKeys(forms map[string]schemas.FormDescriptor) []string {
	keys := make([]string, 0, len(forms))
	for k := range forms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aok := formKeyIndex(keys[i])
		b, bok := formKeyIndex(keys[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func formKeyIndex(key string) (int, bool) {
	raw, found := strings.CutPrefix(key, "__form__")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// generateLoginFillScript emits username/password fills for a login cipher.
// Username fills always precede password fills so pages that copy the
// username on password focus see it populated.
func (e *Engine) generateLoginFillScript(script *schemas.FillScript, pd *schemas.PageDetails, cipher *schemas.CipherView, filled *filledSet, opts FillOptions) *schemas.FillScript {
	login := cipher.Login
	if login == nil {
		return nil
	}

	var passwords, usernames []*schemas.FieldDescriptor

	if login.Password == "" {
		// No password for this login. Maybe they just wanted to auto-fill
		// some custom fields?
		return setFillScriptForFocus(script, filled)
	}

	passwordFields := e.LocatePasswordFields(pd, false, false, opts.OnlyEmptyFields, opts.FillNewPassword)
	if len(passwordFields) == 0 && !opts.OnlyVisibleFields {
		// No viewable password fields. Maybe there are some "hidden" ones?
		passwordFields = e.LocatePasswordFields(pd, true, true, opts.OnlyEmptyFields, opts.FillNewPassword)
	}

	for _, formKey := range sortedFormKeys(pd.Forms) {
		for _, pf := range passwordFields {
			if pf.Form != formKey {
				continue
			}
			passwords = append(passwords, pf)

			if login.Username == "" {
				continue
			}
			username := e.LocateUsernameField(pd, pf, false, false, false)
			if username == nil && !opts.OnlyVisibleFields {
				// No viewable username fields. Maybe there are some
				// "hidden" ones?
				username = e.LocateUsernameField(pd, pf, true, true, false)
			}
			if username != nil {
				usernames = append(usernames, username)
			}
		}
	}

	if len(passwordFields) > 0 && len(passwords) == 0 {
		// The page has no forms with password fields. Use the first
		// password field on the page and the input field just before it as
		// the username.
		pf := passwordFields[0]
		passwords = append(passwords, pf)

		if login.Username != "" && pf.ElementIndex > 0 {
			username := e.LocateUsernameField(pd, pf, false, false, true)
			if username == nil && !opts.OnlyVisibleFields {
				username = e.LocateUsernameField(pd, pf, true, true, true)
			}
			if username != nil {
				usernames = append(usernames, username)
			}
		}
	}

	if len(passwordFields) == 0 && !opts.SkipUsernameOnlyFill {
		// No password fields on this page at all. Try to just fuzzy fill
		// the username.
		for _, f := range pd.Fields {
			if f.Viewable &&
				(f.Type == schemas.FieldTypeText || f.Type == schemas.FieldTypeEmail || f.Type == schemas.FieldTypeTel) &&
				fieldIsFuzzyMatch(f, e.tables.UsernameFieldNames) {
				usernames = append(usernames, f)
			}
		}
	}

	for _, u := range usernames {
		if !filled.claim(u) {
			continue
		}
		fillByOpID(script, u, login.Username)
	}
	for _, p := range passwords {
		if !filled.claim(p) {
			continue
		}
		fillByOpID(script, p, login.Password)
	}

	e.log.Debug("generated login fill script",
		zap.String("documentId", pd.DocumentID),
		zap.Int("passwordFields", len(passwords)),
		zap.Int("usernameFields", len(usernames)))

	return setFillScriptForFocus(script, filled)
}

// FormPasswordGroup reports one form's password fields together with the
// username anchor derived for it. Consumers use it to decide whether a page
// is showing a login, signup or change-password form.
type FormPasswordGroup struct {
	FormKey   string
	Form      schemas.FormDescriptor
	Password  *schemas.FieldDescriptor
	Username  *schemas.FieldDescriptor
	Passwords []*schemas.FieldDescriptor
}

// FormsWithPasswordFields groups every password field on the page by owning
// form and resolves each form's username anchor, relaxing the visibility
// policy when the strict scan finds nothing.
func (e *Engine) FormsWithPasswordFields(pd *schemas.PageDetails) []FormPasswordGroup {
	var groups []FormPasswordGroup

	passwordFields := e.LocatePasswordFields(pd, true, true, false, false)
	if len(passwordFields) == 0 {
		return groups
	}

	for _, formKey := range sortedFormKeys(pd.Forms) {
		form := pd.Forms[formKey]
		var formPasswords []*schemas.FieldDescriptor
		for _, pf := range passwordFields {
			if pf.Form == formKey {
				formPasswords = append(formPasswords, pf)
			}
		}
		if len(formPasswords) == 0 {
			continue
		}

		uf := e.LocateUsernameField(pd, formPasswords[0], false, false, false)
		if uf == nil {
			// No viewable username fields. Maybe there are some "hidden"
			// ones?
			uf = e.LocateUsernameField(pd, formPasswords[0], true, true, false)
		}
		groups = append(groups, FormPasswordGroup{
			FormKey:   formKey,
			Form:      form,
			Password:  formPasswords[0],
			Username:  uf,
			Passwords: formPasswords,
		})
	}

	return groups
}
