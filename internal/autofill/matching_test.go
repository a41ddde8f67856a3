package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

func TestIsFieldMatch(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		terms         []string
		containsTerms []string
		want          bool
	}{
		{"exact match", "cc-number", []string{"cc-number"}, nil, true},
		{"case and separator insensitive", " CC_Number ", []string{"cc-number"}, nil, true},
		{"containment when all terms eligible", "billing-cc-number-1", []string{"cc-number"}, nil, true},
		{"containment denied for ineligible term", "my-name-field", []string{"name"}, []string{"full-name"}, false},
		{"equality still matches ineligible term", "name", []string{"name"}, []string{"full-name"}, true},
		{"containment allowed for eligible term", "the-full-name-input", []string{"full-name"}, []string{"full-name"}, true},
		{"no match", "search", []string{"cc-number"}, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isFieldMatch(tc.value, tc.terms, tc.containsTerms))
		})
	}
}

func TestFindMatchingFieldIndex(t *testing.T) {
	f := &schemas.FieldDescriptor{
		OpID:        "__0",
		HTMLID:      "login-email",
		HTMLName:    "session[email]",
		LabelTag:    "Email Address",
		Placeholder: "you@example.com",
	}

	t.Run("plain names match any attribute case insensitively", func(t *testing.T) {
		assert.Equal(t, 0, findMatchingFieldIndex(f, []string{"login-email"}))
		assert.Equal(t, 1, findMatchingFieldIndex(f, []string{"nope", "email address"}))
		assert.Equal(t, -1, findMatchingFieldIndex(f, []string{"email"}))
	})

	t.Run("prefix syntax scopes the match to one attribute", func(t *testing.T) {
		assert.Equal(t, 0, findMatchingFieldIndex(f, []string{"id=login-email"}))
		assert.Equal(t, -1, findMatchingFieldIndex(f, []string{"name=login-email"}))
		assert.Equal(t, 0, findMatchingFieldIndex(f, []string{"placeholder=you@example.com"}))
	})

	t.Run("regex syntax matches case insensitively", func(t *testing.T) {
		assert.Equal(t, 0, findMatchingFieldIndex(f, []string{"regex=^LOGIN-"}))
		assert.Equal(t, -1, findMatchingFieldIndex(f, []string{"regex=^zzz"}))
	})

	t.Run("invalid regex never matches", func(t *testing.T) {
		assert.Equal(t, -1, findMatchingFieldIndex(f, []string{"regex=["}))
	})

	t.Run("csv syntax matches any listed value", func(t *testing.T) {
		assert.Equal(t, 0, findMatchingFieldIndex(f, []string{"csv=userid, login-email ,other"}))
		assert.Equal(t, -1, findMatchingFieldIndex(f, []string{"csv=userid,other"}))
	})

	t.Run("earlier names win", func(t *testing.T) {
		assert.Equal(t, 0, findMatchingFieldIndex(f, []string{"login-email", "email address"}))
	})
}

func TestFieldIsFuzzyMatch(t *testing.T) {
	names := []string{"username", "email"}

	t.Run("substring across identifying attributes", func(t *testing.T) {
		assert.True(t, fieldIsFuzzyMatch(&schemas.FieldDescriptor{HTMLID: "signup_email_field"}, names))
		assert.True(t, fieldIsFuzzyMatch(&schemas.FieldDescriptor{LabelTop: "Your Username"}, names))
		assert.False(t, fieldIsFuzzyMatch(&schemas.FieldDescriptor{HTMLID: "search"}, names))
	})

	t.Run("empty attributes never match", func(t *testing.T) {
		assert.False(t, fieldIsFuzzyMatch(&schemas.FieldDescriptor{}, names))
	})
}

func TestLocatePasswordFields(t *testing.T) {
	e := newTestEngine(t)

	build := func() []*schemas.FieldDescriptor {
		visible := field("__0", 0, schemas.FieldTypePassword)
		hidden := field("__1", 1, schemas.FieldTypePassword)
		hidden.Viewable = false
		readOnly := field("__2", 2, schemas.FieldTypePassword)
		readOnly.ReadOnly = true
		disabled := field("__3", 3, schemas.FieldTypePassword)
		disabled.Disabled = true
		return []*schemas.FieldDescriptor{visible, hidden, readOnly, disabled}
	}

	t.Run("strict pass keeps only viewable writable fields", func(t *testing.T) {
		pd := pageWith(build()...)
		found := e.LocatePasswordFields(pd, false, false, false, false)
		assert.Len(t, found, 1)
		assert.Equal(t, "__0", found[0].OpID)
	})

	t.Run("relaxed pass admits hidden and read only fields", func(t *testing.T) {
		pd := pageWith(build()...)
		found := e.LocatePasswordFields(pd, true, true, false, false)
		assert.Len(t, found, 3)
	})

	t.Run("disabled fields never qualify", func(t *testing.T) {
		pd := pageWith(build()...)
		for _, f := range e.LocatePasswordFields(pd, true, true, false, false) {
			assert.NotEqual(t, "__3", f.OpID)
		}
	})

	t.Run("text field that looks like a password qualifies", func(t *testing.T) {
		f := field("__0", 0, schemas.FieldTypeText)
		f.HTMLName = "user_password"
		pd := pageWith(f)
		assert.Len(t, e.LocatePasswordFields(pd, false, false, false, false), 1)
	})

	t.Run("ignore terms disqualify the password lookalike", func(t *testing.T) {
		f := field("__0", 0, schemas.FieldTypeText)
		f.HTMLName = "one-time-password"
		pd := pageWith(f)
		assert.Empty(t, e.LocatePasswordFields(pd, false, false, false, false))
	})

	t.Run("non text lookalikes never qualify", func(t *testing.T) {
		f := field("__0", 0, schemas.FieldTypeEmail)
		f.HTMLName = "password-reset-email"
		pd := pageWith(f)
		assert.Empty(t, e.LocatePasswordFields(pd, false, false, false, false))
	})
}

func TestLocateUsernameField(t *testing.T) {
	e := newTestEngine(t)

	t.Run("closest preceding candidate wins by default", func(t *testing.T) {
		far := field("__0", 0, schemas.FieldTypeText)
		far.Form = "f"
		near := field("__1", 1, schemas.FieldTypeText)
		near.Form = "f"
		password := field("__2", 2, schemas.FieldTypePassword)
		password.Form = "f"
		pd := pageWith(far, near, password)

		got := e.LocateUsernameField(pd, password, false, false, false)
		assert.Same(t, near, got)
	})

	t.Run("exact username match short circuits the scan", func(t *testing.T) {
		exact := field("__0", 0, schemas.FieldTypeText)
		exact.Form = "f"
		exact.HTMLName = "username"
		generic := field("__1", 1, schemas.FieldTypeText)
		generic.Form = "f"
		password := field("__2", 2, schemas.FieldTypePassword)
		password.Form = "f"
		pd := pageWith(exact, generic, password)

		got := e.LocateUsernameField(pd, password, false, false, false)
		assert.Same(t, exact, got)
	})

	t.Run("fields after the password are never considered", func(t *testing.T) {
		password := field("__0", 0, schemas.FieldTypePassword)
		password.Form = "f"
		after := field("__1", 1, schemas.FieldTypeText)
		after.Form = "f"
		pd := pageWith(password, after)

		assert.Nil(t, e.LocateUsernameField(pd, password, false, false, false))
	})

	t.Run("other forms are excluded unless ignoreForm is set", func(t *testing.T) {
		other := field("__0", 0, schemas.FieldTypeText)
		other.Form = "g"
		password := field("__1", 1, schemas.FieldTypePassword)
		password.Form = "f"
		pd := pageWith(other, password)

		assert.Nil(t, e.LocateUsernameField(pd, password, false, false, false))
		assert.Same(t, other, e.LocateUsernameField(pd, password, false, false, true))
	})

	t.Run("hidden candidates require the relaxed policy", func(t *testing.T) {
		hidden := field("__0", 0, schemas.FieldTypeText)
		hidden.Form = "f"
		hidden.Viewable = false
		password := field("__1", 1, schemas.FieldTypePassword)
		password.Form = "f"
		pd := pageWith(hidden, password)

		assert.Nil(t, e.LocateUsernameField(pd, password, false, false, false))
		assert.Same(t, hidden, e.LocateUsernameField(pd, password, true, true, false))
	})

	t.Run("only text email and tel types qualify", func(t *testing.T) {
		checkbox := field("__0", 0, schemas.FieldTypeCheckbox)
		checkbox.Form = "f"
		tel := field("__1", 1, schemas.FieldTypeTel)
		tel.Form = "f"
		password := field("__2", 2, schemas.FieldTypePassword)
		password.Form = "f"
		pd := pageWith(checkbox, tel, password)

		assert.Same(t, tel, e.LocateUsernameField(pd, password, false, false, false))
	})
}
