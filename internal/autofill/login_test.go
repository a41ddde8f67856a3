package autofill

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

func TestSortedFormKeys(t *testing.T) {
	t.Run("collector keys follow their numeric suffix", func(t *testing.T) {
		forms := make(map[string]schemas.FormDescriptor)
		for i := 0; i < 12; i++ {
			key := fmt.Sprintf("__form__%d", i)
			forms[key] = schemas.FormDescriptor{OpID: key}
		}

		keys := sortedFormKeys(forms)
		require.Len(t, keys, 12)
		for i, key := range keys {
			assert.Equal(t, fmt.Sprintf("__form__%d", i), key)
		}
	})

	t.Run("foreign keys order lexicographically after collector keys", func(t *testing.T) {
		forms := map[string]schemas.FormDescriptor{
			"checkout":   {OpID: "checkout"},
			"__form__10": {OpID: "__form__10"},
			"billing":    {OpID: "billing"},
			"__form__2":  {OpID: "__form__2"},
		}

		assert.Equal(t, []string{"__form__2", "__form__10", "billing", "checkout"}, sortedFormKeys(forms))
	})
}

func TestLoginFillFollowsDocumentOrderAcrossManyForms(t *testing.T) {
	eng := newTestEngine(t)

	// With ten or more forms a lexicographic key order would visit
	// "__form__10" before "__form__2"; fills must stay in document order.
	passA := field("__0", 0, schemas.FieldTypePassword)
	passA.Form = "__form__2"
	passB := field("__1", 1, schemas.FieldTypePassword)
	passB.Form = "__form__10"

	script := eng.GenerateFillScript(pageWith(passA, passB), loginCipher("", "hunter2"), FillOptions{})
	require.NotNil(t, script)

	var filledOpids []string
	for _, op := range script.Script {
		if op.Action == schemas.ActionFill {
			filledOpids = append(filledOpids, op.OpID)
		}
	}
	assert.Equal(t, []string{"__0", "__1"}, filledOpids)
}

func TestFormsWithPasswordFields(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("groups password fields by owning form", func(t *testing.T) {
		user1 := field("__0", 0, schemas.FieldTypeEmail)
		user1.Form = "__form__0"
		pass1 := field("__1", 1, schemas.FieldTypePassword)
		pass1.Form = "__form__0"
		pass2 := field("__2", 2, schemas.FieldTypePassword)
		pass2.Form = "__form__1"
		confirm2 := field("__3", 3, schemas.FieldTypePassword)
		confirm2.Form = "__form__1"

		groups := eng.FormsWithPasswordFields(pageWith(user1, pass1, pass2, confirm2))
		require.Len(t, groups, 2)

		assert.Equal(t, "__form__0", groups[0].FormKey)
		assert.Same(t, pass1, groups[0].Password)
		assert.Same(t, user1, groups[0].Username)
		assert.Len(t, groups[0].Passwords, 1)

		assert.Equal(t, "__form__1", groups[1].FormKey)
		assert.Same(t, pass2, groups[1].Password, "first password field anchors the group")
		assert.Nil(t, groups[1].Username, "second form carries no username input")
		assert.Len(t, groups[1].Passwords, 2)
	})

	t.Run("hidden fields still participate", func(t *testing.T) {
		user := field("__0", 0, schemas.FieldTypeText)
		user.Form = "__form__0"
		user.Viewable = false
		pass := field("__1", 1, schemas.FieldTypePassword)
		pass.Form = "__form__0"
		pass.Viewable = false

		groups := eng.FormsWithPasswordFields(pageWith(user, pass))
		require.Len(t, groups, 1)
		assert.Same(t, pass, groups[0].Password)
		assert.Same(t, user, groups[0].Username, "username scan relaxes when the strict pass finds nothing")
	})

	t.Run("formless password fields produce no groups", func(t *testing.T) {
		pass := field("__0", 0, schemas.FieldTypePassword)
		assert.Empty(t, eng.FormsWithPasswordFields(pageWith(pass)))
	})

	t.Run("no password fields", func(t *testing.T) {
		user := field("__0", 0, schemas.FieldTypeEmail)
		user.Form = "__form__0"
		assert.Empty(t, eng.FormsWithPasswordFields(pageWith(user)))
	})
}
