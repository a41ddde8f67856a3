package collect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

func TestCollectLoginPage(t *testing.T) {
	markup := `<!DOCTYPE html>
<html>
<head><title>Sign in - Example</title></head>
<body>
  <form id="login" name="login-form" action="/session" method="post">
    <label for="email">Email Address</label>
    <input type="email" id="email" name="email" placeholder="you@example.com">
    <label for="pwd">Password</label>
    <input type="password" id="pwd" name="password" autocomplete="current-password">
    <input type="hidden" name="csrf" value="tok123">
    <button type="submit">Sign in</button>
  </form>
</body>
</html>`

	details, err := CollectString(markup, "https://example.com/login")
	require.NoError(t, err)

	assert.NotEmpty(t, details.DocumentID)
	assert.Equal(t, "https://example.com/login", details.URL)
	assert.Equal(t, "Sign in - Example", details.Title)

	require.Len(t, details.Forms, 1)
	form := details.Forms["__form__0"]
	assert.Equal(t, "login", form.HTMLID)
	assert.Equal(t, "login-form", form.HTMLName)
	assert.Equal(t, "/session", form.HTMLAction)
	assert.Equal(t, "post", form.HTMLMethod)

	require.Len(t, details.Fields, 3)

	email := details.Fields[0]
	assert.Equal(t, "__0", email.OpID)
	assert.Equal(t, 0, email.ElementIndex)
	assert.Equal(t, schemas.FieldTypeEmail, email.Type)
	assert.Equal(t, "__form__0", email.Form)
	assert.Equal(t, "Email Address", email.LabelTag)
	assert.Equal(t, "you@example.com", email.Placeholder)
	assert.True(t, email.Viewable)

	password := details.Fields[1]
	assert.Equal(t, "__1", password.OpID)
	assert.Equal(t, schemas.FieldTypePassword, password.Type)
	assert.Equal(t, "current-password", password.AutocompleteHint)
	assert.Equal(t, "Password", password.LabelTag)

	hidden := details.Fields[2]
	assert.Equal(t, schemas.FieldTypeHidden, hidden.Type)
	assert.False(t, hidden.Viewable)
	assert.Equal(t, "tok123", hidden.Value)
}

func TestCollectFieldTypes(t *testing.T) {
	markup := `<body>
  <input>
  <input type="TEL">
  <input type="datetime-local">
  <textarea name="notes"></textarea>
  <select name="one"><option>a</option></select>
  <select name="many" multiple><option>a</option></select>
</body>`

	details, err := CollectString(markup, "")
	require.NoError(t, err)
	require.Len(t, details.Fields, 6)

	assert.Equal(t, schemas.FieldTypeText, details.Fields[0].Type, "missing type defaults to text")
	assert.Equal(t, schemas.FieldTypeTel, details.Fields[1].Type, "type matching is case insensitive")
	assert.Equal(t, schemas.FieldTypeOther, details.Fields[2].Type, "unknown types normalize to other")
	assert.Equal(t, schemas.FieldTypeOther, details.Fields[3].Type, "textareas are not matchable")
	assert.Equal(t, schemas.FieldTypeSelect, details.Fields[4].Type)
	assert.Equal(t, schemas.FieldTypeOther, details.Fields[5].Type, "multi-selects are not fillable")
}

func TestCollectViewability(t *testing.T) {
	markup := `<body>
  <input name="visible">
  <input name="styled" style="display: none">
  <div style="visibility:hidden"><input name="nested"></div>
  <div hidden><input name="attr"></div>
</body>`

	details, err := CollectString(markup, "")
	require.NoError(t, err)
	require.Len(t, details.Fields, 4)

	assert.True(t, details.Fields[0].Viewable)
	assert.False(t, details.Fields[1].Viewable, "inline display:none")
	assert.False(t, details.Fields[2].Viewable, "ancestor visibility:hidden")
	assert.False(t, details.Fields[3].Viewable, "ancestor hidden attribute")
}

func TestCollectLabels(t *testing.T) {
	markup := `<body>
  <form>
    <label>Wrapped label <input name="wrapped"></label>
    <input name="aria" aria-label="Aria Name">
    <span id="ref1">Referenced</span><span id="ref2">Label</span>
    <input name="referenced" aria-labelledby="ref1 ref2">
    Preceding text: <input name="positional">
    <table>
      <tr><td>Card Number</td><td>Expiry</td></tr>
      <tr><td><input name="cardnum"></td><td><input name="exp"></td></tr>
    </table>
  </form>
</body>`

	details, err := CollectString(markup, "")
	require.NoError(t, err)
	require.Len(t, details.Fields, 6)

	byName := make(map[string]*schemas.FieldDescriptor)
	for _, f := range details.Fields {
		byName[f.HTMLName] = f
	}

	assert.Equal(t, "Wrapped label", byName["wrapped"].LabelTag)
	assert.Equal(t, "Aria Name", byName["aria"].LabelAria)
	assert.Equal(t, "Referenced Label", byName["referenced"].LabelAria)
	assert.Equal(t, "Preceding text:", byName["positional"].LabelLeft)
	assert.Equal(t, "Card Number", byName["cardnum"].LabelTop)
	assert.Equal(t, "Expiry", byName["exp"].LabelTop)
}

func TestCollectForms(t *testing.T) {
	markup := `<body>
  <form id="a"><input name="inside-a"></form>
  <form id="b"><input name="inside-b"></form>
  <input name="outside" form="a">
  <input name="orphan">
</body>`

	details, err := CollectString(markup, "")
	require.NoError(t, err)
	require.Len(t, details.Forms, 2)
	require.Len(t, details.Fields, 4)

	byName := make(map[string]*schemas.FieldDescriptor)
	for _, f := range details.Fields {
		byName[f.HTMLName] = f
	}

	assert.Equal(t, "__form__0", byName["inside-a"].Form)
	assert.Equal(t, "__form__1", byName["inside-b"].Form)
	assert.Equal(t, "__form__0", byName["outside"].Form, "explicit form attribute wins")
	assert.Empty(t, byName["orphan"].Form)
}

func TestCollectSelectOptions(t *testing.T) {
	markup := `<body>
  <select name="month">
    <option value="">Choose...</option>
    <option value="1">January</option>
    <option>February</option>
  </select>
</body>`

	details, err := CollectString(markup, "")
	require.NoError(t, err)
	require.Len(t, details.Fields, 1)

	opts := details.Fields[0].SelectOptions
	require.Len(t, opts, 3)
	assert.Equal(t, schemas.SelectOption{Value: "", Text: "Choose..."}, opts[0])
	assert.Equal(t, schemas.SelectOption{Value: "1", Text: "January"}, opts[1])
	assert.Equal(t, schemas.SelectOption{Value: "February", Text: "February"}, opts[2], "missing value falls back to the text")
}

func TestCollectAttributes(t *testing.T) {
	markup := `<body>
  <input name="cc" maxlength="4" readonly data-stripe="exp-month" data-recurly="month">
  <input name="off" disabled>
  <input name="bad-maxlength" maxlength="zero">
</body>`

	details, err := CollectString(markup, "")
	require.NoError(t, err)
	require.Len(t, details.Fields, 3)

	cc := details.Fields[0]
	assert.Equal(t, 4, cc.MaxLength)
	assert.True(t, cc.ReadOnly)
	assert.Equal(t, "exp-month", cc.DataStripe)
	assert.Equal(t, "month", cc.DataRecurly)

	assert.True(t, details.Fields[1].Disabled)
	assert.Zero(t, details.Fields[2].MaxLength)
}

func TestCollectMalformedMarkup(t *testing.T) {
	// html.Parse repairs rather than rejects; an unclosed mess still yields
	// an inventory.
	details, err := CollectString("<form><input name=a><div><input name=b>", "")
	require.NoError(t, err)
	assert.Len(t, details.Fields, 2)
}

func TestCollectEmptyDocument(t *testing.T) {
	details, err := Collect(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, details.Fields)
	assert.Empty(t, details.Forms)
}
