package autofill

import (
	"strings"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// generateIdentityFillScript classifies the page against the identity rules
// and emits direct fills, ISO-code substitutions for state/country, and the
// composite full-name/full-address fills.
func (e *Engine) generateIdentityFillScript(script *schemas.FillScript, pd *schemas.PageDetails, cipher *schemas.CipherView, filled *filledSet) *schemas.FillScript {
	identity := cipher.Identity
	if identity == nil {
		return nil
	}

	fillFields := e.ClassifyFields(pd, e.tables.IdentityRules)

	e.makeScriptAction(script, identity.Title, fillFields[targetIDTitle], filled)
	e.makeScriptAction(script, identity.FirstName, fillFields[targetIDFirstName], filled)
	e.makeScriptAction(script, identity.MiddleName, fillFields[targetIDMiddleName], filled)
	e.makeScriptAction(script, identity.LastName, fillFields[targetIDLastName], filled)
	e.makeScriptAction(script, identity.Address1, fillFields[targetIDAddress1], filled)
	e.makeScriptAction(script, identity.Address2, fillFields[targetIDAddress2], filled)
	e.makeScriptAction(script, identity.Address3, fillFields[targetIDAddress3], filled)
	e.makeScriptAction(script, identity.City, fillFields[targetIDCity], filled)
	e.makeScriptAction(script, identity.PostalCode, fillFields[targetIDPostalCode], filled)
	e.makeScriptAction(script, identity.Company, fillFields[targetIDCompany], filled)
	e.makeScriptAction(script, identity.Email, fillFields[targetIDEmail], filled)
	e.makeScriptAction(script, identity.Phone, fillFields[targetIDPhone], filled)
	e.makeScriptAction(script, identity.Username, fillFields[targetIDUsername], filled)

	// State and country stored as full names get translated to their ISO
	// codes; two-character values are assumed to already be codes.
	filledState := false
	if f := fillFields[targetIDState]; f != nil && len(identity.State) > 2 {
		stateLower := strings.ToLower(identity.State)
		isoState := e.tables.IsoStates[stateLower]
		if isoState == "" {
			isoState = e.tables.IsoProvinces[stateLower]
		}
		if isoState != "" {
			filledState = true
			e.makeScriptAction(script, isoState, f, filled)
		}
	}
	if !filledState {
		e.makeScriptAction(script, identity.State, fillFields[targetIDState], filled)
	}

	filledCountry := false
	if f := fillFields[targetIDCountry]; f != nil && len(identity.Country) > 2 {
		if isoCountry := e.tables.IsoCountries[strings.ToLower(identity.Country)]; isoCountry != "" {
			filledCountry = true
			e.makeScriptAction(script, isoCountry, f, filled)
		}
	}
	if !filledCountry {
		e.makeScriptAction(script, identity.Country, fillFields[targetIDCountry], filled)
	}

	// A combined name field gets the space-joined name parts.
	if f := fillFields[targetIDName]; f != nil && (identity.FirstName != "" || identity.LastName != "") {
		fullName := joinNonEmpty(" ", identity.FirstName, identity.MiddleName, identity.LastName)
		e.makeScriptAction(script, fullName, f, filled)
	}

	// A combined address field gets the comma-joined address lines.
	if f := fillFields[targetIDAddress]; f != nil && hasValue(identity.Address1) {
		address := joinNonEmpty(", ", identity.Address1, identity.Address2, identity.Address3)
		e.makeScriptAction(script, address, f, filled)
	}

	return setFillScriptForFocus(script, filled)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if hasValue(p) {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
