package autofill

import (
	"strconv"
	"strings"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// generateCardFillScript classifies the page against the card rules and
// emits fills for the matched targets. Expiry is multi-modal: combined
// month/year inputs, month selects and plain text inputs each get their own
// treatment.
func (e *Engine) generateCardFillScript(script *schemas.FillScript, pd *schemas.PageDetails, cipher *schemas.CipherView, filled *filledSet) *schemas.FillScript {
	card := cipher.Card
	if card == nil {
		return nil
	}

	fillFields := e.ClassifyFields(pd, e.tables.CardRules)

	e.makeScriptAction(script, card.CardholderName, fillFields[targetCardholderName], filled)
	e.makeScriptAction(script, card.Number, fillFields[targetCardNumber], filled)
	e.makeScriptAction(script, card.Code, fillFields[targetCardCode], filled)
	e.makeScriptAction(script, card.Brand, fillFields[targetCardBrand], filled)

	if f := fillFields[targetCardExpMonth]; f != nil && hasValue(card.ExpMonth) {
		e.fillExpMonth(script, f, card.ExpMonth, filled)
	}
	if f := fillFields[targetCardExpYear]; f != nil && hasValue(card.ExpYear) {
		e.fillExpYear(script, f, card.ExpYear, filled)
	}
	if f := fillFields[targetCardExp]; f != nil && hasValue(card.ExpMonth) && hasValue(card.ExpYear) {
		e.fillCombinedExp(script, f, card.ExpMonth, card.ExpYear, filled)
	}

	return setFillScriptForFocus(script, filled)
}

// fillExpMonth fills a month field. Selects resolve by option position
// (12 options map 1:1 to months; 13 options carry a blank placeholder at
// either end); text inputs get zero-padded when the field hints at a
// two-digit format.
func (e *Engine) fillExpMonth(script *schemas.FillScript, field *schemas.FieldDescriptor, expMonth string, filled *filledSet) {
	value := expMonth

	if len(field.SelectOptions) > 0 {
		idx := -1
		opts := field.SelectOptions
		if month, err := strconv.Atoi(expMonth); err == nil {
			switch len(opts) {
			case 12:
				idx = month - 1
			case 13:
				if hasValue(opts[0].Text) && !hasValue(opts[12].Text) {
					// Blank placeholder occupies the tail, months start
					// at index 0.
					idx = month - 1
				} else {
					idx = month
				}
			}
		}
		// An unrecognized option shape falls through and fills the raw
		// stored month.
		if idx >= 0 && idx < len(opts) {
			value = opts[idx].Value
		}
	} else if (fieldAttrsContain(field, "mm") || field.MaxLength == 2) && len(value) == 1 {
		value = "0" + value
	}

	if !filled.claim(field) {
		return
	}
	fillByOpID(script, field, value)
}

// fillExpYear fills a year field, widening or narrowing the stored year to
// the field's detected two- or four-digit convention.
func (e *Engine) fillExpYear(script *schemas.FillScript, field *schemas.FieldDescriptor, expYear string, filled *filledSet) {
	value := expYear

	if len(field.SelectOptions) > 0 {
		for _, o := range field.SelectOptions {
			if o.Value == expYear || o.Text == expYear {
				value = o.Value
				break
			}
			// A two-digit option matching the tail of a four-digit year.
			if len(o.Value) == 2 && len(expYear) == 4 && o.Value == expYear[2:] {
				value = o.Value
				break
			}
			// Option values shaped like "exp: 2027".
			if colon := strings.Index(o.Value, ":"); colon > -1 && len(o.Value) > colon+2 {
				if v := o.Value[colon+2:]; strings.TrimSpace(v) != "" && v == expYear {
					value = o.Value
					break
				}
			}
		}
	} else if fieldAttrsContain(field, "yyyy") || field.MaxLength == 4 {
		if len(value) == 2 {
			value = "20" + value
		}
	} else if fieldAttrsContain(field, "yy") || field.MaxLength == 2 {
		if len(value) == 4 {
			value = value[2:]
		}
	}

	if !filled.claim(field) {
		return
	}
	fillByOpID(script, field, value)
}

// fillCombinedExp fills a single expiry input, sniffing the expected
// month/year ordering and separator from the field's attributes across the
// supported locale abbreviation sets. Longer year forms are probed before
// shorter ones so a "mm-yyyy" hint is not swallowed by its "mm-yy" prefix.
// When nothing matches, the value defaults to YYYY-MM.
func (e *Engine) fillCombinedExp(script *schemas.FillScript, field *schemas.FieldDescriptor, expMonth, expYear string, filled *filledSet) {
	fullMonth := expMonth
	if len(fullMonth) == 1 {
		fullMonth = "0" + fullMonth
	}

	fullYear := expYear
	partYear := ""
	switch len(fullYear) {
	case 2:
		partYear = fullYear
		fullYear = "20" + fullYear
	case 4:
		partYear = fullYear[2:4]
	}

	exp := ""
	for i := range e.tables.MonthAbbr {
		mm := e.tables.MonthAbbr[i]
		ys := e.tables.YearAbbrShort[i]
		yl := e.tables.YearAbbrLong[i]

		switch {
		case fieldAttrsContain(field, mm+"/"+yl):
			exp = fullMonth + "/" + fullYear
		case fieldAttrsContain(field, mm+"/"+ys) && partYear != "":
			exp = fullMonth + "/" + partYear
		case fieldAttrsContain(field, yl+"/"+mm):
			exp = fullYear + "/" + fullMonth
		case fieldAttrsContain(field, ys+"/"+mm) && partYear != "":
			exp = partYear + "/" + fullMonth
		case fieldAttrsContain(field, mm+"-"+yl):
			exp = fullMonth + "-" + fullYear
		case fieldAttrsContain(field, mm+"-"+ys) && partYear != "":
			exp = fullMonth + "-" + partYear
		case fieldAttrsContain(field, yl+"-"+mm):
			exp = fullYear + "-" + fullMonth
		case fieldAttrsContain(field, ys+"-"+mm) && partYear != "":
			exp = partYear + "-" + fullMonth
		case fieldAttrsContain(field, yl+mm):
			exp = fullYear + fullMonth
		case fieldAttrsContain(field, ys+mm) && partYear != "":
			exp = partYear + fullMonth
		case fieldAttrsContain(field, mm+yl):
			exp = fullMonth + fullYear
		case fieldAttrsContain(field, mm+ys) && partYear != "":
			exp = fullMonth + partYear
		}

		if exp != "" {
			break
		}
	}

	if exp == "" {
		exp = fullYear + "-" + fullMonth
	}

	e.makeScriptAction(script, exp, field, filled)
}
