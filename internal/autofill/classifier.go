package autofill

import (
	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// ClassifyFields assigns page fields to logical fill targets by walking
// each field's identifying attributes in priority order and testing each
// attribute value against the rules' term lists in declaration order.
//
// First match wins twice over: a field stops probing at its first matching
// target (a field is never assigned to two targets), and a target that is
// already assigned is skipped (one field per target, earliest field in
// document order wins). Excluded control types and non-viewable fields are
// never considered. Ambiguity therefore resolves deterministically without
// error - silent best effort is the contract.
func (e *Engine) ClassifyFields(pd *schemas.PageDetails, rules []ClassifierRule) map[string]*schemas.FieldDescriptor {
	assigned := make(map[string]*schemas.FieldDescriptor)

	for _, f := range pd.Fields {
		if isExcludedType(f.Type, e.tables.ExcludedFieldTypes) {
			continue
		}
		if !f.Viewable {
			continue
		}

	attrLoop:
		for _, attr := range classifierAttributes {
			value := attr.get(f)
			if !hasValue(value) {
				continue
			}
			for _, rule := range rules {
				if _, taken := assigned[rule.Target]; taken {
					continue
				}
				if isFieldMatch(value, rule.Terms, rule.ContainsTerms) {
					assigned[rule.Target] = f
					break attrLoop
				}
			}
		}
	}

	return assigned
}
