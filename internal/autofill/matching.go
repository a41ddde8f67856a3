package autofill

import (
	"regexp"
	"strings"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// fieldAttribute pairs an attribute name with its accessor. Matching walks
// fields through explicit ordered accessor lists so the attribute priority
// contract is visible in code instead of hidden behind reflection.
type fieldAttribute struct {
	name string
	get  func(*schemas.FieldDescriptor) string
}

// classifierAttributes is the priority order the card/identity classifier
// probes: structured hints first, then markup identifiers, then labels.
var classifierAttributes = []fieldAttribute{
	{"autocompleteHint", func(f *schemas.FieldDescriptor) string { return f.AutocompleteHint }},
	{"dataStripe", func(f *schemas.FieldDescriptor) string { return f.DataStripe }},
	{"htmlName", func(f *schemas.FieldDescriptor) string { return f.HTMLName }},
	{"htmlId", func(f *schemas.FieldDescriptor) string { return f.HTMLID }},
	{"labelTag", func(f *schemas.FieldDescriptor) string { return f.LabelTag }},
	{"placeholder", func(f *schemas.FieldDescriptor) string { return f.Placeholder }},
	{"labelLeft", func(f *schemas.FieldDescriptor) string { return f.LabelLeft }},
	{"labelTop", func(f *schemas.FieldDescriptor) string { return f.LabelTop }},
	{"dataRecurly", func(f *schemas.FieldDescriptor) string { return f.DataRecurly }},
}

// extendedAttributes additionally includes the right-hand label; used by the
// expiry format sniffing, which wants every textual hint available.
var extendedAttributes = append(append([]fieldAttribute{}, classifierAttributes...),
	fieldAttribute{"labelRight", func(f *schemas.FieldDescriptor) string { return f.LabelRight }},
)

var (
	nonAlphanumericRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	newlineRe         = regexp.MustCompile(`\r\n|\r|\n`)
	whitespaceDashRe  = regexp.MustCompile(`[\s_\-]`)
)

func hasValue(s string) bool { return s != "" }

// isFieldMatch tests a raw attribute value against a term list. The value
// is trimmed, lowercased and stripped of non-alphanumerics; each term is
// lowercased with dashes removed. Equality always matches; substring
// containment only matches for containment-eligible terms (containsTerms
// nil means all of them are).
func isFieldMatch(value string, terms []string, containsTerms []string) bool {
	value = nonAlphanumericRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "")
	for _, term := range terms {
		checkContains := containsTerms == nil || containsString(containsTerms, term)
		term = strings.ReplaceAll(strings.ToLower(term), "-", "")
		if value == term || (checkContains && strings.Contains(value, term)) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// namedMatchAttributes is the attribute set probed for exact name matches
// (username short circuit, custom field binding).
var namedMatchAttributes = []fieldAttribute{
	{"id", func(f *schemas.FieldDescriptor) string { return f.HTMLID }},
	{"name", func(f *schemas.FieldDescriptor) string { return f.HTMLName }},
	{"label", func(f *schemas.FieldDescriptor) string { return f.LabelTag }},
	{"label", func(f *schemas.FieldDescriptor) string { return f.LabelAria }},
	{"placeholder", func(f *schemas.FieldDescriptor) string { return f.Placeholder }},
}

// findMatchingFieldIndex returns the index of the first name in names that
// matches one of the field's identifying attributes, or -1. Besides plain
// case-insensitive equality, a name can carry match syntax:
//
//	id=v / name=v / label=v / placeholder=v  restrict to one attribute
//	regex=pattern                            case-insensitive regex
//	csv=a,b,c                                any of the listed values
func findMatchingFieldIndex(f *schemas.FieldDescriptor, names []string) int {
	for i, name := range names {
		if strings.Contains(name, "=") {
			for _, attr := range namedMatchAttributes {
				if fieldPropertyIsPrefixMatch(attr.get(f), name, attr.name) {
					return i
				}
			}
		}
		for _, attr := range namedMatchAttributes {
			if fieldPropertyIsMatch(attr.get(f), name) {
				return i
			}
		}
	}
	return -1
}

// fieldPropertyIsPrefixMatch handles the "prefix=value" form, matching only
// when the name is scoped to the given attribute prefix.
func fieldPropertyIsPrefixMatch(fieldVal, name, prefix string) bool {
	if !strings.HasPrefix(name, prefix+"=") {
		return false
	}
	val := name[strings.Index(name, "=")+1:]
	return fieldPropertyIsMatch(fieldVal, val)
}

// fieldPropertyIsMatch compares one attribute value against a match
// expression (plain string, regex= or csv=).
func fieldPropertyIsMatch(fieldVal, name string) bool {
	if !hasValue(fieldVal) {
		return false
	}
	fieldVal = newlineRe.ReplaceAllString(strings.TrimSpace(fieldVal), "")

	if strings.HasPrefix(name, "regex=") {
		pattern := name[len("regex="):]
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			// A bad user-supplied pattern simply doesn't match.
			return false
		}
		return re.MatchString(fieldVal)
	}
	if strings.HasPrefix(name, "csv=") {
		for _, val := range strings.Split(name[len("csv="):], ",") {
			if strings.EqualFold(strings.TrimSpace(val), fieldVal) {
				return true
			}
		}
		return false
	}

	return strings.ToLower(fieldVal) == name
}

// fuzzyMatchAttributes is the attribute set probed by fuzzy matching, which
// also considers positional labels.
var fuzzyMatchAttributes = []fieldAttribute{
	{"htmlId", func(f *schemas.FieldDescriptor) string { return f.HTMLID }},
	{"htmlName", func(f *schemas.FieldDescriptor) string { return f.HTMLName }},
	{"labelTag", func(f *schemas.FieldDescriptor) string { return f.LabelTag }},
	{"placeholder", func(f *schemas.FieldDescriptor) string { return f.Placeholder }},
	{"labelLeft", func(f *schemas.FieldDescriptor) string { return f.LabelLeft }},
	{"labelTop", func(f *schemas.FieldDescriptor) string { return f.LabelTop }},
	{"labelAria", func(f *schemas.FieldDescriptor) string { return f.LabelAria }},
}

// fieldIsFuzzyMatch reports whether any identifying attribute of the field
// contains one of the given names.
func fieldIsFuzzyMatch(f *schemas.FieldDescriptor, names []string) bool {
	for _, attr := range fuzzyMatchAttributes {
		if v := attr.get(f); hasValue(v) && fuzzyMatch(names, v) {
			return true
		}
	}
	return false
}

// fuzzyMatch is a lowercase substring containment test of value against any
// of the options.
func fuzzyMatch(options []string, value string) bool {
	if len(options) == 0 || value == "" {
		return false
	}
	value = strings.ToLower(strings.TrimSpace(newlineRe.ReplaceAllString(value, "")))
	for _, opt := range options {
		if strings.Contains(value, opt) {
			return true
		}
	}
	return false
}

// fieldAttrsContain reports whether any textual attribute of the field,
// space-stripped and lowercased, contains the given value. Used for expiry
// format hints like "mm/yy".
func fieldAttrsContain(f *schemas.FieldDescriptor, contains string) bool {
	if f == nil {
		return false
	}
	for _, attr := range extendedAttributes {
		v := attr.get(f)
		if !hasValue(v) {
			continue
		}
		v = strings.ToLower(strings.ReplaceAll(v, " ", ""))
		if strings.Contains(v, contains) {
			return true
		}
	}
	return false
}

func isExcludedType(fieldType string, excluded []string) bool {
	return containsString(excluded, fieldType)
}
