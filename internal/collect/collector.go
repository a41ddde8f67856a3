// Package collect builds a PageDetails field inventory from static HTML.
//
// In the browser extension this job belongs to a content script running
// against the live DOM; here the same normalization is performed over a
// parsed document tree, which is enough for script generation, testing and
// offline inspection. Geometry-dependent heuristics (left/top labels) are
// approximated structurally.
package collect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// knownFieldTypes are input types passed through verbatim; everything else
// normalizes to "other".
var knownFieldTypes = map[string]bool{
	schemas.FieldTypeText:     true,
	schemas.FieldTypeEmail:    true,
	schemas.FieldTypeTel:      true,
	schemas.FieldTypePassword: true,
	schemas.FieldTypeCheckbox: true,
	schemas.FieldTypeRadio:    true,
	schemas.FieldTypeHidden:   true,
	schemas.FieldTypeFile:     true,
	schemas.FieldTypeButton:   true,
	schemas.FieldTypeImage:    true,
	schemas.FieldTypeReset:    true,
	schemas.FieldTypeSearch:   true,
}

// Collect parses the HTML document from r and returns its field inventory.
// pageURL is recorded on the result and used for per-host fill behavior; it
// may be empty.
func Collect(r io.Reader, pageURL string) (*schemas.PageDetails, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return collectFromNode(doc, pageURL), nil
}

// CollectString is a convenience wrapper over Collect.
func CollectString(markup, pageURL string) (*schemas.PageDetails, error) {
	return Collect(strings.NewReader(markup), pageURL)
}

type walker struct {
	details *schemas.PageDetails

	// byID resolves id references (label for=, aria-labelledby).
	byID map[string]*html.Node
	// labelsFor maps a control id to the concatenated text of the label
	// elements referencing it.
	labelsFor map[string][]string

	// fieldNodes pairs each collected descriptor with its DOM node for the
	// second, context-dependent pass.
	fieldNodes []*html.Node

	formKeys  map[*html.Node]string
	formCount int
}

func collectFromNode(doc *html.Node, pageURL string) *schemas.PageDetails {
	w := &walker{
		details: &schemas.PageDetails{
			DocumentID: uuid.NewString(),
			URL:        pageURL,
			Forms:      make(map[string]schemas.FormDescriptor),
		},
		byID:      make(map[string]*html.Node),
		labelsFor: make(map[string][]string),
		formKeys:  make(map[*html.Node]string),
	}

	w.scan(doc)
	w.resolveFields()
	return w.details
}

// scan performs the first pass: register forms, ids and labels, and record
// every form control in document order.
func (w *walker) scan(n *html.Node) {
	if n.Type == html.ElementNode {
		if id := attr(n, "id"); id != "" {
			w.byID[id] = n
		}
		switch n.DataAtom {
		case atom.Title:
			if w.details.Title == "" {
				w.details.Title = strings.TrimSpace(textContent(n))
			}
		case atom.Form:
			key := fmt.Sprintf("__form__%d", w.formCount)
			w.formCount++
			w.formKeys[n] = key
			w.details.Forms[key] = schemas.FormDescriptor{
				OpID:       key,
				HTMLID:     attr(n, "id"),
				HTMLName:   attr(n, "name"),
				HTMLAction: attr(n, "action"),
				HTMLMethod: attr(n, "method"),
			}
		case atom.Label:
			if forID := attr(n, "for"); forID != "" {
				if text := collapseWhitespace(textContent(n)); text != "" {
					w.labelsFor[forID] = append(w.labelsFor[forID], text)
				}
			}
		case atom.Input, atom.Select, atom.Textarea:
			w.fieldNodes = append(w.fieldNodes, n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.scan(c)
	}
}

// resolveFields performs the second pass, building descriptors with full
// ancestor context available.
func (w *walker) resolveFields() {
	for i, n := range w.fieldNodes {
		f := &schemas.FieldDescriptor{
			OpID:             fmt.Sprintf("__%d", i),
			ElementIndex:     i,
			Type:             fieldTypeOf(n),
			Viewable:         w.isViewable(n),
			ReadOnly:         hasAttr(n, "readonly"),
			Disabled:         hasAttr(n, "disabled"),
			Value:            attr(n, "value"),
			AutocompleteHint: attr(n, "autocomplete"),
			HTMLID:           attr(n, "id"),
			HTMLName:         attr(n, "name"),
			Placeholder:      attr(n, "placeholder"),
			DataStripe:       attr(n, "data-stripe"),
			DataRecurly:      attr(n, "data-recurly"),
		}

		if ml := attr(n, "maxlength"); ml != "" {
			if v, err := strconv.Atoi(ml); err == nil && v > 0 {
				f.MaxLength = v
			}
		}

		f.Form = w.owningForm(n)
		f.LabelTag = w.labelTagFor(n, f.HTMLID)
		f.LabelAria = w.ariaLabelFor(n)
		f.LabelLeft = precedingText(n)
		f.LabelTop = tableHeaderText(n)

		if n.DataAtom == atom.Select {
			f.SelectOptions = selectOptions(n)
		}

		w.details.Fields = append(w.details.Fields, f)
	}
}

func fieldTypeOf(n *html.Node) string {
	switch n.DataAtom {
	case atom.Select:
		if hasAttr(n, "multiple") {
			return schemas.FieldTypeOther
		}
		return schemas.FieldTypeSelect
	case atom.Textarea:
		return schemas.FieldTypeOther
	}
	t := strings.ToLower(attr(n, "type"))
	if t == "" {
		return schemas.FieldTypeText
	}
	if knownFieldTypes[t] {
		return t
	}
	return schemas.FieldTypeOther
}

// isViewable approximates render visibility structurally: hidden inputs,
// the hidden attribute, and inline display/visibility styles on the
// element or any ancestor mark a field as not viewable.
func (w *walker) isViewable(n *html.Node) bool {
	if strings.EqualFold(attr(n, "type"), "hidden") {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if hasAttr(p, "hidden") {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(attr(p, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

// owningForm resolves the field's form: an explicit form attribute wins,
// otherwise the nearest form ancestor.
func (w *walker) owningForm(n *html.Node) string {
	if formID := attr(n, "form"); formID != "" {
		if formNode, ok := w.byID[formID]; ok {
			if key, ok := w.formKeys[formNode]; ok {
				return key
			}
		}
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if key, ok := w.formKeys[p]; ok {
			return key
		}
	}
	return ""
}

// labelTagFor joins any label[for=id] texts with the text of a wrapping
// label element.
func (w *walker) labelTagFor(n *html.Node, id string) string {
	var parts []string
	if id != "" {
		parts = append(parts, w.labelsFor[id]...)
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Label {
			if text := collapseWhitespace(textContent(p)); text != "" {
				parts = append(parts, text)
			}
			break
		}
	}
	return strings.Join(parts, "")
}

// ariaLabelFor prefers an explicit aria-label and falls back to resolving
// aria-labelledby references.
func (w *walker) ariaLabelFor(n *html.Node) string {
	if label := attr(n, "aria-label"); label != "" {
		return label
	}
	refs := strings.Fields(attr(n, "aria-labelledby"))
	var parts []string
	for _, ref := range refs {
		if target, ok := w.byID[ref]; ok {
			if text := collapseWhitespace(textContent(target)); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// precedingText walks backwards from the field through previous siblings
// (and up through parents) until it finds non-empty text or hits another
// form control, standing in for the extension's "label to the left"
// geometry heuristic.
func precedingText(n *html.Node) string {
	for cur := n; cur != nil; {
		sib := cur.PrevSibling
		for sib != nil {
			if isFormControl(sib) || containsFormControl(sib) {
				return ""
			}
			if text := collapseWhitespace(textContent(sib)); text != "" {
				return text
			}
			sib = sib.PrevSibling
		}
		cur = cur.Parent
		if cur == nil || cur.Type == html.ElementNode &&
			(cur.DataAtom == atom.Form || cur.DataAtom == atom.Body || cur.DataAtom == atom.Table) {
			break
		}
	}
	return ""
}

// tableHeaderText returns the text of the cell directly above a field laid
// out in a table, the extension's "label on top" case for tabular forms.
func tableHeaderText(n *html.Node) string {
	td := ancestorAtom(n, atom.Td)
	if td == nil {
		return ""
	}
	tr := ancestorAtom(td, atom.Tr)
	if tr == nil {
		return ""
	}
	col := childElementIndex(tr, td)

	prevRow := tr.PrevSibling
	for prevRow != nil && !(prevRow.Type == html.ElementNode && prevRow.DataAtom == atom.Tr) {
		prevRow = prevRow.PrevSibling
	}
	if prevRow == nil {
		return ""
	}
	cell := childElementAt(prevRow, col)
	if cell == nil {
		return ""
	}
	return collapseWhitespace(textContent(cell))
}

func selectOptions(n *html.Node) []schemas.SelectOption {
	var opts []schemas.SelectOption
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Option {
				text := collapseWhitespace(textContent(c))
				value := text
				for _, a := range c.Attr {
					if a.Key == "value" {
						value = a.Val
					}
				}
				opts = append(opts, schemas.SelectOption{Value: value, Text: text})
				continue
			}
			visit(c.FirstChild)
		}
	}
	visit(n.FirstChild)
	return opts
}

// -- small DOM helpers --

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func isFormControl(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Input, atom.Select, atom.Textarea:
		return true
	}
	return false
}

func containsFormControl(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isFormControl(c) || containsFormControl(c) {
			return true
		}
	}
	return false
}

func ancestorAtom(n *html.Node, a atom.Atom) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == a {
			return p
		}
	}
	return nil
}

func childElementIndex(parent, child *html.Node) int {
	idx := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == child {
			return idx
		}
		if c.Type == html.ElementNode {
			idx++
		}
	}
	return -1
}

func childElementAt(parent *html.Node, idx int) *html.Node {
	i := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if i == idx {
			return c
		}
		i++
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			} else {
				visit(c.FirstChild)
			}
		}
	}
	visit(n.FirstChild)
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
