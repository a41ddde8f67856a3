package schemas

// -- Page Inventory Schemas --

// Field control types as reported by the page collector. These mirror the
// DOM input type attribute, with "select-one" covering single-select
// dropdowns and unknown controls normalized to "other" upstream.
const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeTel      = "tel"
	FieldTypePassword = "password"
	FieldTypeSelect   = "select-one"
	FieldTypeCheckbox = "checkbox"
	FieldTypeRadio    = "radio"
	FieldTypeHidden   = "hidden"
	FieldTypeFile     = "file"
	FieldTypeButton   = "button"
	FieldTypeImage    = "image"
	FieldTypeReset    = "reset"
	FieldTypeSearch   = "search"
	FieldTypeOther    = "other"
)

// SelectOption is a single option of a select-one field: its native value
// attribute and the text displayed to the user.
type SelectOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// FieldDescriptor describes one fillable control collected from a page, in
// document order. OpID is the stable address generated fill operations use
// to target the field during execution.
type FieldDescriptor struct {
	OpID         string `json:"opid"`
	ElementIndex int    `json:"elementIndex"`
	Type         string `json:"type"`
	// Form is the key of the owning form in PageDetails.Forms, or empty
	// when the control sits outside any form.
	Form      string `json:"form,omitempty"`
	Viewable  bool   `json:"viewable"`
	ReadOnly  bool   `json:"readonly"`
	Disabled  bool   `json:"disabled"`
	Value     string `json:"value,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	// AutocompleteHint carries the autocomplete attribute verbatim
	// (e.g. "new-password", "cc-exp").
	AutocompleteHint string `json:"autocompleteHint,omitempty"`

	// Identifying attribute bag. Each entry is optional; matching walks
	// these through an explicit ordered accessor list, never reflection.
	HTMLID      string `json:"htmlId,omitempty"`
	HTMLName    string `json:"htmlName,omitempty"`
	LabelTag    string `json:"labelTag,omitempty"`
	LabelAria   string `json:"labelAria,omitempty"`
	LabelLeft   string `json:"labelLeft,omitempty"`
	LabelTop    string `json:"labelTop,omitempty"`
	LabelRight  string `json:"labelRight,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	// Vendor payment-widget hints.
	DataStripe  string `json:"dataStripe,omitempty"`
	DataRecurly string `json:"dataRecurly,omitempty"`

	// SelectOptions is populated for select-one fields only.
	SelectOptions []SelectOption `json:"selectOptions,omitempty"`
}

// FormDescriptor describes a form element found on the page.
type FormDescriptor struct {
	OpID       string `json:"opid"`
	HTMLID     string `json:"htmlId,omitempty"`
	HTMLName   string `json:"htmlName,omitempty"`
	HTMLAction string `json:"htmlAction,omitempty"`
	HTMLMethod string `json:"htmlMethod,omitempty"`
}

// PageDetails is the field inventory of a single frame/document. It is an
// immutable input produced once per autofill attempt; fill scripts generated
// from it are scoped to DocumentID.
type PageDetails struct {
	DocumentID string                    `json:"documentId"`
	URL        string                    `json:"url,omitempty"`
	Title      string                    `json:"title,omitempty"`
	Forms      map[string]FormDescriptor `json:"forms"`
	Fields     []*FieldDescriptor        `json:"fields"`
}

// TabRef identifies the tab a frame inventory was collected from. The
// orchestrator compares it against the active tab before dispatching a
// script, so a page that navigated in between never receives a blind fill.
type TabRef struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// FramePageDetails wraps one frame's inventory together with its origin.
type FramePageDetails struct {
	Tab     TabRef       `json:"tab"`
	FrameID int64        `json:"frameId"`
	Details *PageDetails `json:"details"`
}
