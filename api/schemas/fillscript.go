package schemas

// -- Fill Script Schemas --

// FillActionType enumerates the primitive operations a fill script may
// instruct the page executor to perform.
type FillActionType string

const (
	ActionClick FillActionType = "click_on_opid"
	ActionFocus FillActionType = "focus_by_opid"
	ActionFill  FillActionType = "fill_by_opid"
)

// FillAction is a single scripted operation targeting one field by opid.
// Value is only meaningful for ActionFill.
type FillAction struct {
	Action FillActionType `json:"action"`
	OpID   string         `json:"opid"`
	Value  string         `json:"value,omitempty"`
}

// ScriptProperties carries execution hints consumed by the page executor,
// not by script generation.
type ScriptProperties struct {
	// DelayBetweenOperationsMs is the pause inserted between consecutive
	// operations during replay.
	DelayBetweenOperationsMs int `json:"delay_between_operations,omitempty"`
}

// FillScript is the ordered operation list generated for exactly one
// document. Order within Script is execution order, and no operation may
// target a field absent from the originating PageDetails.
type FillScript struct {
	DocumentID string           `json:"documentId"`
	Script     []FillAction     `json:"script"`
	Properties ScriptProperties `json:"properties"`
}

// Append adds an action to the script, preserving order.
func (s *FillScript) Append(action FillActionType, opid, value string) {
	s.Script = append(s.Script, FillAction{Action: action, OpID: opid, Value: value})
}
