package autofill

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// DefaultOperationDelayMs is the pause the page executor inserts between
// consecutive fill operations unless a per-host override applies.
const DefaultOperationDelayMs = 20

// Engine generates fill scripts from page inventories and decrypted
// credential records. It is stateless across invocations: every call works
// on its own accumulator, so identical inputs always yield identical
// scripts.
type Engine struct {
	tables *Tables
	log    *zap.Logger
	// delayMs is the default inter-operation delay stamped on scripts.
	delayMs int
	// hostDelays is the engine's own copy of the per-host delay overrides,
	// so callers can extend it without mutating the shared tables.
	hostDelays map[string]int
}

// NewEngine builds an engine around the given matching tables. A nil
// tables argument selects the built-in defaults.
func NewEngine(tables *Tables, logger *zap.Logger) *Engine {
	if tables == nil {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	hostDelays := make(map[string]int, len(tables.OperationDelaysByHost))
	for host, delay := range tables.OperationDelaysByHost {
		hostDelays[host] = delay
	}
	return &Engine{
		tables:     tables,
		log:        logger.Named("autofill"),
		delayMs:    DefaultOperationDelayMs,
		hostDelays: hostDelays,
	}
}

// Tables exposes the engine's immutable matching data.
func (e *Engine) Tables() *Tables { return e.tables }

// SetDefaultDelayMs overrides the default inter-operation delay.
func (e *Engine) SetDefaultDelayMs(ms int) {
	if ms > 0 {
		e.delayMs = ms
	}
}

// SetOperationDelayForHost overrides the inter-operation delay for one host
// and its subdomains. The shared tables are left untouched.
func (e *Engine) SetOperationDelayForHost(host string, ms int) {
	if host != "" && ms > 0 {
		e.hostDelays[host] = ms
	}
}

// FillOptions carries the caller's fill policy. Command/auto-triggered
// fills run strict (only empty, only visible, no username-only fill);
// user-initiated fills run loose.
type FillOptions struct {
	SkipUsernameOnlyFill bool
	OnlyEmptyFields      bool
	OnlyVisibleFields    bool
	FillNewPassword      bool
}

// filledSet is the per-invocation accumulator of claimed fields, keyed by
// opid but iterated in claim order. Threading it explicitly through every
// generation step keeps the generator pure and enforces the at-most-once
// fill invariant in a single place.
type filledSet struct {
	byOpID map[string]*schemas.FieldDescriptor
	order  []*schemas.FieldDescriptor
}

func newFilledSet() *filledSet {
	return &filledSet{byOpID: make(map[string]*schemas.FieldDescriptor)}
}

func (s *filledSet) contains(opid string) bool {
	_, ok := s.byOpID[opid]
	return ok
}

// claim records the field as filled. It returns false when the field was
// already claimed, in which case the caller must not emit operations for it.
func (s *filledSet) claim(f *schemas.FieldDescriptor) bool {
	if s.contains(f.OpID) {
		return false
	}
	s.byOpID[f.OpID] = f
	s.order = append(s.order, f)
	return true
}

// GenerateFillScript produces the ordered fill script for one document, or
// nil when the cipher kind has nothing to contribute to this page. Custom
// cipher fields are bound first, then kind-specific generation runs, then
// the trailing focus directive is appended.
func (e *Engine) GenerateFillScript(pd *schemas.PageDetails, cipher *schemas.CipherView, opts FillOptions) *schemas.FillScript {
	if pd == nil || cipher == nil {
		return nil
	}

	script := &schemas.FillScript{DocumentID: pd.DocumentID}
	filled := newFilledSet()

	e.fillCustomFields(script, pd, cipher, filled)

	switch cipher.Type {
	case schemas.CipherTypeLogin:
		script = e.generateLoginFillScript(script, pd, cipher, filled, opts)
	case schemas.CipherTypeCard:
		script = e.generateCardFillScript(script, pd, cipher, filled)
	case schemas.CipherTypeIdentity:
		script = e.generateIdentityFillScript(script, pd, cipher, filled)
	case schemas.CipherTypeSecureNote, schemas.CipherTypeSSHKey:
		// Nothing fillable in these kinds.
		return nil
	default:
		return nil
	}

	if script != nil {
		script.Properties.DelayBetweenOperationsMs = e.operationDelayFor(pd.URL)
	}
	return script
}

// fillCustomFields binds user-defined cipher fields to page fields by
// name. Only viewable, unclaimed fields are considered. An unset boolean
// field fills as the literal text "false".
func (e *Engine) fillCustomFields(script *schemas.FillScript, pd *schemas.PageDetails, cipher *schemas.CipherView, filled *filledSet) {
	if len(cipher.Fields) == 0 {
		return
	}

	names := make([]string, 0, len(cipher.Fields))
	for _, cf := range cipher.Fields {
		if hasValue(cf.Name) {
			names = append(names, strings.ToLower(cf.Name))
		}
	}

	for _, f := range pd.Fields {
		if filled.contains(f.OpID) || !f.Viewable {
			continue
		}
		idx := findMatchingFieldIndex(f, names)
		if idx < 0 {
			continue
		}
		cf := cipher.Fields[idx]
		var val string
		switch {
		case cf.Value != nil:
			val = *cf.Value
		case cf.Type == schemas.CustomFieldBoolean:
			val = "false"
		}
		filled.claim(f)
		fillByOpID(script, f, val)
	}
}

// makeScriptAction emits a fill for the target when a value is present,
// resolving select options as needed.
func (e *Engine) makeScriptAction(script *schemas.FillScript, value string, field *schemas.FieldDescriptor, filled *filledSet) {
	if !hasValue(value) || field == nil {
		return
	}

	if field.Type == schemas.FieldTypeSelect && len(field.SelectOptions) > 0 {
		// Fill the matching option's native value, not the raw stored
		// string, so the executor can set the select directly.
		resolved, ok := resolveSelectValue(field, value)
		if !ok {
			return
		}
		value = resolved
	}

	if !filled.claim(field) {
		return
	}
	fillByOpID(script, field, value)
}

// resolveSelectValue matches value case-insensitively against each option's
// value and display text, returning the native value of the first match.
func resolveSelectValue(field *schemas.FieldDescriptor, value string) (string, bool) {
	for _, opt := range field.SelectOptions {
		if (hasValue(opt.Value) && strings.EqualFold(opt.Value, value)) ||
			(hasValue(opt.Text) && strings.EqualFold(opt.Text, value)) {
			return opt.Value, true
		}
	}
	return "", false
}

// fillByOpID appends the click/focus/fill triple addressing one field.
func fillByOpID(script *schemas.FillScript, field *schemas.FieldDescriptor, value string) {
	script.Append(schemas.ActionClick, field.OpID, "")
	script.Append(schemas.ActionFocus, field.OpID, "")
	script.Append(schemas.ActionFill, field.OpID, value)
}

// setFillScriptForFocus appends the trailing focus directive: the last
// viewable password field claimed wins, otherwise the last viewable field.
// Landing focus on the password field keeps blur-validating pages happy.
func setFillScriptForFocus(script *schemas.FillScript, filled *filledSet) *schemas.FillScript {
	var lastField, lastPasswordField *schemas.FieldDescriptor
	for _, f := range filled.order {
		if !f.Viewable {
			continue
		}
		lastField = f
		if f.Type == schemas.FieldTypePassword {
			lastPasswordField = f
		}
	}

	if lastPasswordField != nil {
		script.Append(schemas.ActionFocus, lastPasswordField.OpID, "")
	} else if lastField != nil {
		script.Append(schemas.ActionFocus, lastField.OpID, "")
	}
	return script
}

// operationDelayFor returns the inter-operation delay for the page's host,
// honoring per-host overrides for sites that drop fast event replays.
func (e *Engine) operationDelayFor(pageURL string) int {
	if pageURL == "" {
		return e.delayMs
	}
	host := hostOf(pageURL)
	for domain, delay := range e.hostDelays {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return delay
		}
	}
	return e.delayMs
}

func hostOf(pageURL string) string {
	s := pageURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}
