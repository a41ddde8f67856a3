// Package executor replays a generated fill script against a live page
// over the Chrome DevTools Protocol. It is the in-process stand-in for the
// extension's content-script executor and sits entirely outside the
// generation core: scripts are data by the time they arrive here.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// Executor applies fill scripts within an existing chromedp context.
type Executor struct {
	log *zap.Logger
}

// New creates an Executor.
func New(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{log: logger.Named("executor")}
}

// ExecuteScript replays every operation of the script in order, pausing
// DelayBetweenOperationsMs between operations. When expectedURL is
// non-empty the current location must still match it before anything runs;
// a page that navigated away never receives the script.
func (e *Executor) ExecuteScript(ctx context.Context, script *schemas.FillScript, expectedURL string) error {
	if script == nil || len(script.Script) == 0 {
		return nil
	}

	if expectedURL != "" {
		var current string
		if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
			return fmt.Errorf("failed to read page location: %w", err)
		}
		if current != expectedURL {
			return fmt.Errorf("page navigated away: expected %q, at %q", expectedURL, current)
		}
	}

	delay := time.Duration(script.Properties.DelayBetweenOperationsMs) * time.Millisecond

	for i, op := range script.Script {
		idx, err := opidIndex(op.OpID)
		if err != nil {
			return err
		}

		expr, err := operationExpression(op, idx)
		if err != nil {
			return err
		}

		if err := chromedp.Run(ctx, evaluateBool(expr)); err != nil {
			return fmt.Errorf("operation %d (%s on %s) failed: %w", i, op.Action, op.OpID, err)
		}
		e.log.Debug("executed fill operation",
			zap.Int("index", i),
			zap.String("action", string(op.Action)),
			zap.String("opid", op.OpID))

		if delay > 0 && i < len(script.Script)-1 {
			if err := chromedp.Run(ctx, chromedp.Sleep(delay)); err != nil {
				return err
			}
		}
	}
	return nil
}

// opidIndex recovers the document-order field index from a collector opid
// of the form "__N".
func opidIndex(opid string) (int, error) {
	raw := strings.TrimPrefix(opid, "__")
	if raw == opid {
		return 0, fmt.Errorf("unrecognized opid format: %q", opid)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("unrecognized opid format: %q", opid)
	}
	return idx, nil
}

// operationExpression builds the JS snippet performing one operation on the
// Nth form control of the document.
func operationExpression(op schemas.FillAction, idx int) (string, error) {
	target := fmt.Sprintf("document.querySelectorAll('input,select,textarea')[%d]", idx)

	switch op.Action {
	case schemas.ActionClick:
		return fmt.Sprintf(`(function(){var el=%s;if(!el)return false;el.click();return true;})()`, target), nil
	case schemas.ActionFocus:
		return fmt.Sprintf(`(function(){var el=%s;if(!el)return false;el.focus();return true;})()`, target), nil
	case schemas.ActionFill:
		// JSON-encode the value so it arrives as a safe JS string literal.
		encoded, err := json.Marshal(op.Value)
		if err != nil {
			return "", fmt.Errorf("failed to encode fill value: %w", err)
		}
		return fmt.Sprintf(
			`(function(){var el=%s;if(!el)return false;el.value=%s;`+
				`el.dispatchEvent(new Event('input',{bubbles:true}));`+
				`el.dispatchEvent(new Event('change',{bubbles:true}));return true;})()`,
			target, encoded), nil
	default:
		return "", fmt.Errorf("unknown fill action %q", op.Action)
	}
}

// evaluateBool runs an expression and fails when it reports false, meaning
// the addressed element no longer exists.
func evaluateBool(expr string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		res, exc, err := runtime.Evaluate(expr).WithReturnByValue(true).Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("page script error: %s", exc.Text)
		}
		if res == nil || string(res.Value) != "true" {
			return fmt.Errorf("target element not found")
		}
		return nil
	})
}
