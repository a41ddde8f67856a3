package autofill

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// Sentinel errors surfaced to callers as a single generic autofill failure.
var (
	// ErrNothingToAutofill means there was no tab, cipher or page inventory
	// to work with.
	ErrNothingToAutofill = errors.New("nothing to auto-fill")
	// ErrDidNotAutofill means no frame on the tab produced a fill script.
	ErrDidNotAutofill = errors.New("did not auto-fill")
	// ErrNoActiveTab means the tab source could not produce a current tab.
	ErrNoActiveTab = errors.New("no tab found")
	// ErrThrottled means an attempt arrived inside the debounce window of
	// the previous one.
	ErrThrottled = errors.New("autofill attempt throttled")
)

// lastLaunchedWindow is how recently a cipher must have been launched for
// the page-load trigger to prefer it over the last-used cipher.
const lastLaunchedWindow = 30 * time.Second

// TabSource reports the currently focused tab.
type TabSource interface {
	ActiveTab(ctx context.Context) (schemas.TabRef, error)
}

// VaultReader selects decrypted ciphers for a URL and answers entitlement
// questions. Decryption and matching live entirely behind this interface.
type VaultReader interface {
	NextCipherForURL(ctx context.Context, url string) (*schemas.CipherView, error)
	LastLaunchedForURL(ctx context.Context, url string) (*schemas.CipherView, error)
	LastUsedForURL(ctx context.Context, url string) (*schemas.CipherView, error)
	CanAccessPremium(ctx context.Context) (bool, error)
}

// TotpProvider computes TOTP codes and knows whether auto-copy is enabled.
type TotpProvider interface {
	IsAutoCopyEnabled(ctx context.Context) (bool, error)
	GetCode(ctx context.Context, secret string) (string, error)
}

// UsageRecorder persists cipher usage bookkeeping. Calls are best effort;
// failures are logged, never propagated.
type UsageRecorder interface {
	UpdateLastUsed(ctx context.Context, cipherID string) error
	UpdateLastUsedIndex(ctx context.Context, url string) error
}

// EventSink records the client-autofilled analytics event.
type EventSink interface {
	CollectAutofill(ctx context.Context, cipherID string) error
}

// ScriptDispatcher hands a generated fill script to the frame's executor.
type ScriptDispatcher interface {
	SendFillScript(ctx context.Context, tab schemas.TabRef, frameID int64, script *schemas.FillScript) error
}

// Service drives fill-script generation across every frame of the active
// tab and owns the surrounding bookkeeping: stale-frame guarding, usage
// recording, the autofill event, and TOTP auto-copy eligibility.
type Service struct {
	engine     *Engine
	tabs       TabSource
	vault      VaultReader
	totp       TotpProvider
	usage      UsageRecorder
	events     EventSink
	dispatcher ScriptDispatcher
	log        *zap.Logger
	// limiter debounces rapid double-invocations (e.g. a held keyboard
	// shortcut); generation itself never deduplicates.
	limiter *rate.Limiter
}

// ServiceOptions configures optional Service behavior.
type ServiceOptions struct {
	// DebounceInterval is the minimum spacing between autofill attempts.
	// Zero disables debouncing.
	DebounceInterval time.Duration
}

// NewService wires the orchestrator. The engine must be non-nil; the
// collaborators may be nil in tests exercising only script generation.
func NewService(engine *Engine, tabs TabSource, vault VaultReader, totp TotpProvider, usage UsageRecorder, events EventSink, dispatcher ScriptDispatcher, logger *zap.Logger, opts ServiceOptions) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if opts.DebounceInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.DebounceInterval), 1)
	}
	return &Service{
		engine:     engine,
		tabs:       tabs,
		vault:      vault,
		totp:       totp,
		usage:      usage,
		events:     events,
		dispatcher: dispatcher,
		log:        logger.Named("autofill"),
		limiter:    limiter,
	}
}

// Engine exposes the underlying script generator.
func (s *Service) Engine() *Engine { return s.engine }

// AutofillRequest is one autofill attempt: a cipher plus the per-frame page
// inventories collected from the tab, under the caller's policy flags.
type AutofillRequest struct {
	Cipher      *schemas.CipherView
	PageDetails []schemas.FramePageDetails

	SkipLastUsed         bool
	SkipUsernameOnlyFill bool
	OnlyEmptyFields      bool
	OnlyVisibleFields    bool
	FillNewPassword      bool
}

// PerformAutofill generates and dispatches a fill script for every frame of
// the active tab that still matches it, and returns a TOTP code when the
// cipher is eligible for auto-copy. Script generation and dispatch are
// all-or-nothing per frame; a frame that yields no script simply
// contributes nothing, and only a fully empty tab escalates to
// ErrDidNotAutofill.
func (s *Service) PerformAutofill(ctx context.Context, req AutofillRequest) (string, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		return "", ErrThrottled
	}

	tab, err := s.tabs.ActiveTab(ctx)
	if err != nil {
		return "", ErrNoActiveTab
	}
	if req.Cipher == nil || len(req.PageDetails) == 0 {
		return "", ErrNothingToAutofill
	}

	canAccessPremium, err := s.vault.CanAccessPremium(ctx)
	if err != nil {
		s.log.Warn("premium entitlement check failed", zap.Error(err))
	}

	didAutofill := false
	totpEligible := false
	for _, frame := range req.PageDetails {
		// Make sure we're still on the correct tab. A frame collected
		// before a navigation is silently skipped, not reported.
		if frame.Tab.ID != tab.ID || frame.Tab.URL != tab.URL {
			s.log.Debug("skipping stale frame",
				zap.Int64("frameId", frame.FrameID),
				zap.String("frameUrl", frame.Tab.URL))
			continue
		}

		script := s.engine.GenerateFillScript(frame.Details, req.Cipher, FillOptions{
			SkipUsernameOnlyFill: req.SkipUsernameOnlyFill,
			OnlyEmptyFields:      req.OnlyEmptyFields,
			OnlyVisibleFields:    req.OnlyVisibleFields,
			FillNewPassword:      req.FillNewPassword,
		})
		if script == nil || len(script.Script) == 0 {
			continue
		}

		didAutofill = true
		if !req.SkipLastUsed && s.usage != nil {
			// Best effort; a bookkeeping failure must not block the fill.
			if err := s.usage.UpdateLastUsed(ctx, req.Cipher.ID); err != nil {
				s.log.Warn("failed to update last used", zap.Error(err))
			}
		}

		if err := s.dispatcher.SendFillScript(ctx, tab, frame.FrameID, script); err != nil {
			return "", err
		}

		if req.Cipher.Type == schemas.CipherTypeLogin && !totpEligible &&
			req.Cipher.Login != nil && req.Cipher.Login.Totp != "" &&
			(canAccessPremium || req.Cipher.OrganizationUseTotp) {
			totpEligible = true
		}
	}

	if !didAutofill {
		return "", ErrDidNotAutofill
	}

	if s.events != nil {
		if err := s.events.CollectAutofill(ctx, req.Cipher.ID); err != nil {
			s.log.Warn("failed to record autofill event", zap.Error(err))
		}
	}

	if totpEligible && s.totp != nil {
		enabled, err := s.totp.IsAutoCopyEnabled(ctx)
		if err != nil {
			s.log.Warn("totp auto-copy check failed", zap.Error(err))
			return "", nil
		}
		if enabled {
			code, err := s.totp.GetCode(ctx, req.Cipher.Login.Totp)
			if err != nil {
				s.log.Warn("totp code generation failed", zap.Error(err))
				return "", nil
			}
			return code, nil
		}
	}
	return "", nil
}

// AutofillActiveTab is the page-load/keyboard-shortcut entry point. A
// command fill (fromCommand) cycles through matching ciphers under a loose
// policy; an automatic trigger reuses the last launched or last used cipher
// under a strict one, and refuses ciphers that require reprompt.
func (s *Service) AutofillActiveTab(ctx context.Context, pageDetails []schemas.FramePageDetails, fromCommand bool) (string, error) {
	tab, err := s.tabs.ActiveTab(ctx)
	if err != nil || tab.URL == "" {
		return "", ErrNoActiveTab
	}

	var cipher *schemas.CipherView
	if fromCommand {
		cipher, err = s.vault.NextCipherForURL(ctx, tab.URL)
		if err != nil {
			return "", err
		}
	} else {
		lastLaunched, err := s.vault.LastLaunchedForURL(ctx, tab.URL)
		if err != nil {
			return "", err
		}
		if lastLaunched != nil && lastLaunched.LocalData != nil &&
			time.Since(lastLaunched.LocalData.LastLaunched) < lastLaunchedWindow {
			cipher = lastLaunched
		} else {
			cipher, err = s.vault.LastUsedForURL(ctx, tab.URL)
			if err != nil {
				return "", err
			}
		}
		if cipher == nil {
			return "", nil
		}
	}
	if cipher == nil {
		return "", nil
	}

	if cipher.Reprompt != schemas.RepromptNone {
		// Reprompt enforcement lives with the caller; auto-triggering on a
		// protected cipher is never allowed.
		return "", nil
	}

	totpCode, err := s.PerformAutofill(ctx, AutofillRequest{
		Cipher:               cipher,
		PageDetails:          pageDetails,
		SkipLastUsed:         !fromCommand,
		SkipUsernameOnlyFill: !fromCommand,
		OnlyEmptyFields:      !fromCommand,
		OnlyVisibleFields:    !fromCommand,
		FillNewPassword:      fromCommand,
	})
	if err != nil {
		return "", err
	}

	if fromCommand && s.usage != nil {
		// The fill succeeded, advance the cipher rotation for this URL.
		if err := s.usage.UpdateLastUsedIndex(ctx, tab.URL); err != nil {
			s.log.Warn("failed to update last used index", zap.Error(err))
		}
	}
	return totpCode, nil
}
