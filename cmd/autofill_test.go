package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/autofill"
	"github.com/xkilldash9x/formfill-cli/internal/config"
)

type staticTabs struct {
	tab schemas.TabRef
}

func (s *staticTabs) ActiveTab(ctx context.Context) (schemas.TabRef, error) {
	return s.tab, nil
}

type capturingDispatcher struct {
	scripts []*schemas.FillScript
}

func (d *capturingDispatcher) SendFillScript(ctx context.Context, tab schemas.TabRef, frameID int64, script *schemas.FillScript) error {
	d.scripts = append(d.scripts, script)
	return nil
}

func loginFrames(tab schemas.TabRef) []schemas.FramePageDetails {
	details := &schemas.PageDetails{
		DocumentID: "doc-1",
		URL:        tab.URL,
		Forms:      map[string]schemas.FormDescriptor{"__form__0": {OpID: "__form__0"}},
		Fields: []*schemas.FieldDescriptor{
			{OpID: "__0", ElementIndex: 0, Type: schemas.FieldTypeEmail, Form: "__form__0", Viewable: true},
			{OpID: "__1", ElementIndex: 1, Type: schemas.FieldTypePassword, Form: "__form__0", Viewable: true},
		},
	}
	return []schemas.FramePageDetails{{Tab: tab, Details: details}}
}

func TestNewAutofillServiceWiresEngineAndDebounce(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Engine.DefaultDelayMs = 35
	cfg.Engine.OperationDelays = map[string]int{"slowsite.example": 150}
	cfg.Engine.DebounceInterval = time.Minute

	tab := schemas.TabRef{ID: 1, URL: "https://example.com/login"}
	cipher := &schemas.CipherView{
		ID:    "cipher-1",
		Type:  schemas.CipherTypeLogin,
		Login: &schemas.LoginView{Username: "user@example.com", Password: "hunter2"},
	}
	dispatcher := &capturingDispatcher{}

	svc, cleanup, err := newAutofillService(context.Background(), cfg, nil, &staticTabs{tab: tab}, &fileVault{cipher: cipher}, dispatcher)
	require.NoError(t, err)
	defer cleanup()

	_, err = svc.AutofillActiveTab(context.Background(), loginFrames(tab), true)
	require.NoError(t, err)
	require.Len(t, dispatcher.scripts, 1)
	assert.Equal(t, 35, dispatcher.scripts[0].Properties.DelayBetweenOperationsMs,
		"engine picks up the configured default delay")

	slowTab := schemas.TabRef{ID: 1, URL: "https://login.slowsite.example/session"}
	svcSlow, cleanupSlow, err := newAutofillService(context.Background(), cfg, nil, &staticTabs{tab: slowTab}, &fileVault{cipher: cipher}, dispatcher)
	require.NoError(t, err)
	defer cleanupSlow()

	_, err = svcSlow.AutofillActiveTab(context.Background(), loginFrames(slowTab), true)
	require.NoError(t, err)
	require.Len(t, dispatcher.scripts, 2)
	assert.Equal(t, 150, dispatcher.scripts[1].Properties.DelayBetweenOperationsMs,
		"per-host delay overrides flow from config into the engine")

	_, err = svc.AutofillActiveTab(context.Background(), loginFrames(tab), true)
	assert.ErrorIs(t, err, autofill.ErrThrottled,
		"configured debounce interval reaches the service limiter")
}

func TestNewAutofillServiceWithoutDatabase(t *testing.T) {
	cfg := config.NewDefaultConfig()
	require.False(t, cfg.Database.Enabled)

	tab := schemas.TabRef{ID: 1, URL: "https://example.com/login"}
	cipher := &schemas.CipherView{
		ID:    "cipher-1",
		Type:  schemas.CipherTypeLogin,
		Login: &schemas.LoginView{Password: "hunter2"},
	}
	dispatcher := &capturingDispatcher{}

	svc, cleanup, err := newAutofillService(context.Background(), cfg, nil, &staticTabs{tab: tab}, &fileVault{cipher: cipher}, dispatcher)
	require.NoError(t, err)
	defer cleanup()

	// Usage recording is best effort; without a store the fill still runs.
	_, err = svc.AutofillActiveTab(context.Background(), loginFrames(tab), true)
	require.NoError(t, err)
	assert.Len(t, dispatcher.scripts, 1)
}

func TestFileVaultServesSingleCipher(t *testing.T) {
	cipher := &schemas.CipherView{ID: "cipher-1", Type: schemas.CipherTypeLogin}
	vault := &fileVault{cipher: cipher}
	ctx := context.Background()

	next, err := vault.NextCipherForURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Same(t, cipher, next)

	launched, err := vault.LastLaunchedForURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, launched, "a file-backed vault has no launch history")

	used, err := vault.LastUsedForURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Same(t, cipher, used)

	premium, err := vault.CanAccessPremium(ctx)
	require.NoError(t, err)
	assert.False(t, premium)
}
