package cmd

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/autofill"
	"github.com/xkilldash9x/formfill-cli/internal/collect"
	"github.com/xkilldash9x/formfill-cli/internal/config"
	"github.com/xkilldash9x/formfill-cli/internal/executor"
	"github.com/xkilldash9x/formfill-cli/internal/observability"
	"github.com/xkilldash9x/formfill-cli/internal/store"
)

// liveTab reports the browser's current location as the active tab.
type liveTab struct {
	browserCtx context.Context
}

func (l *liveTab) ActiveTab(ctx context.Context) (schemas.TabRef, error) {
	var url string
	if err := chromedp.Run(l.browserCtx, chromedp.Location(&url)); err != nil {
		return schemas.TabRef{}, fmt.Errorf("failed to read page location: %w", err)
	}
	return schemas.TabRef{ID: 1, URL: url}, nil
}

// fileVault serves a single decrypted cipher loaded from disk. Cipher
// rotation and launch history collapse onto that one record.
type fileVault struct {
	cipher *schemas.CipherView
}

func (v *fileVault) NextCipherForURL(ctx context.Context, url string) (*schemas.CipherView, error) {
	return v.cipher, nil
}

func (v *fileVault) LastLaunchedForURL(ctx context.Context, url string) (*schemas.CipherView, error) {
	return nil, nil
}

func (v *fileVault) LastUsedForURL(ctx context.Context, url string) (*schemas.CipherView, error) {
	return v.cipher, nil
}

func (v *fileVault) CanAccessPremium(ctx context.Context) (bool, error) {
	return false, nil
}

// cdpDispatcher replays generated scripts through the CDP executor,
// re-checking the tab URL so a page that navigated away is never filled.
type cdpDispatcher struct {
	browserCtx context.Context
	exec       *executor.Executor
}

func (d *cdpDispatcher) SendFillScript(ctx context.Context, tab schemas.TabRef, frameID int64, script *schemas.FillScript) error {
	return d.exec.ExecuteScript(d.browserCtx, script, tab.URL)
}

// newAutofillService is the composition root for orchestrated fills: the
// engine is tuned from the engine config section, usage/event persistence
// attaches when the database section is enabled, and the debounce interval
// comes from config. The returned cleanup releases the database pool.
func newAutofillService(ctx context.Context, cfg *config.Config, logger *zap.Logger, tabs autofill.TabSource, vault autofill.VaultReader, dispatcher autofill.ScriptDispatcher) (*autofill.Service, func(), error) {
	engine := autofill.NewEngine(nil, logger)
	engine.SetDefaultDelayMs(cfg.Engine.DefaultDelayMs)
	for host, delay := range cfg.Engine.OperationDelays {
		engine.SetOperationDelayForHost(host, delay)
	}

	cleanup := func() {}
	var usage autofill.UsageRecorder
	var events autofill.EventSink
	if cfg.Database.Enabled {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open usage database: %w", err)
		}
		st, err := store.New(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := st.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		usage, events = st, st
		cleanup = pool.Close
	}

	svc := autofill.NewService(engine, tabs, vault, nil, usage, events, dispatcher, logger, autofill.ServiceOptions{
		DebounceInterval: cfg.Engine.DebounceInterval,
	})
	return svc, cleanup, nil
}

// newAutofillCmd creates the `autofill` command, which opens a page in a
// browser, collects its field inventory and fills it in place.
func newAutofillCmd() *cobra.Command {
	var (
		cipherFile string
		pageURL    string
		trigger    bool
	)

	autofillCmd := &cobra.Command{
		Use:   "autofill",
		Short: "Fills a live page with a vault item",
		Long: `Opens the page in a browser, collects its field inventory and fills it in
place with the vault item. Usage bookkeeping is recorded when a database is
configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			cipher, err := readCipher(cipherFile)
			if err != nil {
				return err
			}

			browserCtx, cancel := launchBrowser(cmd.Context(), cfg)
			defer cancel()

			navCtx, cancelNav := context.WithTimeout(browserCtx, cfg.Browser.NavigationTimeout)
			defer cancelNav()
			if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
				return fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
			}

			tabs := &liveTab{browserCtx: browserCtx}
			tab, err := tabs.ActiveTab(cmd.Context())
			if err != nil {
				return err
			}

			var markup string
			if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &markup)); err != nil {
				return fmt.Errorf("failed to capture page markup: %w", err)
			}
			details, err := collect.CollectString(markup, tab.URL)
			if err != nil {
				return err
			}
			frames := []schemas.FramePageDetails{{Tab: tab, FrameID: 0, Details: details}}

			dispatcher := &cdpDispatcher{browserCtx: browserCtx, exec: executor.New(logger)}
			svc, cleanup, err := newAutofillService(cmd.Context(), cfg, logger, tabs, &fileVault{cipher: cipher}, dispatcher)
			if err != nil {
				return err
			}
			defer cleanup()

			totpCode, err := svc.AutofillActiveTab(cmd.Context(), frames, !trigger)
			if err != nil {
				return err
			}
			if totpCode != "" {
				cmd.Println(totpCode)
			}
			logger.Info("Page filled", zap.String("url", tab.URL))
			return nil
		},
	}

	autofillCmd.Flags().StringVar(&cipherFile, "cipher", "", "vault item JSON file")
	autofillCmd.Flags().StringVarP(&pageURL, "url", "u", "", "URL of the page to fill")
	autofillCmd.Flags().BoolVar(&trigger, "trigger", false, "behave like a page-load trigger instead of an explicit command")
	_ = autofillCmd.MarkFlagRequired("cipher")
	_ = autofillCmd.MarkFlagRequired("url")

	return autofillCmd
}
