package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/autofill"
	"github.com/xkilldash9x/formfill-cli/internal/collect"
	"github.com/xkilldash9x/formfill-cli/internal/config"
	"github.com/xkilldash9x/formfill-cli/internal/executor"
	"github.com/xkilldash9x/formfill-cli/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newFillCmd creates the `fill` command, which generates a fill script for a
// page inventory and a vault item, and can optionally replay it against a
// live browser.
func newFillCmd() *cobra.Command {
	var (
		detailsFile string
		htmlFile    string
		cipherFile  string
		pageURL     string
		output      string
		execute     bool

		onlyEmpty        bool
		onlyVisible      bool
		skipUsernameOnly bool
		fillNewPassword  bool
	)

	fillCmd := &cobra.Command{
		Use:   "fill",
		Short: "Generates a fill script for a page and a vault item",
		Long: `Matches a vault item against a page's field inventory and prints the
resulting fill script. The inventory comes either from a previously collected
JSON file (--details) or directly from an HTML document (--html).`,
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

			details, err := readPageDetails(detailsFile, htmlFile, pageURL)
			if err != nil {
				return err
			}

			engine := autofill.NewEngine(nil, logger)
			engine.SetDefaultDelayMs(cfg.Engine.DefaultDelayMs)
			for host, delay := range cfg.Engine.OperationDelays {
				engine.SetOperationDelayForHost(host, delay)
			}

			script := engine.GenerateFillScript(details, cipher, autofill.FillOptions{
				SkipUsernameOnlyFill: skipUsernameOnly,
				OnlyEmptyFields:      onlyEmpty,
				OnlyVisibleFields:    onlyVisible,
				FillNewPassword:      fillNewPassword,
			})
			if script == nil || len(script.Script) == 0 {
				return fmt.Errorf("no fillable fields matched the vault item")
			}

			encoded, err := json.MarshalIndent(script, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode fill script: %w", err)
			}
			if err := writeOutput(cmd, output, encoded); err != nil {
				return err
			}

			if !execute {
				return nil
			}
			if pageURL == "" {
				return fmt.Errorf("--url is required with --execute")
			}
			return executeLive(cmd, cfg, script, pageURL)
		},
	}

	fillCmd.Flags().StringVarP(&detailsFile, "details", "d", "", "page details JSON file (as produced by inspect)")
	fillCmd.Flags().StringVar(&htmlFile, "html", "", "HTML document to collect the inventory from")
	fillCmd.Flags().StringVar(&cipherFile, "cipher", "", "vault item JSON file")
	fillCmd.Flags().StringVarP(&pageURL, "url", "u", "", "URL of the page")
	fillCmd.Flags().StringVarP(&output, "output", "o", "", "write the fill script to a file instead of stdout")
	fillCmd.Flags().BoolVar(&execute, "execute", false, "replay the script against a live browser at --url")
	fillCmd.Flags().BoolVar(&onlyEmpty, "only-empty", false, "never overwrite fields that already have a value")
	fillCmd.Flags().BoolVar(&onlyVisible, "only-visible", false, "never fill hidden fields")
	fillCmd.Flags().BoolVar(&skipUsernameOnly, "skip-username-only", false, "suppress the username-only fallback fill")
	fillCmd.Flags().BoolVar(&fillNewPassword, "fill-new-password", false, "also fill new-password (registration) fields")
	_ = fillCmd.MarkFlagRequired("cipher")

	return fillCmd
}

func readCipher(path string) (*schemas.CipherView, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cipher file: %w", err)
	}
	var cipher schemas.CipherView
	if err := json.Unmarshal(raw, &cipher); err != nil {
		return nil, fmt.Errorf("failed to parse cipher file: %w", err)
	}
	return &cipher, nil
}

func readPageDetails(detailsFile, htmlFile, pageURL string) (*schemas.PageDetails, error) {
	switch {
	case detailsFile != "" && htmlFile != "":
		return nil, fmt.Errorf("--details and --html are mutually exclusive")
	case detailsFile != "":
		raw, err := os.ReadFile(detailsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read details file: %w", err)
		}
		var details schemas.PageDetails
		if err := json.Unmarshal(raw, &details); err != nil {
			return nil, fmt.Errorf("failed to parse details file: %w", err)
		}
		return &details, nil
	case htmlFile != "":
		f, err := os.Open(htmlFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open html file: %w", err)
		}
		defer f.Close()
		return collect.Collect(f, pageURL)
	default:
		return nil, fmt.Errorf("one of --details or --html is required")
	}
}

// launchBrowser opens a browser per the browser config section. The
// returned cancel tears down the browser and its allocator.
func launchBrowser(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Browser.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	for _, arg := range cfg.Browser.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// executeLive opens a browser, navigates to the page and replays the script.
func executeLive(cmd *cobra.Command, cfg *config.Config, script *schemas.FillScript, pageURL string) error {
	logger := observability.GetLogger()

	browserCtx, cancel := launchBrowser(cmd.Context(), cfg)
	defer cancel()

	navCtx, cancelNav := context.WithTimeout(browserCtx, cfg.Browser.NavigationTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}

	exec := executor.New(logger)
	if err := exec.ExecuteScript(browserCtx, script, ""); err != nil {
		return fmt.Errorf("failed to replay fill script: %w", err)
	}
	logger.Info("Fill script replayed successfully")
	return nil
}
