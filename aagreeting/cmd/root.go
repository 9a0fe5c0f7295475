package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jim-barber-he/aa-greeting/config"
	"github.com/jim-barber-he/aa-greeting/greeting"
	"github.com/jim-barber-he/aa-greeting/runlog"
	"github.com/jim-barber-he/aa-greeting/util"
	"github.com/jim-barber-he/aa-greeting/webex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootLong = heredoc.Doc(`
	Set the business hours or after hours greeting of one or more Webex Calling Auto Attendants.

	MENU is either 'business' or 'after_hours'.

	GREETING is either 'default' to go back to the system greeting, or the path of a .wav, .wma, or .3gp file.
	The file is uploaded once to the organisation's announcement repository and then set as a custom greeting on
	every Auto Attendant selected.

	Each AANAME selects Auto Attendants by name, in one of these forms:

	  NAME selects the Auto Attendants with exactly this name in any location.

	  LOCATION:NAME selects the Auto Attendant with exactly this name in the named location.

	  PATTERN selects every Auto Attendant whose whole name matches the regular expression, e.g. 'Recep.*' or '.*'.

	A NAME containing any of the characters .^$*+?()[]{}|\ is treated as a regular expression.
	The NAME in the LOCATION:NAME form can also be a regular expression.

	The access token is taken from --token, or the WEBEX_TOKEN environment variable.
	A .env file in the current directory is loaded first if there is one.
	Other flags can also be set through environment variables prefixed with AA_GREETING_, e.g. AA_GREETING_LOG_FILE.

	Every API call and its outcome is appended to the log file.
	A failure updating one Auto Attendant is reported and the others are still updated.
`)

var rootExample = heredoc.Doc(`
	# Put every Auto Attendant back to the default business hours greeting.
	aa-greeting business default '.*'

	# Set a custom after hours greeting on the Reception Auto Attendant in the Perth location.
	aa-greeting after_hours closed.wav Perth:Reception

	# Show what would change without changing anything.
	aa-greeting --dry-run business welcome.wav Reception 'Sales.*'
`)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "aa-greeting [flags] MENU GREETING AANAME...",
	Short:   "Set the greeting of Webex Auto Attendants",
	Long:    util.WrapTextToWidth(util.HelpWidth(), rootLong),
	Example: rootExample,
	Args:    cobra.MinimumNArgs(3),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return doRun(cmd.Context(), cmd, args)
	},
	SilenceErrors: true,
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return []string{greeting.MenuBusiness, greeting.MenuAfterHours}, cobra.ShellCompDirectiveNoFileComp
		case 1:
			completionHelp := cobra.AppendActiveHelp(nil, "'default' or an audio file")
			return completionHelp, cobra.ShellCompDirectiveDefault
		default:
			completionHelp := cobra.AppendActiveHelp(nil, "Auto Attendant NAME, LOCATION:NAME, or PATTERN")
			return completionHelp, cobra.ShellCompDirectiveNoFileComp
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	config.AddFlags(rootCmd.Flags())
}

// doRun updates the greeting.
// args[0] is the menu, args[1] the greeting, and the rest are Auto Attendant name specs.
func doRun(ctx context.Context, cmd *cobra.Command, args []string) error {
	// Arguments are checked before anything is logged or sent.
	menu, err := greeting.ParseMenu(args[0])
	if err != nil {
		return err
	}
	sel, err := greeting.ParseSelection(args[1])
	if err != nil {
		return err
	}
	specs, err := greeting.ParseSpecs(args[2:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, closeLog, err := runlog.New(runlog.Options{
		Path:    cfg.LogFile,
		Console: cmd.ErrOrStderr(),
		Debug:   cfg.Debug,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
		if err := closeLog(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}()

	logger.Debug("starting",
		zap.String("version", util.Version()),
		zap.String("menu", args[0]),
		zap.Stringer("greeting", sel),
		zap.Strings("specs", args[2:]),
		zap.Bool("dryRun", cfg.DryRun),
		zap.Bool("reuse", cfg.Reuse),
	)

	client := webex.NewClient(webex.Options{
		BaseURL:   cfg.APIURL,
		Token:     cfg.Token,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})

	updater := greeting.NewUpdater(client, logger, greeting.Options{DryRun: cfg.DryRun, Reuse: cfg.Reuse})
	report, err := updater.Run(ctx, greeting.Request{Menu: menu, Selection: sel, Specs: specs})
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}

	return writeReport(cmd.OutOrStdout(), logger, report)
}

// writeReport prints the summary table.
// Auto Attendants that failed to update are not an error for the run as a whole.
func writeReport(w io.Writer, logger *zap.Logger, report *greeting.Report) error {
	if err := report.Write(w); err != nil {
		return fmt.Errorf("%w: %w", errWriteReport, err)
	}

	if failed := report.Failed(); failed > 0 {
		logger.Warn("some auto attendants were not updated",
			zap.Int("failed", failed), zap.Int("total", len(report.Results)),
		)
	} else {
		logger.Info("done", zap.Int("total", len(report.Results)))
	}

	return nil
}
