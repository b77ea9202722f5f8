package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pders01/fsearch/internal/config"
	"github.com/pders01/fsearch/internal/debuglog"
	"github.com/pders01/fsearch/internal/output"
	"github.com/pders01/fsearch/internal/search"
	"github.com/pders01/fsearch/internal/storage"
	"github.com/pders01/fsearch/internal/validation"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	noHistory  bool
}

// searchFlags hold the root command's search options.
type searchFlags struct {
	glob       string
	expression string
	mode       string
	output     string
	file       string
}

// app carries what PersistentPreRunE prepared for the chosen command.
type app struct {
	flags globalFlags
	cfg   *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var sf searchFlags

	rootCmd := &cobra.Command{
		Use:   "fsearch",
		Short: "Search file names, archives, text, JSON, PDF and feeds",
		Long: `fsearch expands a glob pattern and searches every matching path in one
of several modes: file names, zip entry names, text lines (literal or
regular expression), JSON-path selections and PDF text. The additional
feed-search mode matches the item titles of RSS, Atom and JSON feed files.

Results are streamed to the console, a CRLF-delimited file or an HTML report.`,
		Example: `  fsearch -g '**/*.zip' -m zip -s tb_
  fsearch -g 'logs/*.log' -m line-regex-search -s 'id=\d+' -o html -f report.html`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd, sf)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.flags.configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&a.flags.noHistory, "no-history", false, "Do not record this run in the history")

	modes := make([]string, 0, len(search.Modes()))
	for _, m := range search.Modes() {
		modes = append(modes, m.Flag())
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&sf.glob, "glob-pattern", "g", "", "Glob pattern selecting the paths to search (supports **)")
	flags.StringVarP(&sf.expression, "search-expression", "s", "", "Literal, regular expression or JSON-path query, depending on the mode")
	flags.StringVarP(&sf.mode, "mode", "m", "", "Search mode: "+strings.Join(modes, ", "))
	flags.StringVarP(&sf.output, "output", "o", "", "Output: console, file or html (default from config)")
	flags.StringVarP(&sf.file, "file", "f", "", "Output file for file and html output")
	_ = rootCmd.MarkFlagRequired("glob-pattern")
	_ = rootCmd.MarkFlagRequired("mode")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newHistoryCmd(a))

	return rootCmd
}

// setup loads the configuration and starts logging.
func (a *app) setup() error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", search.ErrConfiguration, err)
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(level), cfg.Log.File); err != nil {
		return err
	}
	debuglog.Debugf("configuration loaded, log level %s", debuglog.GetLevel())
	return nil
}

// request builds and validates the search request from flags and config.
func (a *app) request(sf searchFlags) (search.Request, error) {
	mode, err := search.ParseMode(sf.mode)
	if err != nil {
		return search.Request{}, err
	}

	targetName := sf.output
	if targetName == "" {
		targetName = a.cfg.Output.Target
	}
	target, err := output.ParseTarget(targetName)
	if err != nil {
		return search.Request{}, fmt.Errorf("%w: %w", search.ErrConfiguration, err)
	}

	file := sf.file
	if file == "" {
		file = a.cfg.Output.File
	}
	if target != output.TargetConsole && file != "" {
		file, err = validation.NewPermissivePathHandler().GetOutputPath(file)
		if err != nil {
			return search.Request{}, fmt.Errorf("%w: invalid output file: %w", search.ErrConfiguration, err)
		}
	}

	req := search.Request{
		Glob:       sf.glob,
		Expression: sf.expression,
		Mode:       mode,
		Output:     target,
		File:       file,
	}
	return req, req.Validate()
}

func (a *app) search(cmd *cobra.Command, sf searchFlags) error {
	req, err := a.request(sf)
	if err != nil {
		return err
	}

	sink, err := output.New(req.Output, req.File, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	d := search.NewDispatcher(sink, search.GlobEnumerator{}, search.Options{
		RegexTimeout:     a.cfg.Regex.Timeout,
		SnippetGraphemes: a.cfg.PDF.SnippetGraphemes,
	})

	started := time.Now()
	if err := runAndClose(cmd.Context(), d, sink, req); err != nil {
		return err
	}

	stats := sink.Stats()
	debuglog.WithFields(map[string]interface{}{
		"mode":   req.Mode.String(),
		"hits":   stats.Hits,
		"errors": stats.Errors,
	}).Infof("run finished in %s", time.Since(started))

	a.recordRun(&storage.Run{
		StartedAt:  started,
		Duration:   time.Since(started),
		Mode:       req.Mode.Flag(),
		Glob:       req.Glob,
		Expression: req.Expression,
		Output:     req.Output.String(),
		Hits:       stats.Hits,
		Errors:     stats.Errors,
	})
	return nil
}

// runAndClose runs req and always closes sink. A failing close is an
// output error.
func runAndClose(ctx context.Context, d *search.Dispatcher, sink output.Sink, req search.Request) error {
	runErr := d.Run(ctx, req)
	closeErr := sink.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("%w: closing output: %w", output.ErrOutput, closeErr)
	}
	return nil
}

// recordRun stores a run summary. Failures are logged and never fail the run.
func (a *app) recordRun(run *storage.Run) {
	if a.flags.noHistory || !a.cfg.History.Enabled {
		return
	}

	store, err := a.openHistory()
	if err != nil {
		debuglog.Warnf("history unavailable: %v", err)
		return
	}
	defer store.Close()

	if err := store.SaveRun(run); err != nil {
		debuglog.Warnf("failed to record run: %v", err)
	}
}

func (a *app) openHistory() (*storage.Store, error) {
	path, err := validation.NewSecurePathHandler().GetSecureHistoryPath(a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid history path: %w", err)
	}
	return storage.NewStore(path)
}
