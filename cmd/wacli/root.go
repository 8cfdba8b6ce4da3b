package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/nao1215/wacli/internal/config"
	"github.com/nao1215/wacli/internal/log"
	"github.com/nao1215/wacli/internal/progress"
	"github.com/nao1215/wacli/internal/prompt"
	"github.com/nao1215/wacli/internal/report"
	"github.com/nao1215/wacli/internal/session"
	"github.com/nao1215/wacli/internal/wolfram"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wacli.
// The root command itself runs the query; init and version are subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wacli [flags] <input>",
		Short: "Query Wolfram|Alpha from the terminal",
		Long: `wacli sends a natural-language query to the Wolfram|Alpha Full Results API
and prints the plaintext of each result pod.

Before printing, wacli asks whether to show the full response or only the
first two pods. Use --view to answer in advance.

With --interactive, wacli keeps prompting for new input after the first
answer. Type "exit" or press Ctrl-D to quit.

Examples:
  # Ask a single question
  wacli "integrate x^2 dx"

  # Keep asking questions
  wacli -i "population of France"

  # Print the full answer as Markdown without asking
  wacli --view full -o markdown "distance earth moon"

  # Use your own application id
  WACLI_APPID=XXXXXX-XXXXXXXXXX wacli "weather in Tokyo"

  # Route the request through Tor
  wacli --proxy 127.0.0.1:9050 "2+2"`,
		Version:       getVersion(),
		Args:          inputArgs,
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Query parameters
	cmd.Flags().BoolP("interactive", "i", false,
		"Keep prompting for new input after the first answer")
	cmd.Flags().String("podstate", config.DefaultPodState,
		"Computation directive applied to every pod")
	cmd.Flags().Uint8P("totaltimeout", "t", config.DefaultTimeout,
		"Total timeout hint for the API, in seconds")
	cmd.Flags().Uint8P("podtimeout", "p", config.DefaultTimeout,
		"Pod computation timeout hint for the API, in seconds")
	cmd.Flags().Uint8("formattimeout", config.DefaultTimeout,
		"Format timeout hint for the API, in seconds")
	cmd.Flags().Uint8("parsetimeout", config.DefaultTimeout,
		"Parse timeout hint for the API, in seconds")
	cmd.Flags().Uint8("scantimeout", config.DefaultTimeout,
		"Scan timeout hint for the API, in seconds")
	cmd.Flags().String("appid", config.DefaultAppID,
		"Wolfram|Alpha application id (env: "+config.EnvAppID+")")
	cmd.Flags().Bool("reinterpret", config.DefaultReinterpret,
		"Let the API reinterpret ambiguous input (true or false)")
	// Takes a value like the other query options: "--reinterpret false" and
	// "--reinterpret=false" are both accepted.
	cmd.Flags().Lookup("reinterpret").NoOptDefVal = ""

	// Output and transport
	cmd.Flags().StringP("format", "o", config.DefaultFormat,
		"Output format: text, markdown or json")
	cmd.Flags().String("view", config.DefaultView,
		"Response view: ask, full or summary")
	cmd.Flags().String("proxy", "",
		"Route requests through the SOCKS5 proxy at host:port")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wacli in current or home directory)")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// inputArgs requires exactly one positional argument, the query text.
func inputArgs(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return &config.ArgumentError{Arg: "input", Err: config.ErrNoInput}
	case 1:
		return nil
	default:
		return &config.ArgumentError{Arg: "input", Value: strings.Join(args[1:], " "), Err: config.ErrUnexpectedArgument}
	}
}

// runRootCmd executes a query session.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	if cfg.ConfigFilePath != "" {
		logger.Debug("configuration file loaded", "path", cfg.ConfigFilePath)
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Debug("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runQuery(ctx, cfg, streams{in: os.Stdin, out: cmd.OutOrStdout()}, logger)
}

// streams are the terminal endpoints of a session.
type streams struct {
	in  io.ReadCloser
	out io.Writer
}

// runQuery wires the client, renderer and prompts into a session and runs it.
// clientOpts are appended after the configured ones.
func runQuery(ctx context.Context, cfg *config.Config, st streams, logger *slog.Logger, clientOpts ...wolfram.Option) error {
	opts := []wolfram.Option{
		wolfram.WithUserAgent(userAgent()),
		wolfram.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, wolfram.WithProxy(cfg.ProxyAddress))
	}
	client, err := wolfram.NewClient(append(opts, clientOpts...)...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	writer, err := report.NewWriter(cfg.Format, st.out)
	if err != nil {
		return err
	}

	sessionOpts := []session.Option{
		session.WithOutput(st.out),
		session.WithWriter(writer),
		session.WithLogger(logger),
		session.WithSpinnerOptions(progress.WithAnimation(isTerminal(st.out))),
	}

	// The line editor is only opened when something reads from it.
	var terminal *prompt.Terminal
	if cfg.Interactive || cfg.View == config.ViewAsk {
		terminal, err = prompt.NewTerminal(st.in, st.out)
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer terminal.Close() //nolint:errcheck // closing the line editor on exit
		sessionOpts = append(sessionOpts, session.WithLineReader(terminal))
	}

	switch cfg.View {
	case config.ViewFull:
		sessionOpts = append(sessionOpts, session.WithViewChooser(prompt.Fixed(report.Full)))
	case config.ViewSummary:
		sessionOpts = append(sessionOpts, session.WithViewChooser(prompt.Fixed(report.Summary)))
	default:
		sessionOpts = append(sessionOpts, session.WithViewChooser(prompt.NewAsk(terminal, st.out)))
	}

	logger.Debug("starting session",
		"interactive", cfg.Interactive,
		"format", cfg.Format,
		"view", cfg.View,
		"proxy", cfg.ProxyAddress,
	)

	s := session.New(client, cfg.Query(), sessionOpts...)
	if cfg.Interactive {
		return s.RunInteractive(ctx)
	}
	return s.RunOnce(ctx)
}

// isTerminal reports whether w is a terminal that can show the spinner animation.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// buildConfig creates a Config from flags, the configuration file and the environment.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Input = args[0]

	flags := cmd.Flags()
	var err error

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.Interactive, err = flags.GetBool("interactive"); err != nil {
		return nil, err
	}
	if cfg.PodState, err = flags.GetString("podstate"); err != nil {
		return nil, err
	}
	if cfg.TotalTimeout, err = flags.GetUint8("totaltimeout"); err != nil {
		return nil, err
	}
	if cfg.PodTimeout, err = flags.GetUint8("podtimeout"); err != nil {
		return nil, err
	}
	if cfg.FormatTimeout, err = flags.GetUint8("formattimeout"); err != nil {
		return nil, err
	}
	if cfg.ParseTimeout, err = flags.GetUint8("parsetimeout"); err != nil {
		return nil, err
	}
	if cfg.ScanTimeout, err = flags.GetUint8("scantimeout"); err != nil {
		return nil, err
	}
	if cfg.AppID, err = flags.GetString("appid"); err != nil {
		return nil, err
	}
	if cfg.Reinterpret, err = flags.GetBool("reinterpret"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.View, err = flags.GetString("view"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use the defaults if no file found.
	explicit := flags.Changed
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg, explicit)
		cfg.ConfigFilePath = configPath
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	config.ApplyEnv(cfg, explicit)

	return cfg, nil
}
