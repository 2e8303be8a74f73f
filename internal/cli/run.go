package cli

import (
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/julienstroheker/linegate/internal/logging"
	"github.com/julienstroheker/linegate/relay"
)

var (
	prefixFlag         string
	suffixFlag         string
	headerFlag         string
	footerFlag         string
	patternFlags       []string
	awaitFlag          string
	noFlushFlag        bool
	sourceEncodingFlag string
	outputEncodingFlag string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a command and relay its decorated output",
	Long: `Run a command and relay its stdout and stderr to the terminal,
decorated with the configured prefix, suffix, header, and footer.

Each --pattern is evaluated against every relayed line; a match is reported
as a log event. Use --await to name the pattern that marks the supervised
service as ready.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions{
			prefix:         prefixFlag,
			suffix:         suffixFlag,
			header:         headerFlag,
			footer:         footerFlag,
			patterns:       patternFlags,
			await:          awaitFlag,
			noFlush:        noFlushFlag,
			sourceEncoding: sourceEncodingFlag,
			outputEncoding: outputEncodingFlag,
		}
		if opts.prefix == "" {
			opts.prefix = GetConfig().Prefix
		}
		if opts.suffix == "" {
			opts.suffix = GetConfig().Suffix
		}

		cmd.SilenceUsage = true
		return runProcess(opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr(), GetLogger())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&prefixFlag, "prefix", "", "String prepended to every relayed line")
	runCmd.Flags().StringVar(&suffixFlag, "suffix", "", "String appended to every relayed line")
	runCmd.Flags().StringVar(&headerFlag, "header", "", "String written once before the first stdout line")
	runCmd.Flags().StringVar(&footerFlag, "footer", "", "String written once after stdout ends")
	runCmd.Flags().StringArrayVarP(&patternFlags, "pattern", "p", nil, "Pattern to watch for in the output (repeatable)")
	runCmd.Flags().StringVar(&awaitFlag, "await", "", "Pattern that marks the supervised service as ready")
	runCmd.Flags().BoolVar(&noFlushFlag, "no-flush", false, "Flush output at buffer capacity instead of per line")
	runCmd.Flags().StringVar(&sourceEncodingFlag, "source-encoding", "", "IANA charset of the command's output (default UTF-8)")
	runCmd.Flags().StringVar(&outputEncodingFlag, "output-encoding", "", "IANA charset for relayed output (default UTF-8)")
}

// runOptions carries the run command's settings in a form that can be built
// without cobra, for direct testing
type runOptions struct {
	prefix         string
	suffix         string
	header         string
	footer         string
	patterns       []string
	await          string
	noFlush        bool
	sourceEncoding string
	outputEncoding string
}

// runProcess launches the command, relays its stdout and stderr to the given
// writers concurrently, and returns the command's exit error, if any.
// Relay failures are logged but do not mask the command's own outcome.
func runProcess(opts runOptions, args []string, stdout, stderr io.Writer, log *logging.Logger) error {
	hooks, err := buildHooks(opts, log)
	if err != nil {
		return err
	}

	child := exec.Command(args[0], args[1:]...)
	outPipe, err := child.StdoutPipe()
	if err != nil {
		return fmt.Errorf("opening stdout pipe: %w", err)
	}
	errPipe, err := child.StderrPipe()
	if err != nil {
		return fmt.Errorf("opening stderr pipe: %w", err)
	}

	// Header and footer frame stdout only; both streams share the line
	// decorations and the hook table.
	outOpts := relay.NewOptions(outPipe, stdout).
		SetPrefix(opts.prefix).
		SetSuffix(opts.suffix).
		SetHeader(opts.header).
		SetFooter(opts.footer).
		SetHooks(hooks).
		SetCloseDestination(false).
		SetAutoFlush(!opts.noFlush).
		SetLogger(log)
	errOpts := relay.NewOptions(errPipe, stderr).
		SetPrefix(opts.prefix).
		SetSuffix(opts.suffix).
		SetHooks(hooks).
		SetCloseDestination(false).
		SetAutoFlush(!opts.noFlush).
		SetLogger(log)

	if err := applyEncodings(opts, outOpts, errOpts); err != nil {
		return err
	}

	outRelay, err := relay.New(outOpts)
	if err != nil {
		return err
	}
	errRelay, err := relay.New(errOpts)
	if err != nil {
		return err
	}

	if log != nil {
		log.Debug("Starting command", logging.String("command", args[0]))
	}
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting command: %w", err)
	}

	var g errgroup.Group
	g.Go(outRelay.Run)
	g.Go(errRelay.Run)

	relayErr := g.Wait()
	waitErr := child.Wait()

	if relayErr != nil && log != nil {
		log.Error("Relay failed", logging.Error(relayErr))
	}
	if waitErr != nil {
		return waitErr
	}
	return relayErr
}

// buildHooks compiles the --pattern and --await flags into the hook table
// shared by the stdout and stderr relays
func buildHooks(opts runOptions, log *logging.Logger) ([]relay.Hook, error) {
	var hooks []relay.Hook

	for _, pattern := range opts.patterns {
		pattern := pattern
		h, err := relay.NewHook(pattern, func(line string) {
			if log != nil {
				log.Info("Pattern matched",
					logging.String("pattern", pattern),
					logging.String("line", line))
			}
		})
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}

	if opts.await != "" {
		var once sync.Once
		h, err := relay.NewHook(opts.await, func(line string) {
			once.Do(func() {
				if log != nil {
					log.Info("Service is ready",
						logging.String("pattern", opts.await),
						logging.String("line", line))
				}
			})
		})
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}

	return hooks, nil
}

// applyEncodings resolves the charset flags and applies them to both relays
func applyEncodings(opts runOptions, relayOpts ...*relay.Options) error {
	if opts.sourceEncoding != "" {
		enc, err := relay.LookupEncoding(opts.sourceEncoding)
		if err != nil {
			return err
		}
		for _, ro := range relayOpts {
			ro.SetSourceEncoding(enc)
		}
	}
	if opts.outputEncoding != "" {
		enc, err := relay.LookupEncoding(opts.outputEncoding)
		if err != nil {
			return err
		}
		for _, ro := range relayOpts {
			ro.SetDestinationEncoding(enc)
		}
	}
	return nil
}
