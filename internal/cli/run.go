package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/msaflow/pkg/assign"
	apperr "github.com/matzehuels/msaflow/pkg/errors"
	msaio "github.com/matzehuels/msaflow/pkg/io"
	"github.com/matzehuels/msaflow/pkg/pipeline"
)

// runOpts holds the flags of the run command.
type runOpts struct {
	file       string
	output     string
	formats    []string
	iterations int
	noCache    bool
	refresh    bool
	trace      bool
	detailed   bool
	tui        bool
	config     string
}

// runCommand creates the run command, the CLI form of a full assignment.
func (c *CLI) runCommand() *cobra.Command {
	var formatsStr string
	opts := runOpts{
		iterations: pipeline.DefaultIterations,
		output:     pipeline.DefaultOutputDir,
	}

	cmd := &cobra.Command{
		Use:   "run -f <network>",
		Short: "Assign the demand of a network file",
		Long: `Assign the demand of a network file and write the result report.

The report is written to the output directory as <network>_<H>h<M>m<S>s
(plus an extension for non-text formats) and the edge table is echoed to
stdout. Results are cached locally, so repeating a run with the same network
and iteration count is instant; use --refresh to recompute.

Defaults can be set in msaflow.toml in the working directory (or --config);
command-line flags override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			overrideInt(flags, "iterations", &opts.iterations, cfg.Run.Iterations)
			overrideString(flags, "output", &opts.output, cfg.Run.Output)
			overrideBool(flags, "trace", &opts.trace, cfg.Run.Trace)
			overrideBool(flags, "detailed", &opts.detailed, cfg.Run.Detailed)
			overrideBool(flags, "no-cache", &opts.noCache, cfg.Run.NoCache)

			opts.formats = parseFormats(formatsStr)
			if !flags.Changed("format") && len(cfg.Run.Formats) > 0 {
				opts.formats = cfg.Run.Formats
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runAssignment(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "network file (required)")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "i", opts.iterations, "number of MSA iterations")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory for reports")
	cmd.Flags().StringVar(&formatsStr, "format", "", "output format(s): text (default), json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "record UE and AEC after every iteration")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label graph edges with cost and flow")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show live iteration progress")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ./"+defaultConfigFile+")")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runAssignment loads, assigns and renders the network, then writes the
// artifacts and prints the results to out.
func (c *CLI) runAssignment(ctx context.Context, out io.Writer, opts runOpts) error {
	source, err := readSource(opts.file)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Name:       msaio.NetworkName(opts.file),
		Source:     source,
		Iterations: opts.iterations,
		Trace:      opts.trace,
		Refresh:    opts.refresh,
		Formats:    opts.formats,
		Detailed:   opts.detailed,
		Logger:     c.Logger,
	}

	var result *pipeline.Result
	if opts.tui {
		// Log lines would tear the live view.
		popts.Logger = log.New(io.Discard)
		result, err = runWithTUI(ctx, runner, popts)
	} else {
		result, err = c.runWithSpinner(ctx, runner, popts)
	}
	if err != nil {
		return err
	}

	base := msaio.ReportFilename(popts.Name, time.Now())
	paths, err := pipeline.WriteFiles(opts.output, base, result.Artifacts, popts.Formats)
	if err != nil {
		return err
	}

	if err := msaio.WriteEdgeTable(out, result.Summary.Edges); err != nil {
		return err
	}
	fmt.Fprintln(out)
	printResult(out, result)
	for _, p := range paths {
		printFile(out, p)
	}
	return nil
}

func (c *CLI) runWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Assigning %s (%d iterations)...", opts.Name, opts.Iterations))
	spinner.Start()

	opts.OnIteration = func(s assign.IterationStats) {
		c.Logger.Debug("iteration", "n", s.Iteration, "phi", s.Phi, "new_routes", s.NewRoutes, "routes", s.Routes)
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Assignment failed")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Assigned %d OD pairs over %d routes", result.Stats.PairCount, result.Stats.RouteCount))
	return result, nil
}

// readSource reads the network file, mapping a missing file to
// ErrCodeFileNotFound.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperr.New(apperr.ErrCodeFileNotFound, "network file not found: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("read network %s: %w", path, err)
	}
	return string(data), nil
}
