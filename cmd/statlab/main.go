package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statlab/adapters/xlsx"
	"statlab/domain/stats"
	"statlab/internal"
	"statlab/internal/analysis"
	"statlab/internal/config"
	"statlab/internal/errors"
	"statlab/internal/report"
	"statlab/internal/validation"
)

var errColor = color.New(color.FgRed, color.Bold)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		errColor.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	level, _ := internal.ParseLogLevel(cfg.Log.Level)
	logger := internal.NewLogger(level)

	rootCmd := &cobra.Command{
		Use:   "statlab",
		Short: "Statistical test toolkit: outliers, intervals, error propagation, t-tests",
		Long: `statlab runs the laboratory statistics toolbox from the command line.

Samples come from inline arguments, stdin ("-"), a text file, or a
column of an .xlsx/.csv file. Every result is printed as a fixed text
block.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newQTestCmd(),
		newCICmd(cfg),
		newTTestCmd(),
		newPropagateCmd(),
		newBatchCmd(cfg, logger),
		newColumnsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errColor.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newQTestCmd() *cobra.Command {
	var input, file, sheet, column string

	cmd := &cobra.Command{
		Use:   "qtest [values...]",
		Short: "Dixon's Q-test for a single outlier",
		Long: `Run Dixon's Q-test (95% confidence) on a sample of at least three values.

Example: statlab qtest 10.1 10.2 10.15 10.18 14.0
Example: statlab qtest --file results.xlsx --column trial
Example: cat readings.txt | statlab qtest -`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := resolveSample(args, input, file, sheet, column)
			if err != nil {
				return err
			}
			return runRequest(report.Request{Kind: stats.TestOutlier, Sample: sample})
		},
	}

	addSourceFlags(cmd, &input, &file, &sheet, &column)
	return cmd
}

func newCICmd(cfg *config.Config) *cobra.Command {
	var input, file, sheet, column string
	var level float64

	cmd := &cobra.Command{
		Use:   "ci [values...]",
		Short: "Mean with a Student-t confidence interval",
		Long: `Compute the sample mean and a two-sided confidence interval.

Example: statlab ci 10 12 11 13 9
Example: statlab ci --level 0.95 --file results.xlsx --column trial`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := resolveSample(args, input, file, sheet, column)
			if err != nil {
				return err
			}
			return runRequest(report.Request{
				Kind:   stats.TestConfidenceInterval,
				Sample: sample,
				Level:  level,
			})
		},
	}

	addSourceFlags(cmd, &input, &file, &sheet, &column)
	cmd.Flags().Float64Var(&level, "level", cfg.Stats.ConfidenceLevel, "Confidence level, strictly between 0 and 1")
	return cmd
}

func newTTestCmd() *cobra.Command {
	var input, file, sheet, column1, column2, mode string

	cmd := &cobra.Command{
		Use:   "ttest [values...]",
		Short: "Two-sample t-test (independent or paired)",
		Long: `Compare two groups with a t-test at α = 0.05.

Inline, stdin or text-file values are split in half: the first half is
group 1, the rest group 2. With --file the groups come from two columns.

Example: statlab ttest 1 2 3 4 5 6 --mode paired
Example: statlab ttest --file results.xlsx --column1 trial --column2 control`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			testMode, err := stats.ParseTTestMode(mode)
			if err != nil {
				return err
			}

			var group1, group2 []float64
			if file != "" {
				if column1 == "" || column2 == "" {
					return fmt.Errorf("--column1 and --column2 are required with --file")
				}
				source := xlsx.NewReader(file, sheet)
				if group1, err = source.Sample(column1); err != nil {
					return err
				}
				if group2, err = source.Sample(column2); err != nil {
					return err
				}
			} else {
				text, err := rawSampleText(args, input)
				if err != nil {
					return err
				}
				sample, err := validation.ParseNumericSample(text)
				if err != nil {
					return err
				}
				group1, group2 = validation.SplitSample(sample)
			}

			return runRequest(report.Request{
				Kind:   stats.TestTTest,
				Group1: group1,
				Group2: group2,
				Mode:   testMode,
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Read both groups from a whitespace-separated text file, split in half")
	cmd.Flags().StringVar(&file, "file", "", "Read groups from an .xlsx or .csv file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default Sheet1)")
	cmd.Flags().StringVar(&column1, "column1", "", "Column holding group 1")
	cmd.Flags().StringVar(&column2, "column2", "", "Column holding group 2")
	cmd.Flags().StringVar(&mode, "mode", "independent", "Test mode: independent|paired")
	return cmd
}

func newPropagateCmd() *cobra.Command {
	var vars, values, uncertainties, expression string

	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "First-order error propagation through an expression",
		Long: `Propagate measurement uncertainties through a symbolic expression.

Variables, values and uncertainties are comma-separated and aligned by
position. Expressions support + - * / ** and sin, cos, tan, exp, log,
sqrt.

Example: statlab propagate --vars x,y --values 2,3 --uncertainties 0.1,0.2 --expr "x**2 + 2*x*y + y**2"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := validation.ParseNameList(vars)
			if err != nil {
				return err
			}
			vals, err := validation.ParseNumberList(values)
			if err != nil {
				return err
			}
			uncs, err := validation.ParseNumberList(uncertainties)
			if err != nil {
				return err
			}

			return runRequest(report.Request{
				Kind:          stats.TestErrorPropagation,
				Names:         names,
				Values:        vals,
				Uncertainties: uncs,
				Expression:    expression,
			})
		},
	}

	cmd.Flags().StringVar(&vars, "vars", "", "Comma-separated variable names")
	cmd.Flags().StringVar(&values, "values", "", "Comma-separated measured values")
	cmd.Flags().StringVar(&uncertainties, "uncertainties", "", "Comma-separated uncertainties, one per variable")
	cmd.Flags().StringVar(&expression, "expr", "", "Expression to propagate through")
	return cmd
}

func newBatchCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [requests.json]",
		Short: "Run a JSON file of requests concurrently",
		Long: `Execute a batch of requests from a JSON array. Each request names a
kind (outlier, confidence_interval, error_propagation, ttest) and its
inputs. Requests run concurrently; results keep file order.

Example: statlab batch requests.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := loadRequests(args[0])
			if err != nil {
				return err
			}

			runner := report.NewRunner(cfg.Batch.Workers, logger)
			batch, err := runner.Run(cmd.Context(), requests)
			if err != nil {
				return err
			}

			printBatch(batch)
			if failed := batch.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d requests failed", failed, len(batch.Outcomes))
			}
			return nil
		},
	}

	return cmd
}

func newColumnsCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "columns [file]",
		Short: "List the sample columns of an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, err := xlsx.NewReader(args[0], sheet).Columns()
			if err != nil {
				return err
			}
			for i, name := range columns {
				fmt.Printf("%d. %s\n", i+1, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default Sheet1)")
	return cmd
}

// addSourceFlags registers the shared single-sample input flags.
func addSourceFlags(cmd *cobra.Command, input, file, sheet, column *string) {
	cmd.Flags().StringVar(input, "input", "", "Read the sample from a whitespace-separated text file")
	cmd.Flags().StringVar(file, "file", "", "Read the sample from an .xlsx or .csv file")
	cmd.Flags().StringVar(sheet, "sheet", "", "Worksheet name (default Sheet1)")
	cmd.Flags().StringVar(column, "column", "", "Column holding the sample")
}

// resolveSample reads a sample from the file column when --file is set,
// otherwise parses raw text from --input, stdin ("-") or the inline
// arguments.
func resolveSample(args []string, input, file, sheet, column string) ([]float64, error) {
	if file != "" {
		if column == "" {
			return nil, fmt.Errorf("--column is required with --file")
		}
		return xlsx.NewReader(file, sheet).Sample(column)
	}
	text, err := rawSampleText(args, input)
	if err != nil {
		return nil, err
	}
	return validation.ParseNumericSample(text)
}

// rawSampleText gathers sample text the way the lab bench does: a pasted
// column arrives whole via stdin or a text file, typed values arrive as
// arguments.
func rawSampleText(args []string, input string) (string, error) {
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", errors.SourceError(input, err)
		}
		return string(data), nil
	}
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.SourceError("stdin", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// runRequest executes one request and prints its result block.
func runRequest(req report.Request) error {
	result, err := report.Execute(req)
	if err != nil {
		return err
	}
	text, err := analysis.FormatResult(result)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func loadRequests(path string) ([]report.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceError(path, err)
	}

	var requests []report.Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", path)
	}
	return requests, nil
}

func printBatch(batch *report.Batch) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "Name", "Kind", "Status", "Duration"})
	for _, out := range batch.Outcomes {
		status := "ok"
		if out.Err != nil {
			status = "failed"
		}
		tw.AppendRow(table.Row{out.Index + 1, out.Name, out.Kind, status, out.Duration.Round(time.Microsecond)})
	}
	tw.Render()

	for _, out := range batch.Outcomes {
		fmt.Printf("\n[%d] %s\n", out.Index+1, out.Name)
		if out.Err != nil {
			errColor.Fprintf(os.Stderr, "error: %v\n", out.Err)
			continue
		}
		fmt.Println(out.Text)
	}

	fmt.Printf("\nrun %s: %d requests, %d failed\n", batch.RunID.Short(), len(batch.Outcomes), batch.Failed())
}
