package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ferrous-ci/rustgate/internal/catalog"
	"github.com/ferrous-ci/rustgate/internal/harness"
	"github.com/ferrous-ci/rustgate/internal/logging"
	"github.com/ferrous-ci/rustgate/internal/model"
	"github.com/ferrous-ci/rustgate/internal/report"
)

// errorStoreLen caps the stderr kept on a single outcome. The report applies
// its own, shorter display cap on top.
const errorStoreLen = 500

var (
	testPackage   string
	testFeatures  string
	workspaceFlag string
	testTimeout   time.Duration
)

var testCmd = &cobra.Command{
	Use:   "test [name]",
	Short: "Run cargo tests and classify failures",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logging.New(debugMode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
			os.Exit(int(model.ExitError))
		}
		defer logger.Sync()

		root, err := harness.FindWorkspaceRoot(workspaceFlag)
		if err != nil {
			logger.Errorw("workspace discovery failed", "error", err)
			os.Exit(int(model.ExitError))
		}
		logger.Debugf("workspace root: %s", root)

		opts := harness.Options{
			Package:       testPackage,
			Features:      testFeatures,
			WorkspaceRoot: root,
			Timeout:       testTimeout,
		}

		var in report.TestRunInput
		if len(args) > 0 {
			in = runSingle(args[0], opts, logger)
		} else {
			in = runAll(opts, logger)
		}

		body, exit := report.TestRun(in)
		fmt.Print(body)
		os.Exit(int(exit))
	},
}

// runSingle invokes the harness restricted to one test and classifies its
// failure against the signature catalog.
func runSingle(name string, opts harness.Options, logger *zap.SugaredLogger) report.TestRunInput {
	opts.TestName = name
	logger.Debugf("running test %q", name)

	run := harness.Invoke(context.Background(), opts)
	if run.Err != nil {
		logger.Warnw("harness invocation failed", "error", run.Err)
	}

	out := model.Outcome{Name: name, Status: model.StatusPassed}
	diagnoses := map[string]model.Diagnosis{}
	switch {
	case run.TimedOut:
		out.Status = model.StatusTimeout
		out.ErrorText = fmt.Sprintf("harness timeout after %s", opts.Timeout)
		diagnoses[name] = harness.Classify(out.ErrorText, catalog.FailureSignatures())
	case run.Failed():
		out.Status = model.StatusFailed
		out.ErrorText = harness.Excerpt(run.Stderr, errorStoreLen)
		if run.Err != nil && out.ErrorText == "" {
			out.ErrorText = run.Err.Error()
		}
		diagnoses[name] = harness.Classify(run.Stderr, catalog.FailureSignatures())
	}

	return report.TestRunInput{
		Outcomes:      []model.Outcome{out},
		Diagnoses:     diagnoses,
		HarnessFailed: run.Failed(),
	}
}

// runAll invokes the full suite and parses the captured output into one
// outcome per recognized result line.
func runAll(opts harness.Options, logger *zap.SugaredLogger) report.TestRunInput {
	logger.Debugf("running all tests")

	run := harness.Invoke(context.Background(), opts)
	if run.Err != nil {
		logger.Warnw("harness invocation failed", "error", run.Err)
	}

	outcomes := harness.ParseResults(run.Stdout)
	if run.TimedOut {
		outcomes = append(outcomes, model.Outcome{
			Name:      "cargo test",
			Status:    model.StatusTimeout,
			ErrorText: harness.Excerpt(run.Stderr, errorStoreLen),
		})
	}

	return report.TestRunInput{
		Outcomes:      outcomes,
		HarnessFailed: run.Failed(),
	}
}

func init() {
	testCmd.Flags().StringVarP(&testPackage, "package", "p", "", "restrict to one cargo package")
	testCmd.Flags().StringVarP(&testFeatures, "features", "F", "", "cargo features to enable")
	testCmd.Flags().StringVarP(&workspaceFlag, "workspace", "w", ".", "directory to start the Cargo.toml walk-up from")
	testCmd.Flags().DurationVar(&testTimeout, "timeout", harness.DefaultTimeout, "harness invocation timeout")
	rootCmd.AddCommand(testCmd)
}
