package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ferrous-ci/rustgate/internal/catalog"
	"github.com/ferrous-ci/rustgate/internal/logging"
	"github.com/ferrous-ci/rustgate/internal/model"
	"github.com/ferrous-ci/rustgate/internal/report"
	"github.com/ferrous-ci/rustgate/internal/sarif"
	"github.com/ferrous-ci/rustgate/internal/scanner"
)

const version = "0.1.0"

var (
	auditOutput string
	rulesFile   string
	watchMode   bool
)

type auditJSON struct {
	Findings []model.Finding `json:"findings"`
	Summary  map[string]int  `json:"summary"`
}

var auditCmd = &cobra.Command{
	Use:   "audit [path]",
	Short: "Scan Rust sources for error-tolerance and error-masking patterns",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logging.New(debugMode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
			os.Exit(int(model.ExitError))
		}
		defer logger.Sync()

		// Catalog construction is the single fatal error class: abort
		// before any scanning starts.
		cat, err := catalog.Load(rulesFile)
		if err != nil {
			logger.Errorw("rule catalog construction failed", "error", err)
			os.Exit(int(model.ExitError))
		}

		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		sc := scanner.New(cat, logger)
		if watchMode {
			if err := watchAudit(root, sc, logger); err != nil {
				logger.Errorw("watch failed", "error", err)
				os.Exit(int(model.ExitError))
			}
			return
		}

		findings := runAudit(root, sc, logger)
		exit := renderAudit(findings, logger)
		os.Exit(int(exit))
	},
}

func runAudit(root string, sc *scanner.Scanner, logger *zap.SugaredLogger) []model.Finding {
	files, err := scanner.DiscoverFiles(root)
	if err != nil {
		logger.Errorw("failed to scan path", "path", root, "error", err)
		os.Exit(int(model.ExitError))
	}
	logger.Debugf("found %d Rust file(s) under %s", len(files), root)

	var findings []model.Finding
	for _, f := range files {
		findings = append(findings, sc.ScanFile(f)...)
	}
	return findings
}

func renderAudit(findings []model.Finding, logger *zap.SugaredLogger) model.ExitCode {
	switch strings.ToLower(auditOutput) {
	case "json":
		summary := map[string]int{"high": 0, "medium": 0, "low": 0}
		for _, f := range findings {
			summary[strings.ToLower(string(f.Severity))]++
		}
		encoded, err := json.MarshalIndent(auditJSON{Findings: findings, Summary: summary}, "", "  ")
		if err != nil {
			logger.Errorw("failed to encode JSON", "error", err)
			return model.ExitError
		}
		fmt.Println(string(encoded))
	case "sarif":
		encoded, err := sarif.Render(findings, "rustgate", version)
		if err != nil {
			logger.Errorw("failed to encode SARIF", "error", err)
			return model.ExitError
		}
		fmt.Println(string(encoded))
	default:
		body, exit := report.Audit(findings)
		fmt.Print(body)
		return exit
	}
	_, exit := report.Audit(findings)
	return exit
}

// watchAudit re-runs the audit whenever something under root changes,
// debounced so editor save bursts trigger one scan. Exit-code semantics do
// not apply here; the loop runs until interrupted.
func watchAudit(root string, sc *scanner.Scanner, logger *zap.SugaredLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "target" {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	rerun := func() {
		findings := runAudit(root, sc, logger)
		renderAudit(findings, logger)
	}
	rerun()

	var timer *time.Timer
	debounce := 300 * time.Millisecond
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.Contains(ev.Name, string(filepath.Separator)+"target"+string(filepath.Separator)) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				watchCreatedDir(watcher, ev.Name)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, rerun)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch error", "error", err)
		}
	}
}

// watchCreatedDir registers a directory created after the watch started, so
// edits under new subtrees keep triggering re-audits. Non-directories and
// the build-artifact dir are ignored.
func watchCreatedDir(watcher *fsnotify.Watcher, name string) {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() || filepath.Base(name) == "target" {
		return
	}
	watcher.Add(name)
}

func init() {
	auditCmd.Flags().StringVarP(&auditOutput, "output", "o", "", "output format (json, sarif)")
	auditCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule overlay file")
	auditCmd.Flags().BoolVar(&watchMode, "watch", false, "re-run the audit on file changes")
	rootCmd.AddCommand(auditCmd)
}
