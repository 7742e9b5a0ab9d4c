package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"filefusion/pkg/combine"
	"filefusion/pkg/progress"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// maxListedErrors caps the per-file errors printed after a run.
const maxListedErrors = 5

// runCombine turns the resolved configuration into a combine run.
func runCombine(cmd *cobra.Command, v *viper.Viper, logger *zap.Logger) error {
	cfg, err := buildConfig(v)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	sink := buildSink(v, cmd.OutOrStdout(), logger)

	showBar := !v.GetBool("no_progress") && !v.GetBool("quiet") && progress.Interactive(os.Stderr)
	reporter := progress.New(stderr, showBar)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	summary, err := combine.Run(ctx, cfg, sink, logger, reporter.Observe)
	reporter.Finish()
	if err != nil {
		return err
	}

	printSummary(stderr, summary, sink.Name())
	if path := v.GetString("report"); path != "" {
		if err := writeReport(path, summary); err != nil {
			return err
		}
		logger.Debug("Wrote run report", zap.String("path", path))
	}

	if summary.Partial() {
		logger.Warn("Some files could not be read", zap.Error(summary.Err()))
		return errPartial
	}
	return nil
}

// buildConfig validates the raw settings and produces a combine.Config.
func buildConfig(v *viper.Viper) (combine.Config, error) {
	root := v.GetString("path")
	if root == "" {
		return combine.Config{}, &combine.ConfigError{Field: "path", Reason: "a directory path is required"}
	}

	maxSizeKB := v.GetInt64("max_size")
	if maxSizeKB < 0 {
		return combine.Config{}, &combine.ConfigError{Field: "max-size", Reason: "must not be negative"}
	}
	filter, err := combine.NewFilterConfig(
		combine.SplitList(v.GetStringSlice("include")...),
		combine.SplitList(v.GetStringSlice("exclude")...),
		combine.KBToBytes(maxSizeKB),
		v.GetBool("include_binary"),
	)
	if err != nil {
		return combine.Config{}, err
	}

	format, err := combine.ParseFormat(v.GetString("format"))
	if err != nil {
		return combine.Config{}, err
	}
	comment, err := combine.ParseCommentStyle(v.GetString("comment_style"))
	if err != nil {
		return combine.Config{}, err
	}

	workers := v.GetInt("workers")
	if workers < 0 {
		return combine.Config{}, &combine.ConfigError{Field: "workers", Reason: "must not be negative"}
	}

	cfg := combine.Config{
		Root:      root,
		Recursive: v.GetBool("recursive") && !v.GetBool("no_recursive"),
		Filter:    filter,
		Workers:   workers,
		Render: combine.RenderOptions{
			Format:        format,
			Comment:       comment,
			OmitTimestamp: v.GetBool("reproducible"),
			Tree:          v.GetBool("tree"),
		},
		IgnoreFiles:      combine.SplitList(v.GetStringSlice("ignore_file")...),
		IgnorePatterns:   combine.SplitList(v.GetStringSlice("ignore")...),
		RespectGitignore: v.GetBool("gitignore"),
	}
	if out := v.GetString("output"); out != "" && out != "-" && !v.GetBool("clipboard") {
		cfg.OutputPath = out
	}
	return cfg, nil
}

// buildSink selects the output destination.
func buildSink(v *viper.Viper, stdout io.Writer, logger *zap.Logger) combine.Sink {
	if v.GetBool("clipboard") {
		return combine.ClipboardSink{}
	}
	out := v.GetString("output")
	if out == "-" {
		return &combine.WriterSink{W: stdout, Label: "stdout"}
	}
	return &combine.FileSink{Path: out, Logger: logger}
}

func printSummary(w io.Writer, s *combine.Summary, output string) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Files processed: %d\n", s.Included)
	fmt.Fprintf(w, "  Files skipped: %d\n", s.Excluded)
	fmt.Fprintf(w, "  Errors: %d\n", s.Errored)
	fmt.Fprintf(w, "  Total size: %d bytes\n", s.TotalBytes)
	fmt.Fprintf(w, "  Elapsed: %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "All files combined into %s\n", output)

	if len(s.Errors) == 0 {
		return
	}
	fmt.Fprintln(w, "Some files had errors:")
	for i, fe := range s.Errors {
		if i == maxListedErrors {
			fmt.Fprintf(w, "  ... and %d more errors\n", len(s.Errors)-maxListedErrors)
			break
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, fe.Error())
	}
}

// runReport is the YAML shape of a run summary.
type runReport struct {
	Summary combine.Summary `yaml:",inline"`
	Errors  []reportError   `yaml:"errors,omitempty"`
}

type reportError struct {
	Path    string `yaml:"path"`
	Kind    string `yaml:"kind"`
	Message string `yaml:"message"`
}

func writeReport(path string, s *combine.Summary) error {
	report := runReport{Summary: *s}
	for _, fe := range s.Errors {
		report.Errors = append(report.Errors, reportError{
			Path:    fe.Task.RelPath,
			Kind:    fe.Kind.String(),
			Message: fe.Err.Error(),
		})
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
