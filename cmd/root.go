package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filefusion/pkg/combine"
	"filefusion/pkg/logging"
	"filefusion/pkg/version"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// errPartial marks a run that wrote its output but could not read every file.
var errPartial = errors.New("some files could not be read")

// RootCmd is the base command when called without any subcommands.
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree with its own configuration registry.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "filefusion [flags] <directory>",
		Short: "filefusion combines the files of a directory tree into one document",
		Long: `filefusion walks a directory tree, filters files by extension, size and
binary content, and renders them into a single text, Markdown or HTML document
annotated with per-file metadata.`,
		Version:       version.Get().Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			_, err := logging.Setup(logging.Options{
				Verbose:    v.GetBool("verbose"),
				Quiet:      v.GetBool("quiet"),
				AppName:    version.AppName,
				AppVersion: version.Get().Version,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("path", args[0])
			}
			return runCombine(cmd, v, logging.Logger)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/filefusion/filefusion.yaml or ./filefusion.yaml)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Only log warnings and errors")

	f := root.Flags()
	f.String("path", "", "Directory path to process")
	f.StringSliceP("include", "i", nil, "Only include files with these extensions (comma separated)")
	f.StringSliceP("exclude", "e", nil, "Exclude files with these extensions (comma separated)")
	f.Int64("max-size", 0, "Maximum file size in KB to process (0 for no limit)")
	f.Bool("include-binary", false, "Include binary files (content is replaced by a placeholder)")
	f.StringP("output", "o", "combined_files.txt", "Output filename, or - for stdout")
	f.Bool("clipboard", false, "Copy the output to the clipboard instead of writing a file")
	f.StringP("format", "f", "text", "Output format: text, md or html")
	f.String("comment-style", "hash", "Banner comment style: hash (#) or slash (//); 2 and 1 are accepted")
	f.Bool("recursive", true, "Scan subdirectories recursively")
	f.Bool("no-recursive", false, "Do not scan subdirectories")
	f.IntP("workers", "w", combine.DefaultWorkers(), "Number of concurrent workers")
	f.Bool("tree", false, "Include a directory tree of the included files")
	f.Bool("reproducible", false, "Omit the generation timestamp from the output")
	f.StringSlice("ignore", nil, "Additional ignore patterns (gitignore syntax)")
	f.StringSlice("ignore-file", nil, "Additional ignore pattern files")
	f.Bool("gitignore", false, "Honour the .gitignore file in the root directory")
	f.String("report", "", "Write the run summary as YAML to this path")
	f.Bool("no-progress", false, "Disable the progress bar")

	bindFlags(v, pf)
	bindFlags(v, f)

	root.AddCommand(newVersionCmd())
	return root
}

// bindFlags registers every flag under its snake_case viper key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		_ = v.BindPFlag(strings.ReplaceAll(fl.Name, "-", "_"), fl)
	})
}

// initConfig reads the config file, .env and FILEFUSION_* environment variables.
// Precedence is flag > env > config file > default.
func initConfig(v *viper.Viper, cfgFile string) error {
	// A missing .env file is expected.
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "filefusion"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("filefusion")
	}

	v.SetEnvPrefix("FILEFUSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Execute runs the root command and maps the outcome to an exit code.
func Execute() int {
	err := RootCmd.Execute()
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errPartial):
		return ExitPartial
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitFatal
	}
}
