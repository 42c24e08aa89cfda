// lnkdump is a CLI tool for decoding Windows shortcut files (.lnk and .url).
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jtang613/golnk/pkg/lnk"
)

const envPrefix = "LNKDUMP"

var cfgFile string

// ErrUsage is returned on bad command line usage.
var ErrUsage = errors.New("bad usage of command")

var rootCmd = &cobra.Command{
	Use:   "lnkdump [flags] <shortcut>...",
	Short: "Decode Windows shortcut files",
	Long: `lnkdump decodes Shell Link (.lnk) and Internet Shortcut (.url) files
and prints what is needed to launch them: target, arguments, working
directory and display name.

Every flag can also be set through the environment, for example
LNKDUMP_CODEPAGE=windows-1251, or in a YAML file given with --config.`,
	Example: `  lnkdump game.lnk
  lnkdump --all --pretty game.lnk site.url
  lnkdump --format yaml --strict game.lnk
  lnkdump scan --format text "C:\Users\Public\Desktop"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Usage()
		}
		return dumpFiles(args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Decode every shortcut directly inside a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		return scanDir(cmd, args[0])
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML configuration file")
	flags.String("format", "json", "output format: json, yaml or text")
	flags.Bool("pretty", false, "pretty-print JSON output")
	flags.Bool("all", false, "include the decoded structures, not only the descriptor")
	flags.Bool("strict", false, "fail on malformed optional sections instead of warning")
	flags.String("codepage", "windows-1252", "code page of ANSI strings")
	flags.Int("concurrency", 4, "files decoded at once by scan")
	flags.BoolP("verbose", "v", false, "log decoding details to stderr")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(scanCmd)
}

func setupConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	}
	switch viper.GetString("format") {
	case formatJSON, formatYAML, formatText:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrUsage, viper.GetString("format"))
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func options(logger *zap.Logger) *lnk.Options {
	return &lnk.Options{
		Strict:      viper.GetBool("strict"),
		Codepage:    viper.GetString("codepage"),
		Concurrency: viper.GetInt("concurrency"),
		Logger:      logger,
	}
}

func dumpFiles(paths []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	opts := options(logger)

	var shortcuts []*lnk.Shortcut
	failed := 0
	for _, p := range paths {
		sc, err := lnk.Resolve(p, opts)
		if err != nil {
			logger.Error("failed to decode shortcut", zap.String("path", p), zap.Error(err))
			failed++
			continue
		}
		for _, w := range sc.Warnings {
			logger.Warn("recovered from malformed data", zap.String("path", p), zap.String("warning", w))
		}
		shortcuts = append(shortcuts, sc)
	}
	if len(shortcuts) > 0 {
		if err := render(os.Stdout, shortcuts, nil); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be decoded", failed, len(paths))
	}
	return nil
}

func scanDir(cmd *cobra.Command, dir string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	res, err := lnk.ScanDir(cmd.Context(), dir, options(logger))
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		logger.Warn("skipped shortcut", zap.String("path", s.Path), zap.String("reason", s.Reason))
	}
	return render(os.Stdout, res.Shortcuts, res.Skipped)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, ErrUsage) {
			_ = rootCmd.Usage()
		}
		os.Exit(1)
	}
}
