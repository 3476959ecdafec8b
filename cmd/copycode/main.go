package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/agusx1211/copycode/internal/bundle"
	"github.com/agusx1211/copycode/internal/source"
)

var version = "dev"

// settings layers flags over COPYCODE_* environment variables.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "copycode [directory | file...]",
	Short: "Copycode gathers source files into a single prompt-ready blob",
	Long: `Copycode collects the contents of a directory, or of the given files, into one
block of text. Every file is introduced by its relative path and wrapped in a
fenced code block tagged with its language; binary files are listed by name only.

Directories are walked recursively, skipping version control data, dependency
and build folders, lockfiles and anything matched by the root .gitignore.
Output stops before it would exceed the byte budget (15 MiB by default).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCopy,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("root", "", "Directory that file arguments are displayed relative to (default: working directory)")
	flags.Int("max-bytes", bundle.DefaultBudget, "Maximum size of the output in bytes")
	flags.StringP("profile", "p", "", "Profile from the .copycode file to apply")
	flags.StringSliceP("include", "i", nil, "Only include files matching these glob patterns")
	flags.StringSliceP("exclude", "e", nil, "Exclude paths matching these gitignore-style patterns")
	flags.StringArray("lang", nil, "Language tag for a file, as PATH=LANGUAGE (repeatable)")
	flags.Bool("print", false, "Write the output to stdout")
	flags.Bool("copy", false, "Copy the output to the system clipboard")
	flags.Bool("ssh-copy", false, "Copy the output through the terminal using OSC 52 (works over SSH)")
	flags.String("set-default-output", "", "Store the default output mode (print, copy, or ssh-copy) in ~/.copycode and exit")
	flags.Bool("tokens", false, "Report the token count of the output on stderr")
	flags.Bool("tokens-detailed", false, "Report token counts per file on stderr")
	flags.String("model", "gpt-4o", "Model whose tokenizer is used for token counts")
	flags.Int("concurrency", bundle.DefaultConcurrency, "Number of directories listed in parallel")
	flags.BoolP("verbose", "v", false, "Log every included and skipped path")

	if err := settings.BindPFlags(flags); err != nil {
		panic(err)
	}
	// COPYCODE_OUTPUT picks the output mode when no output flag is given.
	settings.SetDefault("output", "")
	settings.SetEnvPrefix("COPYCODE")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
}

// invocation describes what the positional arguments asked for.
type invocation struct {
	dir         string
	files       []string
	displayRoot string
	// configDir is where the .copycode project file is looked up.
	configDir string
}

// parseArgs accepts either a single directory or any number of files.
// Arguments that cannot be stat'ed are treated as files so the aggregation
// reports them as missing.
func parseArgs(args []string, root string) (invocation, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var dirs []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			dirs = append(dirs, arg)
		}
	}
	if len(dirs) > 0 {
		if len(args) > 1 {
			return invocation{}, fmt.Errorf("%s is a directory; pass a single directory or only files", dirs[0])
		}
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return invocation{}, fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		return invocation{dir: dir, displayRoot: dir, configDir: dir}, nil
	}

	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return invocation{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return invocation{}, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	files := make([]string, len(args))
	for i, arg := range args {
		if files[i], err = filepath.Abs(arg); err != nil {
			return invocation{}, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
	}
	return invocation{files: files, displayRoot: root, configDir: root}, nil
}

func parseLanguageOverrides(raw []string) (source.DocumentMap, error) {
	docs := source.DocumentMap{}
	for _, r := range raw {
		path, lang, err := source.ParseDocumentOverride(r)
		if err != nil {
			return nil, err
		}
		docs.Set(path, lang)
	}
	return docs, nil
}

// resolveMode applies flags, then COPYCODE_OUTPUT, then ~/.copycode.
func resolveMode(logger *zap.Logger) (outputMode, error) {
	var fallback outputMode
	if env := settings.GetString("output"); env != "" {
		mode, err := parseOutputMode(env)
		if err != nil {
			return "", fmt.Errorf("COPYCODE_OUTPUT: %w", err)
		}
		fallback = mode
	} else if path, err := homeSettingsPath(); err != nil {
		logger.Debug("no home directory; using print by default", zap.Error(err))
	} else if fallback, err = readDefaultOutput(path); err != nil {
		return "", err
	}
	return selectOutputMode(fallback, settings.GetBool("print"), settings.GetBool("copy"), settings.GetBool("ssh-copy"))
}

// engineOptions merges project rules with the flag patterns. The merged slices
// are always freshly allocated so rules is never written through.
func engineOptions(rules projectRules, include, exclude []string, docs source.Documents, logger *zap.Logger) bundle.Options {
	return bundle.Options{
		Documents:   docs,
		Logger:      logger,
		Budget:      settings.GetInt("max-bytes"),
		Includes:    slices.Concat(rules.include, include),
		Excludes:    slices.Concat(rules.exclude, exclude),
		Concurrency: settings.GetInt("concurrency"),
	}
}

func runCopy(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(settings.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer syncLogger(logger)

	if raw := settings.GetString("set-default-output"); raw != "" {
		return storeDefaultOutput(cmd.ErrOrStderr(), raw)
	}

	inv, err := parseArgs(args, settings.GetString("root"))
	if err != nil {
		return err
	}
	mode, err := resolveMode(logger)
	if err != nil {
		return err
	}
	rules, err := loadProjectRules(inv.configDir, settings.GetString("profile"))
	if err != nil {
		return err
	}
	if rules.profile != "" {
		logger.Debug("using profile", zap.String("profile", rules.profile))
	}
	langFlags, err := cmd.Flags().GetStringArray("lang")
	if err != nil {
		return err
	}
	docs, err := parseLanguageOverrides(langFlags)
	if err != nil {
		return err
	}

	engine, err := bundle.NewEngine(engineOptions(rules, settings.GetStringSlice("include"), settings.GetStringSlice("exclude"), docs, logger))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var result bundle.Result
	if inv.dir != "" {
		result, err = engine.AggregateDirectory(ctx, inv.dir)
	} else {
		result, err = engine.AggregateFiles(ctx, inv.files, inv.displayRoot)
	}
	if err != nil {
		return err
	}
	if result.Processed == 0 {
		logger.Warn("no files to copy")
		return nil
	}

	if err := deliver(mode, result.Content, cmd.OutOrStdout()); err != nil {
		return err
	}
	reportSummary(cmd.ErrOrStderr(), logger, mode, result, engine.Budget())

	if settings.GetBool("tokens") || settings.GetBool("tokens-detailed") {
		model := settings.GetString("model")
		tok, err := newTokenizer(model)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.ErrOrStderr(), buildTokenReport(result, tok, model, settings.GetBool("tokens-detailed")))
	}
	return nil
}

func storeDefaultOutput(w io.Writer, raw string) error {
	mode, err := parseOutputMode(raw)
	if err != nil {
		return err
	}
	path, err := homeSettingsPath()
	if err != nil {
		return err
	}
	if err := writeDefaultOutput(path, mode); err != nil {
		return err
	}
	fmt.Fprintf(w, "Default output set to %s in %s\n", mode, path)
	return nil
}

func deliver(mode outputMode, content string, stdout io.Writer) error {
	var c copier
	switch mode {
	case outputPrint:
		if _, err := io.WriteString(stdout, content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	case outputCopy:
		c = systemClipboard{}
	case outputSSHCopy:
		f, ok := stdout.(*os.File)
		if !ok {
			return errors.New("--ssh-copy requires stdout to be a terminal")
		}
		osc, err := newOSC52Clipboard(f)
		if err != nil {
			return err
		}
		c = osc
	default:
		return fmt.Errorf("unknown output mode %q", mode)
	}
	return c.Copy(content)
}

func reportSummary(w io.Writer, logger *zap.Logger, mode outputMode, result bundle.Result, budget int) {
	noun := "files"
	if result.Processed == 1 {
		noun = "file"
	}
	switch mode {
	case outputPrint:
		fmt.Fprintf(w, "%d %s, %d bytes\n", result.Processed, noun, len(result.Content))
	default:
		fmt.Fprintf(w, "Copied %d %s (%d bytes) to the clipboard\n", result.Processed, noun, len(result.Content))
	}
	if result.StoppedEarly {
		logger.Warn("stopped early: byte budget reached", zap.Int("budget", budget))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
