// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/barrel/internal/barrel"
	"github.com/temirov/barrel/internal/config"
	"github.com/temirov/barrel/internal/output"
	"github.com/temirov/barrel/internal/services/clipboard"
	"github.com/temirov/barrel/internal/services/notify"
	"github.com/temirov/barrel/internal/services/prompt"
	"github.com/temirov/barrel/internal/types"
	"github.com/temirov/barrel/internal/utils"
)

const (
	exclusionFlagName    = "e"
	noIgnoreFlagName     = "no-ignore"
	gitignoreFlagName    = "gitignore"
	formatFlagName       = "format"
	onConflictFlagName   = "on-conflict"
	extensionFlagName    = "extension"
	copyFlagName         = "copy"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "barrel version: %s\n"
	initCompletedFormat  = "configuration written to %s\n"
	defaultPath          = "."
	rootUse              = "barrel"
	rootShortDescription = "barrel command line interface"
	rootLongDescription  = `barrel writes aggregator ("barrel") files that re-export every source file of a directory tree.
Each directory gets <directory>.dart, or index.dart when <directory>.dart holds regular code.
Use generate to write the files and init to create a configuration file.`
	generateUse              = "generate [paths...]"
	generateAlias            = "g"
	generateShortDescription = "write aggregator files recursively (" + generateAlias + ")"
	// generateLongDescription provides detailed help for the generate command.
	generateLongDescription = `Walk each path depth-first and write one aggregator file per directory.
Hidden entries, l10n folders and *.g.dart files are skipped, as are paths matched by .barrelignore and -e patterns.
When an aggregator already exists, --on-conflict decides whether to prompt, overwrite, or skip.`
	// generateUsageExample demonstrates generate command usage.
	generateUsageExample = `  # Generate aggregators for lib, asking before overwriting
  barrel generate lib

  # Regenerate everything without prompting and print a JSON report
  barrel g --on-conflict overwrite --format json lib

  # Exclude generated code
  barrel generate -e generated/ -e "*.freezed.dart" lib`
	initUse              = "init"
	initShortDescription = "create a configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + `, or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`

	versionFlagDescription    = "display application version"
	verboseFlagDescription    = "enable debug logging"
	configFlagDescription     = "path to a configuration file used instead of ./" + utils.ConfigFileName
	exclusionFlagDescription  = "exclude path pattern"
	noIgnoreFlagDescription   = "do not use " + utils.IgnoreFileName
	gitignoreFlagDescription  = "also use " + utils.GitIgnoreFileName
	formatFlagDescription     = "report format"
	onConflictFlagDescription = "how to handle existing aggregator files"
	extensionFlagDescription  = "source file extension"
	copyFlagDescription       = "copy the report to the clipboard"
	globalFlagDescription     = "write the global configuration instead of the local one"
	forceFlagDescription      = "overwrite an existing configuration file"

	nonInteractiveFallbackMessage = "standard input is not a terminal; existing aggregator files will be skipped"
	skippingRootMessage           = "skipping path: not a directory"
	pathFieldName                 = "path"

	invalidFormatMessage        = "Invalid format value '%s'"
	configurationErrorFormat    = "loading configuration: %w"
	ignorePatternsErrorFormat   = "loading ignore patterns for %s: %w"
	generatorErrorFormat        = "creating generator: %w"
	generationErrorFormat       = "generating aggregators in %s: %w"
	renderErrorFormat           = "rendering report: %w"
	clipboardErrorFormat        = "copying report: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
)

var (
	supportedFormats  = []string{types.FormatRaw, types.FormatJSON, types.FormatXML}
	supportedPolicies = []string{string(prompt.PolicyPrompt), string(prompt.PolicyOverwrite), string(prompt.PolicySkip)}
)

// application carries the process-level collaborators shared by every command.
type application struct {
	stdin            *os.File
	stdout           io.Writer
	stderr           io.Writer
	workingDirectory string
	homeDirectory    string
	copier           clipboard.Copier
	newLogger        func(verbose bool) (*zap.Logger, error)
	newPrompter      func(policy prompt.Policy, input *os.File, output io.Writer) (barrel.Prompter, prompt.Policy)

	configFilePath string
	verbose        bool
	logger         *zap.Logger
}

func newApplication() *application {
	return &application{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		copier:      clipboard.NewService(),
		newLogger:   utils.NewApplicationLogger,
		newPrompter: prompt.NewPrompter,
	}
}

// Execute runs the barrel application. An interrupt cancels any pending prompt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApplication()
	rootCommand := createRootCommand(app)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	defer app.sync()
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app *application) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, printError := fmt.Fprintf(app.stdout, versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.initializeLogger()
		},
	}
	rootCommand.SetOut(app.stdout)
	rootCommand.SetErr(app.stderr)
	registerBooleanFlag(rootCommand.Flags(), &showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(app),
		createInitCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// generateOptions stores the command-line values of the generate command.
type generateOptions struct {
	exclusionPatterns []string
	disableIgnoreFile bool
	useGitignore      bool
	format            string
	onConflict        string
	extension         string
	copyToClipboard   bool
}

// generateSettings is the outcome of layering defaults, configuration files, and flags.
type generateSettings struct {
	exclusionPatterns []string
	useIgnoreFile     bool
	useGitignore      bool
	format            string
	policy            prompt.Policy
	extension         string
	skip              barrel.SkipFilter
	copyToClipboard   bool
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(app *application) *cobra.Command {
	var options generateOptions

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			settings, settingsError := app.resolveGenerateSettings(command, options)
			if settingsError != nil {
				return settingsError
			}
			return app.runGenerate(command.Context(), arguments, settings)
		},
	}

	flagSet := generateCommand.Flags()
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(flagSet, &options.disableIgnoreFile, noIgnoreFlagName, false, noIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &options.useGitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	registerChoiceFlag(flagSet, &options.format, formatFlagName, types.FormatRaw, supportedFormats, formatFlagDescription)
	registerChoiceFlag(flagSet, &options.onConflict, onConflictFlagName, string(prompt.PolicyPrompt), supportedPolicies, onConflictFlagDescription)
	flagSet.StringVar(&options.extension, extensionFlagName, barrel.DefaultExtension, extensionFlagDescription)
	return generateCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(app *application) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.workingDirectory,
				HomeDirectory:    app.homeDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(app.stdout, initCompletedFormat, destinationPath)
			return printError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func (app *application) initializeLogger() error {
	if app.logger != nil {
		return nil
	}
	logger, loggerError := app.newLogger(app.verbose)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	app.logger = logger
	return nil
}

func (app *application) sync() {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// resolveGenerateSettings layers built-in defaults, configuration files, and explicitly set flags, in that order.
func (app *application) resolveGenerateSettings(command *cobra.Command, options generateOptions) (generateSettings, error) {
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.workingDirectory,
		ExplicitFilePath: app.configFilePath,
		HomeDirectory:    app.homeDirectory,
	})
	if configurationError != nil {
		return generateSettings{}, fmt.Errorf(configurationErrorFormat, configurationError)
	}
	configured := configuration.Generate
	flags := command.Flags()

	settings := generateSettings{
		exclusionPatterns: append(append([]string{}, configured.Paths.Exclude...), options.exclusionPatterns...),
		useIgnoreFile:     true,
		useGitignore:      false,
		format:            types.FormatRaw,
		extension:         barrel.DefaultExtension,
		skip:              barrel.DefaultSkipFilter(),
	}
	policyValue := string(prompt.PolicyPrompt)

	if configured.Paths.UseIgnoreFile != nil {
		settings.useIgnoreFile = *configured.Paths.UseIgnoreFile
	}
	if configured.Paths.UseGitignore != nil {
		settings.useGitignore = *configured.Paths.UseGitignore
	}
	if configured.Format != "" {
		settings.format = configured.Format
	}
	if configured.OnConflict != "" {
		policyValue = configured.OnConflict
	}
	if configured.Extension != "" {
		settings.extension = configured.Extension
	}
	if configured.Copy != nil {
		settings.copyToClipboard = *configured.Copy
	}
	if configured.Skip.Folders != nil {
		settings.skip.Folders = configured.Skip.Folders
	}
	if configured.Skip.Suffixes != nil {
		settings.skip.Suffixes = configured.Skip.Suffixes
	}

	if flags.Changed(noIgnoreFlagName) {
		settings.useIgnoreFile = !options.disableIgnoreFile
	}
	if flags.Changed(gitignoreFlagName) {
		settings.useGitignore = options.useGitignore
	}
	if flags.Changed(formatFlagName) {
		settings.format = options.format
	}
	if flags.Changed(onConflictFlagName) {
		policyValue = options.onConflict
	}
	if flags.Changed(extensionFlagName) {
		settings.extension = options.extension
	}
	if flags.Changed(copyFlagName) {
		settings.copyToClipboard = options.copyToClipboard
	}

	if !isSupportedFormat(settings.format) {
		return generateSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	policy, policyError := prompt.ParsePolicy(policyValue)
	if policyError != nil {
		return generateSettings{}, policyError
	}
	settings.policy = policy
	return settings, nil
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// runGenerate generates every root in order and prints one combined report.
// A prompt failure in any root stops the run; roots that are missing or not directories are reported and skipped.
func (app *application) runGenerate(ctx context.Context, paths []string, settings generateSettings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(app.workingDirectory, paths)
	if pathValidationError != nil {
		return pathValidationError
	}

	prompter, effectivePolicy := app.newPrompter(settings.policy, app.stdin, app.stderr)
	if effectivePolicy != settings.policy {
		app.logger.Warn(nonInteractiveFallbackMessage)
	}
	notifier := notify.NewService(app.logger)

	reports := make([]types.GenerationReport, 0, len(validatedPaths))
	for _, rootPath := range validatedPaths {
		var ignorePatterns []string
		if rootPath.IsDir {
			patterns, loadError := config.LoadRecursiveIgnorePatterns(rootPath.AbsolutePath, settings.exclusionPatterns, settings.useGitignore, settings.useIgnoreFile)
			if loadError != nil {
				return fmt.Errorf(ignorePatternsErrorFormat, rootPath.AbsolutePath, loadError)
			}
			ignorePatterns = patterns
		} else {
			app.logger.Warn(skippingRootMessage, zap.String(pathFieldName, rootPath.AbsolutePath))
		}
		app.logger.Debug("ignore patterns", zap.String(pathFieldName, rootPath.AbsolutePath), zap.Strings("patterns", ignorePatterns))

		generator, generatorError := barrel.NewGenerator(barrel.Options{
			Extension:      settings.extension,
			Skip:           settings.skip,
			IgnorePatterns: ignorePatterns,
		}, prompter, notifier, app.logger)
		if generatorError != nil {
			return fmt.Errorf(generatorErrorFormat, generatorError)
		}
		report, generateError := generator.Generate(ctx, rootPath.AbsolutePath)
		reports = append(reports, report)
		if generateError != nil {
			return fmt.Errorf(generationErrorFormat, rootPath.AbsolutePath, generateError)
		}
	}

	rendered, renderError := output.Render(settings.format, reports)
	if renderError != nil {
		return fmt.Errorf(renderErrorFormat, renderError)
	}
	if _, printError := fmt.Fprintln(app.stdout, strings.TrimSuffix(rendered, "\n")); printError != nil {
		return printError
	}
	if settings.copyToClipboard {
		if copyError := app.copier.Copy(rendered); copyError != nil {
			return fmt.Errorf(clipboardErrorFormat, copyError)
		}
	}
	return nil
}

// resolveAndValidatePaths converts input paths to absolute form and records whether each is a directory.
// Relative paths are resolved against workingDirectory when it is set. Duplicates are dropped. Missing paths are
// kept with IsDir false so generation reports them as no-ops.
func resolveAndValidatePaths(workingDirectory string, inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		candidatePath := inputPath
		if workingDirectory != "" && !filepath.IsAbs(candidatePath) {
			candidatePath = filepath.Join(workingDirectory, candidatePath)
		}
		absolutePath, absolutePathError := filepath.Abs(candidatePath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		seen[cleanPath] = struct{}{}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil && !os.IsNotExist(fileStatusError) {
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: fileStatusError == nil && info.IsDir()})
	}
	return result, nil
}
