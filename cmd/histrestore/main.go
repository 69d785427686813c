package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"histrestore/internal/app"
	"histrestore/internal/config"
	"histrestore/internal/encryption"
)

func main() {
	// A .env file in the working directory may set HISTRESTORE_* variables.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the effective config: built-in defaults overlaid with the
// config file, when there is one.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	base := config.NewConfig(defaults["base_dir"], defaults["history_dir"])
	cfg, err := config.Load(defaults["config_path"], base)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config, lets mutate apply command line overrides and
// creates an HRApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command, mutate func(*config.Config)) (*app.HRApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewHRApp(cfg, app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "histrestore",
	Short:        "Restore files from Cursor local history",
	SilenceUsage: true,
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the newest snapshot of every file under a directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		restorePath, _ := flags.GetString("restore-path")
		startTime, _ := flags.GetString("start-time")
		endTime, _ := flags.GetString("end-time")
		dryRun, _ := flags.GetBool("dry-run")
		showTree, _ := flags.GetBool("tree")

		a, err := newApp(cmd, func(cfg *config.Config) { applyRestoreFlags(cmd, cfg) })
		if err != nil {
			return err
		}
		defer a.Close()

		req, err := a.NewRunRequest(app.RestoreOptions{
			RestorePath: restorePath,
			StartTime:   startTime,
			EndTime:     endTime,
			DryRun:      dryRun,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printHeader(out, a.HistoryDir(), req.Scan.RestorePath, a.OutputLocation(), req.Scan.Window)

		report, err := a.Run(req)
		if err != nil {
			return err
		}

		printReport(out, report, showTree)
		return nil
	},
}

// applyRestoreFlags copies explicitly set restore flags over the config.
func applyRestoreFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("history-dir") {
		cfg.HistoryDir, _ = flags.GetString("history-dir")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("days-back") {
		cfg.DaysBack, _ = flags.GetInt("days-back")
	}
	if flags.Changed("ignore-case") {
		fold, _ := flags.GetBool("ignore-case")
		cfg.IgnoreCase = &fold
	}
	if flags.Changed("exclude") {
		excludes, _ := flags.GetStringArray("exclude")
		cfg.Filesystem.Ignore = append(cfg.Filesystem.Ignore, excludes...)
	}
}

func addRestoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("history-dir", "d", "", "Directory containing Cursor history (default: platform history dir)")
	cmd.Flags().StringP("restore-path", "r", "", "Original directory path to restore (e.g. C:/Users/me/Projects/MyProject)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "Output directory for restored files")
	cmd.Flags().StringP("start-time", "s", "", "Start timestamp (YYYY-MM-DD HH:MM:SS), default: end minus days back")
	cmd.Flags().StringP("end-time", "e", "", "End timestamp (YYYY-MM-DD HH:MM:SS), default: now")
	cmd.Flags().IntP("days-back", "b", 7, "Number of days back to search (ignored if --start-time is given)")
	cmd.Flags().Bool("ignore-case", false, "Compare paths case-insensitively (default: true on Windows)")
	cmd.Flags().StringArrayP("exclude", "x", nil, "Glob of relative paths to skip (repeatable)")
	cmd.Flags().BoolP("dry-run", "n", false, "List what would be restored without writing anything")
	cmd.Flags().Bool("tree", false, "Print a tree of the restored files")
	cmd.MarkFlagRequired("restore-path")
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View journaled restore runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")

		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if !a.JournalEnabled() {
			fmt.Fprintln(out, "The restore journal is disabled; set [journal] type = \"sqlite\" in the config to record runs.")
			return nil
		}

		if runID != "" {
			files, err := a.GetRunFiles(runID)
			if err != nil {
				return err
			}
			printRunFiles(out, files)
			return nil
		}

		runs, err := a.GetHistory(limit)
		if err != nil {
			return err
		}
		printRuns(out, runs)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"], defaults["history_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(out, "History Dir: %s\n", cfg.HistoryDir)
		fmt.Fprintf(out, "Base Dir:    %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", path)
		m := &config.Manager{}
		return m.Write(out, cfg)
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the age key pair used for encrypted restores",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("creating key pair: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Fprintf(out, "Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		fmt.Fprintln(out, "Set [encryption] type = \"age\" in the config to encrypt restored files.")
		return nil
	},
}

// decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt FILE...",
	Short: "Decrypt age-encrypted restored files next to themselves",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if !enc.IsConfigured() {
			return fmt.Errorf("no key pair at %s: run `histrestore keys init`", cfg.Encryption.PrivateKeyPath)
		}

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		dc, err := enc.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking private key: %w", err)
		}

		out := cmd.OutOrStdout()
		var failed int
		for _, p := range args {
			plain, err := dc.DecryptFile(p)
			if err != nil {
				failed++
				fmt.Fprintf(out, "Error decrypting %s: %v\n", p, err)
				continue
			}
			fmt.Fprintf(out, "Decrypted: %s\n", plain)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be decrypted", failed, len(args))
		}
		return nil
	},
}

// readPassphrase prompts on stderr and reads a line from the terminal without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	addRestoreFlags(restoreCmd)

	// history flags
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")
	historyCmd.Flags().String("run", "", "List the files restored by one run")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// root commands
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(decryptCmd)
}
