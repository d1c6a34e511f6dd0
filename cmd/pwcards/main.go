package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"pwcards/internal/api"
	"pwcards/internal/app"
	"pwcards/internal/cards"
	"pwcards/internal/config"
	"pwcards/internal/model"
	"pwcards/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// readConfig reads the config file from its default location.
func readConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a PasswordApp. The caller must defer app.Close().
// Notifications are printed to stderr.
func newApp(cmd *cobra.Command) (*app.PasswordApp, error) {
	return newAppWith(cmd, app.Options{
		Notifier: cards.NotifierFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		}),
	})
}

func newAppWith(cmd *cobra.Command, opts app.Options) (*app.PasswordApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	opts.Command = cmd.CommandPath()
	a, err := app.NewPasswordApp(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:           "pwcards",
	Short:         "Password cards client",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
			cfg.API.BaseURL = baseURL
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Server:   %s\n", cfg.API.BaseURL)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Println("Run 'pwcards db migrate' to create the history database.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("API:        %s %s (timeout %s)\n", cfg.API.Type, cfg.API.BaseURL, cfg.API.Timeout)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Encryption: %s %s\n", cfg.Encryption.Type, cfg.Encryption.PublicKeyPath)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:      %s (%s)\n", v.Name, v.Type)
		}
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List password cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.ListEntries(cmd.Context(), search)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println(a.Session.List.EmptyMessage())
			return nil
		}
		printEntries(entries)
		return nil
	},
}

// add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a password card",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		draft := cards.Draft{}
		draft.URL, _ = flags.GetString("url")
		draft.Name, _ = flags.GetString("name")
		draft.Username, _ = flags.GetString("username")
		draft.Password, _ = flags.GetString("password")

		if !flags.Changed("password") {
			pw, err := promptSecret("Password")
			if err != nil {
				return err
			}
			draft.Password = pw
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.AddEntry(cmd.Context(), draft)
		if err != nil {
			return err
		}

		fmt.Printf("Created %s (%s)\n", entry.Name, entry.ID)
		return nil
	},
}

// edit command
var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Update a password card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := map[string]string{}
		for _, name := range []string{cards.FieldURL, cards.FieldName, cards.FieldUsername, cards.FieldPassword} {
			if cmd.Flags().Changed(name) {
				changes[name], _ = cmd.Flags().GetString(name)
			}
		}
		if prompt, _ := cmd.Flags().GetBool("prompt-password"); prompt {
			pw, err := promptSecret("New password")
			if err != nil {
				return err
			}
			changes[cards.FieldPassword] = pw
		}
		if len(changes) == 0 {
			return fmt.Errorf("nothing to change: pass at least one of --url, --name, --username, --password")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.EditEntry(cmd.Context(), args[0], changes)
		if err != nil {
			return err
		}

		fmt.Printf("Updated %s (%s)\n", entry.Name, entry.ID)
		return nil
	},
}

// rm command
var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a password card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveEntry(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// copy command
var copyCmd = &cobra.Command{
	Use:   "copy ID",
	Short: "Copy a password to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.CopyPassword(cmd.Context(), args[0])
	},
}

// tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit password cards interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := tui.NewNotifications()
		a, err := newAppWith(cmd, app.Options{Notifier: notes, Quiet: true})
		if err != nil {
			return err
		}
		defer a.Close()

		return tui.Run(cmd.Context(), a.Session, notes)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var ops []*model.Operation
		if entryID, _ := cmd.Flags().GetString("entry"); entryID != "" {
			ops, err = a.GetEntryHistory(entryID)
		} else {
			ops, err = a.GetHistory(limit)
		}
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}
		printOperations(ops)
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage encrypted backups",
}

var backupInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate backup keys and check the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ValidateVault(cmd.Context()); err != nil {
			return fmt.Errorf("checking vault: %w", err)
		}

		passphrase, err := promptNewPassphrase()
		if err != nil {
			return err
		}
		if err := a.InitBackupKeys(passphrase); err != nil {
			return err
		}

		fmt.Println("Backup keys created. Keep the passphrase safe: it cannot be recovered.")
		return nil
	},
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an encrypted backup to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		name, count, err := a.Backups.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported %d card(s) to %s\n", count, name)
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import NAME",
	Short: "Restore password cards from a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := promptSecret("Passphrase")
		if err != nil {
			return err
		}

		saved, err := a.Backups.Import(cmd.Context(), args[0], passphrase)
		if err != nil {
			return fmt.Errorf("import failed after %d card(s): %w", saved, err)
		}

		fmt.Printf("Imported %d card(s)\n", saved)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.Backups.ListBackups(cmd.Context())
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the history database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply history database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}
		if err := app.MigrateDatabase(cfg); err != nil {
			return err
		}
		fmt.Println("History database is up to date.")
		return nil
	},
}

// dev-server command
var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Serve an in-memory password cards backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		logger := app.NewConsoleLogger(os.Stderr, app.NewInvocation("dev-server", time.Now()).ID)

		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewHandler(api.NewMemoryAPI(), logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("base-url", "", "Password cards server URL (default "+config.DefaultBaseURL+")")

	// entry commands
	listCmd.Flags().StringP("search", "s", "", "Only show cards whose name contains this text")

	addCmd.Flags().String("url", "", "Login URL")
	addCmd.Flags().String("name", "", "Display name")
	addCmd.Flags().String("username", "", "Username")
	addCmd.Flags().String("password", "", "Password (prompted when omitted)")

	editCmd.Flags().String("url", "", "New login URL")
	editCmd.Flags().String("name", "", "New display name")
	editCmd.Flags().String("username", "", "New username")
	editCmd.Flags().String("password", "", "New password")
	editCmd.Flags().Bool("prompt-password", false, "Prompt for the new password")
	editCmd.MarkFlagsMutuallyExclusive("password", "prompt-password")

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	historyCmd.Flags().String("entry", "", "Show every operation on this card id")

	// backup subcommands
	backupCmd.AddCommand(backupInitCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	backupCmd.AddCommand(backupListCmd)

	dbCmd.AddCommand(dbMigrateCmd)

	devServerCmd.Flags().String("addr", ":8000", "Listen address")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(devServerCmd)
}
