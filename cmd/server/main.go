package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statichq/webstand/internal/server"
	"github.com/statichq/webstand/internal/version"
)

const defaultDBPath = "data/webstand.db"

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12"))

var rootCmd = &cobra.Command{
	Use:     "webstand",
	Short:   "Webstand site server",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &server.Config{
			HTTP: server.HTTPConfig{
				Addr:     viper.GetString("addr"),
				CertFile: viper.GetString("cert_file"),
				KeyFile:  viper.GetString("key_file"),
			},
			DBPath:    viper.GetString("db_path"),
			RateLimit: viper.GetString("rate_limit"),
			CacheSize: viper.GetInt("cache_size"),
		}

		s, err := server.New(cfg)
		if err != nil {
			return err
		}

		// config is good, errors past this point are runtime failures
		cmd.SilenceUsage = true
		fmt.Println(headerStyle.Render(version.ShortWithApp()))

		defer slog.Info("Bye!")
		return s.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	rootCmd.Flags().StringP("cert", "c", "", "Path to the TLS certificate file")
	rootCmd.Flags().StringP("key", "k", "", "Path to the TLS key file")
	rootCmd.Flags().String("db", defaultDBPath, "Path to the access log database")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file")
}

func main() {
	// .env is optional, for local development
	_ = godotenv.Load()

	setupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	if os.Getenv("WEBSTAND_DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

func loadConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.webstand")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.BindPFlag("addr", cmd.Flags().Lookup("bind"))
	viper.BindPFlag("cert_file", cmd.Flags().Lookup("cert"))
	viper.BindPFlag("key_file", cmd.Flags().Lookup("key"))
	viper.BindPFlag("db_path", cmd.Flags().Lookup("db"))

	viper.SetDefault("rate_limit", "300-M")
	viper.SetDefault("cache_size", 16)

	viper.SetEnvPrefix("WEBSTAND")
	viper.AutomaticEnv()

	return nil
}
