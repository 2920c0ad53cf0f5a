package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/melon/internal/config"
	"github.com/dropDatabas3/melon/internal/observability/logger"
)

// cli estado compartido entre subcomandos.
type cli struct {
	configPath string
	envFile    string
	outFormat  string // "json" | "text"
	out        io.Writer
	cfg        *config.Config
}

func (c *cli) print(v any, text string) {
	if c.outFormat == "json" {
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(c.out, string(b))
		return
	}
	fmt.Fprintln(c.out, text)
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{
		configPath: envOr("MELON_CONFIG", ""),
		envFile:    ".env",
		outFormat:  "text",
		out:        out,
	}

	root := &cobra.Command{
		Use:           "melon",
		Short:         "Bridge de autenticación: password o token externo -> token opaco",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional; solo fallan errores distintos de "no existe"
			if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("env file %s: %w", c.envFile, err)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				Output:      cfg.Log.Output,
				ServiceName: cfg.App.Name,
				Version:     cfg.App.Version,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "Ruta al YAML de configuración (env MELON_CONFIG)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", c.envFile, "Archivo .env a cargar antes de la configuración")
	root.PersistentFlags().StringVar(&c.outFormat, "out", c.outFormat, "Formato de salida: json|text")

	root.AddCommand(newServeCmd(c))
	root.AddCommand(newMigrateCmd(c))
	root.AddCommand(newAccountCmd(c))
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
