package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/melon/internal/app"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.cfg
			cfg.Storage.AutoMigrate = false
			conn, err := app.OpenStore(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			res, err := conn.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			c.print(map[string]any{
				"driver":  conn.Name(),
				"applied": res.Applied,
				"skipped": res.Skipped,
			}, fmt.Sprintf("driver=%s applied=%v skipped=%v", conn.Name(), res.Applied, res.Skipped))
			return nil
		},
	}
}
