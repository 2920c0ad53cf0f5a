package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/melon/internal/app"
	dto "github.com/dropDatabas3/melon/internal/http/dto/auth"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
)

func newAccountCmd(c *cli) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Operaciones sobre cuentas locales",
	}
	accountCmd.AddCommand(newAccountCreateCmd(c))
	accountCmd.AddCommand(newAccountTokenCmd(c))
	return accountCmd
}

// withAccounts abre solo el store; no hace falta cache ni providers.
func withAccounts(ctx context.Context, c *cli, fn func(*svc.AccountService) error) error {
	conn, err := app.OpenStore(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	policy, err := app.PasswordPolicy(c.cfg)
	if err != nil {
		return err
	}
	return fn(svc.NewAccountService(conn, policy, app.KnownProviders))
}

func newAccountCreateCmd(c *cli) *cobra.Command {
	var req svc.CreateAccountRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una cuenta con contraseña",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd.Context(), c, func(accounts *svc.AccountService) error {
				acc, err := accounts.Create(cmd.Context(), req)
				if err != nil {
					return err
				}
				c.print(dto.NewUserSummary(svc.Summarize(acc)), fmt.Sprintf("created %s (%s)", acc.Username, acc.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "Username (requerido)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Contraseña (requerido)")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "Nombre visible")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountTokenCmd(c *cli) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Devuelve el token de la cuenta, creándolo si no existe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd.Context(), c, func(accounts *svc.AccountService) error {
				tok, err := accounts.IssueToken(cmd.Context(), username)
				if err != nil {
					return err
				}
				c.print(map[string]string{"username": username, "token": tok.Key}, tok.Key)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username (requerido)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
