package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"logisticsmart/internal/auth"
	"logisticsmart/pkg/contracts/domain"
)

const minPasswordLength = 6

func newUsersCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administra as contas de acesso",
	}

	open := func() (*auth.Store, error) {
		return auth.Open(root.env.paths.UsersFile, root.env.cfg.Auth.SeedDefaults, root.env.logger)
	}

	cmd.AddCommand(newUsersListCmd(open))
	cmd.AddCommand(newUsersAddCmd(open))
	cmd.AddCommand(newUsersPasswdCmd(open))
	cmd.AddCommand(newUsersDeactivateCmd(open))
	return cmd
}

type storeOpener func() (*auth.Store, error)

func newUsersListCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista as contas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USUÁRIO\tNOME\tPERFIL\tATIVO")
			for _, u := range store.List() {
				active := "sim"
				if !u.Active {
					active = "não"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.Name, u.Role, active)
			}
			return tw.Flush()
		},
	}
}

func newUsersAddCmd(open storeOpener) *cobra.Command {
	var name, role, password string

	cmd := &cobra.Command{
		Use:   "add <usuário>",
		Short: "Cria uma conta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRole(role)
			if err != nil {
				return err
			}
			if password, err = passwordFrom(cmd, password); err != nil {
				return err
			}
			store, err := open()
			if err != nil {
				return err
			}
			user, err := store.CreateUser(args[0], password, name, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Usuário criado: %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "nome de exibição")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "perfil: viewer, user ou admin")
	cmd.Flags().StringVar(&password, "password", "", "senha (lida da entrada padrão quando omitida)")
	return cmd
}

func newUsersPasswdCmd(open storeOpener) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <usuário>",
		Short: "Troca a senha de uma conta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFrom(cmd, password)
			if err != nil {
				return err
			}
			store, err := open()
			if err != nil {
				return err
			}
			if err := store.UpdatePassword(args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Senha alterada: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "nova senha (lida da entrada padrão quando omitida)")
	return cmd
}

func newUsersDeactivateCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <usuário>",
		Short: "Desativa uma conta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			if err := store.Deactivate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Usuário desativado: %s\n", args[0])
			return nil
		},
	}
}

// parseRole rejects unknown roles instead of falling back to viewer
func parseRole(s string) (domain.UserRole, error) {
	r := domain.ParseUserRole(s)
	if string(r) != strings.ToLower(strings.TrimSpace(s)) {
		return "", fmt.Errorf("perfil desconhecido: %q", s)
	}
	return r, nil
}

// passwordFrom returns flag when set, otherwise the first line of stdin
func passwordFrom(cmd *cobra.Command, flag string) (string, error) {
	password := flag
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("falha ao ler senha: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("a senha deve ter pelo menos %d caracteres", minPasswordLength)
	}
	return password, nil
}
