package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/sentra-emo/internal/application"
)

func newTokenCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage provider tokens referenced as " + application.SecretTokenPrefix + "<name> in EMO_ONLINE_TOKENS",
	}

	cmd.AddCommand(
		newTokenPutCmd(loader),
		newTokenRemoveCmd(loader),
	)

	return cmd
}

func newTokenPutCmd(loader *appLoader) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "put <name>",
		Short: "Store a token; reads the value from stdin when --value is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			if value == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				value = line
			}
			value = strings.TrimSpace(value)
			if value == "" {
				return errors.New("token value is empty")
			}

			if err := app.secrets.Put(cmd.Context(), args[0], value); err != nil {
				return fmt.Errorf("store token %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored token %s; reference it as %s%s\n", args[0], application.SecretTokenPrefix, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "token value")

	return cmd
}

func newTokenRemoveCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored token",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			if err := app.secrets.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("remove token %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed token %s\n", args[0])
			return nil
		},
	}
}
