package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/clambin/warmup-bridge/internal/app"
	"github.com/clambin/warmup-bridge/internal/bridge"
	"github.com/clambin/warmup-bridge/internal/cmd/config"
	"github.com/clambin/warmup-bridge/internal/configflow"
	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	loginCmd  = newLoginCmd(viper.GetViper(), configflow.DefaultTokenFunc())
	roomsCmd  = newRoomsCmd(viper.GetViper(), app.NewAPIFactory(nil))
	removeCmd = newRemoveCmd(viper.GetViper())
)

func newLoginCmd(v *viper.Viper, getToken configflow.TokenFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Add a Warmup account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := bufio.NewReader(cmd.InOrStdin())
			email, err := flagOrPrompt(cmd, r, "email", "Email: ")
			if err != nil {
				return err
			}
			password, err := flagOrPrompt(cmd, r, "password", "Password: ")
			if err != nil {
				return err
			}

			logger := slog.Default().With("component", "configflow")
			flow := configflow.New(getToken, executor.New(1, logger), logger)
			result := flow.StepUser(cmd.Context(), &configflow.UserInput{Email: email, Password: password})
			entry, ok := result.ConfigEntry()
			if !ok {
				return fmt.Errorf("login failed: %s", result.Errors["base"].Message())
			}
			if entry, err = host.NewEntryStore(v.GetString("entries")).Add(entry); err != nil {
				return fmt.Errorf("entries: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s as %s\n", email, entry.EntryID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Warmup account email (prompted if not set)")
	cmd.Flags().String("password", "", "Warmup account password (prompted if not set)")
	return cmd
}

func flagOrPrompt(cmd *cobra.Command, r *bufio.Reader, flag, prompt string) (string, error) {
	if value, _ := cmd.Flags().GetString(flag); value != "" {
		return value, nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%s: %w", flag, err)
	}
	return strings.TrimSpace(line), nil
}

func newRoomsCmd(v *viper.Viper, factory bridge.APIFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Show the locations and rooms of all configured Warmup accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := host.NewEntryStore(v.GetString("entries")).Load()
			if err != nil {
				return fmt.Errorf("entries: %w", err)
			}
			var e config.Encoder
			switch output, _ := cmd.Flags().GetString("output"); output {
			case "json":
				e = json.NewEncoder(cmd.OutOrStdout())
			case "yaml":
				e = yaml.NewEncoder(cmd.OutOrStdout())
			default:
				return fmt.Errorf("invalid output format: %q", output)
			}
			for _, entry := range entries {
				if entry.Domain != configflow.Domain {
					continue
				}
				email := entry.Data[configflow.FieldEmail]
				api := factory(email, entry.Data[configflow.FieldAccessToken])
				if err = config.ShowConfig(cmd.Context(), email, api, e); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "yaml", "Output format (yaml|json)")
	return cmd
}

func newRemoveCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove a Warmup account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := host.NewEntryStore(v.GetString("entries")).Remove(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", entry.Data[configflow.FieldEmail])
			return nil
		},
	}
}
