package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/model"
)

var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Inspect and manage stored demo-request edits",
}

var overridesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored overrides",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		overrides, err := env.Store.ListOverrides(ctx, "")
		if err != nil {
			return eris.Wrap(err, "overrides: list")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(overrides)
	},
}

var (
	clearName   string
	clearEmail  string
	clearMobile string
)

var overridesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the stored override for one client identity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		id := model.NewIdentity(clearName, clearEmail, clearMobile)
		if err := env.Store.DeleteOverride(ctx, id); err != nil {
			return eris.Wrap(err, "overrides: clear")
		}
		zap.L().Info("override cleared", zap.String("identity", id.String()))
		return nil
	},
}

func init() {
	overridesClearCmd.Flags().StringVar(&clearName, "name", "", "client name (required)")
	overridesClearCmd.Flags().StringVar(&clearEmail, "email", "", "client email (required)")
	overridesClearCmd.Flags().StringVar(&clearMobile, "mobile", "", "client mobile")
	_ = overridesClearCmd.MarkFlagRequired("name")
	_ = overridesClearCmd.MarkFlagRequired("email")

	overridesCmd.AddCommand(overridesListCmd)
	overridesCmd.AddCommand(overridesClearCmd)
	rootCmd.AddCommand(overridesCmd)
}
