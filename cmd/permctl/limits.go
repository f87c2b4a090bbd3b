package main

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/permsdk/models"
)

var limitCmd = &cobra.Command{
	Use:   "limit",
	Short: "Manage resource limits",
}

var limitSetCmd = &cobra.Command{
	Use:   "set <subject>",
	Short: "Create or update a resource limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceType, _ := cmd.Flags().GetString("resource")
		scope, _ := cmd.Flags().GetString("scope")
		value, _ := cmd.Flags().GetInt64("value")
		window, _ := cmd.Flags().GetString("window")
		tenantID, _ := cmd.Flags().GetString("tenant")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		detail, err := client.SetLimit(cmd.Context(), models.SetLimitRequest{
			Subject:      args[0],
			ResourceType: resourceType,
			Scope:        scope,
			LimitValue:   value,
			WindowType:   models.WindowType(window),
			TenantID:     tenantID,
		})
		if err != nil {
			return err
		}
		return printJSON(detail)
	},
}

var limitCheckCmd = &cobra.Command{
	Use:   "check <subject>",
	Short: "Check whether consuming an amount would exceed a limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceType, _ := cmd.Flags().GetString("resource")
		scope, _ := cmd.Flags().GetString("scope")
		amount, _ := cmd.Flags().GetInt64("amount")
		tenantID, _ := cmd.Flags().GetString("tenant")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.CheckLimit(cmd.Context(), models.CheckLimitRequest{
			Subject:      args[0],
			ResourceType: resourceType,
			Scope:        scope,
			Amount:       amount,
			TenantID:     tenantID,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var limitIncrCmd = &cobra.Command{
	Use:   "incr <subject>",
	Short: "Consume units against a limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceType, _ := cmd.Flags().GetString("resource")
		scope, _ := cmd.Flags().GetString("scope")
		amount, _ := cmd.Flags().GetInt64("amount")
		tenantID, _ := cmd.Flags().GetString("tenant")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.IncrementUsage(cmd.Context(), models.IncrementUsageRequest{
			Subject:      args[0],
			ResourceType: resourceType,
			Scope:        scope,
			Amount:       amount,
			TenantID:     tenantID,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var limitResetCmd = &cobra.Command{
	Use:   "reset <subject>",
	Short: "Reset a usage counter to zero",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceType, _ := cmd.Flags().GetString("resource")
		scope, _ := cmd.Flags().GetString("scope")
		tenantID, _ := cmd.Flags().GetString("tenant")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.ResetUsage(cmd.Context(), models.ResetUsageRequest{
			Subject:      args[0],
			ResourceType: resourceType,
			Scope:        scope,
			TenantID:     tenantID,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage <subject>",
	Short: "Show current usage of a limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceType, _ := cmd.Flags().GetString("resource")
		scope, _ := cmd.Flags().GetString("scope")
		tenantID, _ := cmd.Flags().GetString("tenant")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		detail, err := client.GetUsage(cmd.Context(), args[0], resourceType, scope, tenantID, "")
		if err != nil {
			return err
		}
		return printJSON(detail)
	},
}

func init() {
	limitCmd.AddCommand(limitSetCmd, limitCheckCmd, limitIncrCmd, limitResetCmd)

	for _, c := range []*cobra.Command{limitSetCmd, limitCheckCmd, limitIncrCmd, limitResetCmd, usageCmd} {
		c.Flags().String("resource", "", "resource type, e.g. api_calls")
		c.Flags().String("scope", "", "limit scope")
		c.Flags().String("tenant", "", "tenant scoping")
		_ = c.MarkFlagRequired("resource")
		_ = c.MarkFlagRequired("scope")
	}
	limitSetCmd.Flags().Int64("value", 0, "limit value")
	limitSetCmd.Flags().String("window", "monthly", "window type: hourly, daily, monthly, total")
	_ = limitSetCmd.MarkFlagRequired("value")
	limitCheckCmd.Flags().Int64("amount", 1, "amount to check")
	limitIncrCmd.Flags().Int64("amount", 1, "amount to consume")
}
