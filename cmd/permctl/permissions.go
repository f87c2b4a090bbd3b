package main

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/permsdk/models"
)

var checkCmd = &cobra.Command{
	Use:   "check <subject>...",
	Short: "Check whether any subject holds a permission",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		action, _ := cmd.Flags().GetString("action")
		tenantID, _ := cmd.Flags().GetString("tenant")
		objectID, _ := cmd.Flags().GetString("object")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.CheckPermission(cmd.Context(), models.CheckRequest{
			Subjects: args,
			Scope:    scope,
			Action:   action,
			TenantID: tenantID,
			ObjectID: objectID,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant <subject>",
	Short: "Grant a permission to a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		action, _ := cmd.Flags().GetString("action")
		tenantID, _ := cmd.Flags().GetString("tenant")
		objectID, _ := cmd.Flags().GetString("object")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		assignment, err := client.GrantPermission(cmd.Context(), models.GrantRequest{
			Subject:  args[0],
			Scope:    scope,
			Action:   action,
			TenantID: tenantID,
			ObjectID: objectID,
		})
		if err != nil {
			return err
		}
		return printJSON(assignment)
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <subject>",
	Short: "Revoke a permission from a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		action, _ := cmd.Flags().GetString("action")
		tenantID, _ := cmd.Flags().GetString("tenant")
		objectID, _ := cmd.Flags().GetString("object")

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.RevokePermission(cmd.Context(), models.RevokeRequest{
			Subject:  args[0],
			Scope:    scope,
			Action:   action,
			TenantID: tenantID,
			ObjectID: objectID,
		}); err != nil {
			return err
		}
		cmd.Println("revoked")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, grantCmd, revokeCmd} {
		c.Flags().String("scope", "", "permission scope, e.g. documents.management")
		c.Flags().String("action", "", "action within the scope, e.g. read")
		c.Flags().String("tenant", "", "tenant scoping")
		c.Flags().String("object", "", "object scoping")
		_ = c.MarkFlagRequired("scope")
		_ = c.MarkFlagRequired("action")
	}
}
