package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Inspect and manage stored contacts",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts for the configured owner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		contacts, err := st.ListContactsByOwner(ctx, cfg.Store.Owner)
		if err != nil {
			return eris.Wrap(err, "list contacts")
		}

		out, err := json.MarshalIndent(contacts, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal contacts")
		}
		cmd.Println(string(out))
		return nil
	},
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteContact(ctx, args[0]); err != nil {
			return eris.Wrapf(err, "delete contact %s", args[0])
		}
		cmd.Println("deleted", args[0])
		return nil
	},
}

func init() {
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsDeleteCmd)
	rootCmd.AddCommand(contactsCmd)
}
