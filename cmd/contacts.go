package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/contacts"
)

var contactChainFlag string

func openBook() (*contacts.Book, error) {
	path, err := contacts.DefaultPath()
	if err != nil {
		return nil, err
	}
	return contacts.Open(path)
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the local contact book",
}

var contactsAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Add or overwrite a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook()
		if err != nil {
			return err
		}
		chain := contactChainFlag
		if chain == "" {
			chain = networkFlag
		}
		contact, err := book.Add(args[0], args[1], chain, contacts.AddedViaManual)
		if err != nil {
			return err
		}
		return succeedOut(map[string]any{"name": args[0], "contact": contact}, func() {
			fmt.Printf("saved %s -> %s (%s)\n", args[0], contact.Address, contact.Chain)
		})
	},
}

var contactsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one contact by exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook()
		if err != nil {
			return err
		}
		contact, found := book.Get(args[0])
		if !found {
			return fmt.Errorf("no contact named %q", args[0])
		}
		return succeedOut(map[string]any{"name": args[0], "contact": contact}, func() {
			printContact(args[0], contact)
		})
	},
}

var contactsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook()
		if err != nil {
			return err
		}
		removed, err := book.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no contact named %q", args[0])
		}
		return succeedOut(map[string]any{"removed": args[0]}, func() {
			fmt.Printf("removed %s\n", args[0])
		})
	},
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook()
		if err != nil {
			return err
		}
		all := book.List()
		return succeedOut(map[string]any{"contacts": all, "count": len(all)}, func() {
			printContacts(all)
		})
	},
}

var contactsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find contacts whose name contains the query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook()
		if err != nil {
			return err
		}
		hits := book.Search(args[0])
		return succeedOut(map[string]any{"contacts": hits, "count": len(hits)}, func() {
			printContacts(hits)
		})
	},
}

func printContact(name string, c contacts.Contact) {
	fmt.Printf("%s\n  %s on %s %s\n",
		agentcommon.InfoColor(name), c.Address, c.Chain,
		agentcommon.DimColor(fmt.Sprintf("(added %s via %s)", c.AddedAt, c.AddedVia)))
}

func printContacts(all map[string]contacts.Contact) {
	if len(all) == 0 {
		fmt.Println(agentcommon.DimColor("no contacts"))
		return
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printContact(name, all[name])
	}
}

func init() {
	contactsAddCmd.Flags().StringVar(&contactChainFlag, "chain", "", "network the contact lives on (defaults to --network)")
	contactsCmd.AddCommand(contactsAddCmd, contactsGetCmd, contactsRmCmd, contactsListCmd, contactsSearchCmd)
	rootCmd.AddCommand(contactsCmd)
}
