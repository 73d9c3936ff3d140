package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/contacts"
	"github.com/agentpay/agentpay/identity"
)

var (
	identityNameFlag string
	identityQRFlag   string
	identitySaveFlag bool
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Share and read agentpay payment identities",
}

var identityShareCmd = &cobra.Command{
	Use:   "share <address>",
	Short: "Render an address as a shareable payment URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity.New(args[0], identityNameFlag, networkFlag)
		if err != nil {
			return err
		}
		if identityQRFlag != "" {
			if err := id.WriteQRPNG(identityQRFlag, 512); err != nil {
				return fmt.Errorf("couldn't write QR image: %w", err)
			}
		}
		return succeedOut(map[string]any{"identity": id, "uri": id.URI(), "qr_file": identityQRFlag}, func() {
			fmt.Println(agentcommon.InfoColor(id.URI()))
			if identityQRFlag != "" {
				fmt.Printf("QR code written to %s\n", identityQRFlag)
			}
		})
	},
}

var identityReadCmd = &cobra.Command{
	Use:   "read <uri>",
	Short: "Decode a payment URI, optionally saving it as a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity.Parse(args[0])
		if err != nil {
			return err
		}
		if identitySaveFlag {
			book, err := openBook()
			if err != nil {
				return err
			}
			if _, err := book.Add(id.Name, id.Address, id.Chain, contacts.AddedViaQR); err != nil {
				return err
			}
		}
		return succeedOut(map[string]any{"identity": id, "saved": identitySaveFlag}, func() {
			fmt.Printf("%s\n  %s on %s\n", agentcommon.InfoColor(id.Name), id.Address, id.Chain)
			if identitySaveFlag {
				fmt.Printf("saved to contacts as %s\n", id.Name)
			}
		})
	},
}

func init() {
	identityShareCmd.Flags().StringVar(&identityNameFlag, "name", "", "display name to embed in the URI")
	identityShareCmd.Flags().StringVar(&identityQRFlag, "qr", "", "also write a QR code PNG to this path")
	identityReadCmd.Flags().BoolVar(&identitySaveFlag, "save", false, "save the decoded identity to the contact book")
	identityCmd.AddCommand(identityShareCmd, identityReadCmd)
	rootCmd.AddCommand(identityCmd)
}
