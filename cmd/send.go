package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/contacts"
	"github.com/agentpay/agentpay/resolve"
	"github.com/agentpay/agentpay/transfer"
	"github.com/agentpay/agentpay/wallet"
)

var (
	sendToFlag         string
	sendAmountFlag     string
	sendKeyFileFlag    string
	sendPrivateKeyFlag string
	sendGasPriceFlag   string
	sendTimeoutFlag    time.Duration
	sendFuzzyFlag      bool
)

// fuzzyRecipients widens a resolver to also accept close contact-name
// matches. Only wired in when the user asks for it.
type fuzzyRecipients struct {
	r *resolve.Resolver
}

func (f fuzzyRecipients) Resolve(input string) (resolve.Resolved, error) {
	return f.r.ResolveFuzzy(input)
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send tokens to a contact, name-service name or address",
	Long: `Send tokens to a recipient given as a contact name, a name-service name
(e.g. bob.eth) or a raw address. The command blocks until the transfer is
confirmed on chain or the confirmation wait times out.

If the wait times out the transaction may still confirm later. Re-check it by
hash before doing anything else; never resend the same payment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := selectedNetwork()
		if err != nil {
			return err
		}
		key, err := wallet.Load(sendKeyFileFlag, sendPrivateKeyFlag)
		if err != nil {
			return err
		}
		bookPath, err := contacts.DefaultPath()
		if err != nil {
			return err
		}
		book, err := contacts.Open(bookPath)
		if err != nil {
			return err
		}

		client := chainClient(network)
		resolver := resolve.New(book, resolve.NewENS(client))
		var recipients transfer.Recipients = resolver
		if sendFuzzyFlag {
			recipients = fuzzyRecipients{resolver}
		}

		pipeline := transfer.NewPipeline(client, network, recipients, key)
		if !jsonFlag && term.IsTerminal(int(os.Stdout.Fd())) {
			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
			s.Start()
			defer s.Stop()
			pipeline.Progress = func(state transfer.State) {
				s.Suffix = fmt.Sprintf(" %s...", state)
			}
		}

		receipt, err := pipeline.Execute(transfer.Request{
			To:             sendToFlag,
			Amount:         sendAmountFlag,
			GasPriceGwei:   sendGasPriceFlag,
			ConfirmTimeout: sendTimeoutFlag,
		})
		if err != nil {
			return err
		}
		return succeedOut(receipt, func() {
			fmt.Printf("\n%s\n", agentcommon.InfoColor("Transfer confirmed"))
			fmt.Printf("  %s -> %s (%s)\n", receipt.From, receipt.To, receipt.Recipient.Kind)
			fmt.Printf("  amount: %s\n", receipt.Amount)
			fmt.Printf("  block %d, gas used %d\n", receipt.BlockNumber, receipt.GasUsed)
			fmt.Printf("  %s\n", agentcommon.DimColor(receipt.ExplorerURL))
		})
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendToFlag, "to", "", "recipient: contact name, name-service name or address (required)")
	sendCmd.Flags().StringVar(&sendAmountFlag, "amount", "", "token amount as a decimal string, e.g. 20.0 (required)")
	sendCmd.Flags().StringVar(&sendKeyFileFlag, "key-file", "", "path to a JSON key file")
	sendCmd.Flags().StringVar(&sendPrivateKeyFlag, "private-key", "", "hex private key; takes precedence over --key-file")
	sendCmd.Flags().StringVar(&sendGasPriceFlag, "gas-price", "", "gas price in gwei, overriding the node's quote")
	sendCmd.Flags().DurationVar(&sendTimeoutFlag, "timeout", transfer.DefaultConfirmTimeout, "how long to wait for on-chain confirmation")
	sendCmd.Flags().BoolVar(&sendFuzzyFlag, "fuzzy", false, "allow close contact-name matches, not just exact ones")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(sendCmd)
}
