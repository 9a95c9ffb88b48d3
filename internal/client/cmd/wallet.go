package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/wallet"
)

func newWalletCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "wallet", Short: "Local encrypted card storage"}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Generate wallet key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := wallet.GenerateKey(); err != nil {
				return err
			}
			path, err := wallet.KeyPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wallet key generated at", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-card",
		Short: "Store default payment card",
		RunE:  setCard,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show wallet status",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "key: %v\ncard: %v\n", wallet.KeyExists(), wallet.CardExists())
		},
	})
	return cmd
}

func setCard(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(cmd.OutOrStdout(), "Card number: ")
	number, _ := reader.ReadString('\n')
	fmt.Fprint(cmd.OutOrStdout(), "Expiry (MM/YY): ")
	expiry, _ := reader.ReadString('\n')
	cvv, err := promptSecret(cmd, "CVV: ")
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), "Cardholder name: ")
	holder, _ := reader.ReadString('\n')

	card := wallet.Card{
		Number: strings.TrimSpace(number),
		Expiry: strings.TrimSpace(expiry),
		CVV:    strings.TrimSpace(string(cvv)),
		Holder: strings.TrimSpace(holder),
	}
	if err := wallet.SaveCard(card); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Card stored as", card.Mask())
	return nil
}
