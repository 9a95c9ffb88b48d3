package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/api"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/session"
)

func NewRootCmd(version, buildDate string) *cobra.Command {
	var serverURL string
	root := &cobra.Command{
		Use:   "chargectl",
		Short: "ChargerControl CLI",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "", "Server base URL (overrides CHARGERCONTROL_API_BASES)")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newAuthCmd(&serverURL))
	root.AddCommand(newStationsCmd(&serverURL))
	root.AddCommand(newPortsCmd(&serverURL))
	root.AddCommand(newCarsCmd(&serverURL))
	root.AddCommand(newBookingsCmd(&serverURL))
	root.AddCommand(newBookCmd(&serverURL))
	root.AddCommand(newWalletCmd())
	return root
}

// newClient builds the API client for a command invocation. A --server flag
// replaces the configured candidate list with a single base.
func newClient(serverURL *string) (*api.Client, *session.Session) {
	cfg := api.LoadConfig()
	if serverURL != nil && *serverURL != "" {
		cfg.Bases = []string{*serverURL}
		cfg.PaymentBase = *serverURL
	}
	sess := session.New()
	logger := log.New(os.Stderr, "", log.LstdFlags)
	return api.New(cfg, sess, logger), sess
}
