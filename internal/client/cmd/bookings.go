package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/identity"
)

type bookingsClient struct{ serverURL *string }

func newBookingsCmd(serverURL *string) *cobra.Command {
	b := &bookingsClient{serverURL: serverURL}
	cmd := &cobra.Command{Use: "bookings", Short: "Manage your bookings"}
	cmd.AddCommand(&cobra.Command{Use: "list", Short: "List your bookings", RunE: b.list})
	cmd.AddCommand(&cobra.Command{Use: "cancel", Short: "Cancel booking by id", Args: cobra.ExactArgs(1), RunE: b.cancel})
	return cmd
}

func (b *bookingsClient) list(cmd *cobra.Command, args []string) error {
	client, sess := newClient(b.serverURL)
	userID, err := identity.NewResolver(sess, client).Resolve(cmd.Context())
	if err != nil {
		return err
	}
	bookings, err := client.BookingsByUser(cmd.Context(), userID)
	if err != nil {
		return err
	}
	return printJSON(bookings)
}

func (b *bookingsClient) cancel(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid booking id %q", args[0])
	}
	client, _ := newClient(b.serverURL)
	if err := client.CancelBooking(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Booking cancelled")
	return nil
}
