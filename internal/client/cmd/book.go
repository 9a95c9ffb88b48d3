package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/api"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/booking"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/identity"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/report"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/wallet"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type bookClient struct{ serverURL *string }

func newBookCmd(serverURL *string) *cobra.Command {
	b := &bookClient{serverURL: serverURL}
	cmd := &cobra.Command{Use: "book", Short: "Book a charging slot (payment then reservation)", RunE: b.book}
	cmd.Flags().Int64("station", 0, "Station id")
	cmd.Flags().Int64("car", 0, "Car id")
	cmd.Flags().String("start", "", "Start time, RFC 3339 (default: now)")
	cmd.Flags().Int("duration", 60, "Duration in minutes")
	_ = cmd.MarkFlagRequired("station")
	_ = cmd.MarkFlagRequired("car")
	return cmd
}

func (b *bookClient) book(cmd *cobra.Command, args []string) error {
	stationID, _ := cmd.Flags().GetInt64("station")
	carID, _ := cmd.Flags().GetInt64("car")
	startStr, _ := cmd.Flags().GetString("start")
	duration, _ := cmd.Flags().GetInt("duration")

	start := time.Now()
	if startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		start = t
	}

	client, sess := newClient(b.serverURL)
	station, err := client.Station(cmd.Context(), stationID)
	if err != nil {
		return err
	}

	reporter := report.NewLogReporter(log.New(cmd.OutOrStdout(), "", 0))
	orch := booking.New(client, identity.NewResolver(sess, client), b.payWithWallet(cmd, client), reporter)
	outcome, err := orch.Book(cmd.Context(), booking.Params{
		Station:     station,
		CarID:       carID,
		StartTime:   start,
		DurationMin: duration,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Booked slot %d at %s until %s\n",
		outcome.Booking.ID, station.Name, outcome.EndTime.Format(time.RFC3339))
	return nil
}

// payWithWallet returns the payment sub-flow: show the price, ask for
// confirmation, then charge the stored card. Answering no cancels the whole
// attempt before any booking request is sent.
func (b *bookClient) payWithWallet(cmd *cobra.Command, client *api.Client) booking.PaymentFunc {
	return func(ctx context.Context, req models.PaymentRequest) (models.PaymentResponse, error) {
		card, err := wallet.LoadCard()
		if err != nil {
			return models.PaymentResponse{}, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nCharge %.2f %s to %s? [y/N]: ", req.Description, req.Amount, req.Currency, card.Mask())
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			return models.PaymentResponse{}, booking.ErrPaymentCancelled
		}
		req.CardNumber = card.Number
		req.ExpiryDate = card.Expiry
		req.CVV = card.CVV
		req.CardholderName = card.Holder
		return client.ProcessPayment(ctx, req)
	}
}
