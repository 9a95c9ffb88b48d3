package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type stationsClient struct{ serverURL *string }

func newStationsCmd(serverURL *string) *cobra.Command {
	s := &stationsClient{serverURL: serverURL}
	cmd := &cobra.Command{Use: "stations", Short: "Manage charging stations"}
	cmd.AddCommand(&cobra.Command{Use: "list", Short: "List stations", RunE: s.list})

	add := &cobra.Command{Use: "add", Short: "Add station", RunE: s.add}
	add.Flags().String("name", "", "Station name")
	add.Flags().String("location", "", "Station location")
	add.Flags().Float64("power", 22, "Power in kW")
	add.Flags().Float64("rate", 0, "Price per kWh")
	_ = add.MarkFlagRequired("name")
	cmd.AddCommand(add)

	update := &cobra.Command{Use: "update", Short: "Update station by id", Args: cobra.ExactArgs(1), RunE: s.update}
	update.Flags().String("name", "", "Station name")
	update.Flags().String("location", "", "Station location")
	update.Flags().Float64("power", 0, "Power in kW")
	update.Flags().Float64("rate", 0, "Price per kWh")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{Use: "delete", Short: "Delete station by id", Args: cobra.ExactArgs(1), RunE: s.delete})
	return cmd
}

func (s *stationsClient) list(cmd *cobra.Command, args []string) error {
	client, _ := newClient(s.serverURL)
	stations, err := client.Stations(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(stations)
}

func (s *stationsClient) add(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	location, _ := cmd.Flags().GetString("location")
	power, _ := cmd.Flags().GetFloat64("power")
	rate, _ := cmd.Flags().GetFloat64("rate")
	client, _ := newClient(s.serverURL)
	st, err := client.CreateStation(cmd.Context(), models.Station{Name: name, Location: location, PowerKW: power, PricePerKWh: rate})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Station %d created\n", st.ID)
	return nil
}

func (s *stationsClient) update(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid station id %q", args[0])
	}
	client, _ := newClient(s.serverURL)
	st, err := client.Station(cmd.Context(), id)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("name"); v != "" {
		st.Name = v
	}
	if v, _ := cmd.Flags().GetString("location"); v != "" {
		st.Location = v
	}
	if v, _ := cmd.Flags().GetFloat64("power"); v > 0 {
		st.PowerKW = v
	}
	if v, _ := cmd.Flags().GetFloat64("rate"); v > 0 {
		st.PricePerKWh = v
	}
	if _, err := client.UpdateStation(cmd.Context(), st); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Station updated")
	return nil
}

func (s *stationsClient) delete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid station id %q", args[0])
	}
	client, _ := newClient(s.serverURL)
	if err := client.DeleteStation(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Station deleted")
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
