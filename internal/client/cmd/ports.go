package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type portsClient struct{ serverURL *string }

func newPortsCmd(serverURL *string) *cobra.Command {
	p := &portsClient{serverURL: serverURL}
	cmd := &cobra.Command{Use: "ports", Short: "Manage charging ports"}

	list := &cobra.Command{Use: "list", Short: "List ports by station or status", RunE: p.list}
	list.Flags().Int64("station", 0, "Station id")
	list.Flags().String("status", "", "Port status (AVAILABLE, OCCUPIED, OUT_OF_SERVICE)")
	cmd.AddCommand(list)

	add := &cobra.Command{Use: "add", Short: "Add port to a station", RunE: p.add}
	add.Flags().Int64("station", 0, "Station id")
	add.Flags().String("connector", "Type2", "Connector type")
	_ = add.MarkFlagRequired("station")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{Use: "delete", Short: "Delete port by id", Args: cobra.ExactArgs(1), RunE: p.delete})

	energy := &cobra.Command{Use: "energy", Short: "Energy stats for a station", Args: cobra.ExactArgs(1), RunE: p.energy}
	cmd.AddCommand(energy)
	return cmd
}

func (p *portsClient) list(cmd *cobra.Command, args []string) error {
	stationID, _ := cmd.Flags().GetInt64("station")
	status, _ := cmd.Flags().GetString("status")
	client, _ := newClient(p.serverURL)
	switch {
	case stationID > 0:
		ports, err := client.PortsByStation(cmd.Context(), stationID)
		if err != nil {
			return err
		}
		return printJSON(ports)
	case status != "":
		ports, err := client.PortsByStatus(cmd.Context(), models.PortStatus(status))
		if err != nil {
			return err
		}
		return printJSON(ports)
	}
	return fmt.Errorf("either --station or --status is required")
}

func (p *portsClient) add(cmd *cobra.Command, args []string) error {
	stationID, _ := cmd.Flags().GetInt64("station")
	connector, _ := cmd.Flags().GetString("connector")
	client, _ := newClient(p.serverURL)
	port, err := client.CreatePort(cmd.Context(), models.ChargingPort{StationID: stationID, Connector: connector, Status: models.PortAvailable})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Port %d created\n", port.ID)
	return nil
}

func (p *portsClient) delete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid port id %q", args[0])
	}
	client, _ := newClient(p.serverURL)
	if err := client.DeletePort(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Port deleted")
	return nil
}

func (p *portsClient) energy(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid station id %q", args[0])
	}
	client, _ := newClient(p.serverURL)
	stats, err := client.StationEnergyStats(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(stats)
}
