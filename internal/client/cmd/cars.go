package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/identity"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type carsClient struct{ serverURL *string }

func newCarsCmd(serverURL *string) *cobra.Command {
	c := &carsClient{serverURL: serverURL}
	cmd := &cobra.Command{Use: "cars", Short: "Manage your cars"}
	cmd.AddCommand(&cobra.Command{Use: "list", Short: "List your cars", RunE: c.list})

	add := &cobra.Command{Use: "add", Short: "Add a car", RunE: c.add}
	add.Flags().String("brand", "", "Car brand")
	add.Flags().String("model", "", "Car model")
	add.Flags().String("plate", "", "License plate")
	_ = add.MarkFlagRequired("brand")
	_ = add.MarkFlagRequired("plate")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{Use: "delete", Short: "Delete car by id", Args: cobra.ExactArgs(1), RunE: c.delete})
	return cmd
}

func (c *carsClient) list(cmd *cobra.Command, args []string) error {
	client, sess := newClient(c.serverURL)
	userID, err := identity.NewResolver(sess, client).Resolve(cmd.Context())
	if err != nil {
		return err
	}
	cars, err := client.CarsByUser(cmd.Context(), userID)
	if err != nil {
		return err
	}
	return printJSON(cars)
}

func (c *carsClient) add(cmd *cobra.Command, args []string) error {
	brand, _ := cmd.Flags().GetString("brand")
	model, _ := cmd.Flags().GetString("model")
	plate, _ := cmd.Flags().GetString("plate")
	client, sess := newClient(c.serverURL)
	userID, err := identity.NewResolver(sess, client).Resolve(cmd.Context())
	if err != nil {
		return err
	}
	car, err := client.AddCar(cmd.Context(), models.Car{UserID: userID, Brand: brand, Model: model, Plate: plate})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Car %d added\n", car.ID)
	return nil
}

func (c *carsClient) delete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid car id %q", args[0])
	}
	client, _ := newClient(c.serverURL)
	if err := client.DeleteCar(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Car deleted")
	return nil
}
