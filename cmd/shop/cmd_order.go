package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/order"
)

var orderPhone string

// orderCmd submits the saved cart
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place an order for the saved cart",
	Long: `Submits the saved cart with a contact phone number. On success the cart
and the saved phone are cleared; otherwise both are kept.

Without --phone the phone saved by the interactive storefront is used.`,
	Example: `  shop order --phone "+7 (999) 123-45-67"`,
	Args:    cobra.NoArgs,
	RunE:    placeOrder,
}

func init() {
	orderCmd.Flags().StringVarP(&orderPhone, "phone", "p", "", "Contact phone number")
}

func placeOrder(cmd *cobra.Command, args []string) error {
	a := newApp(cfg)
	defer a.close()

	phone := orderPhone
	if phone == "" {
		phone = a.checkout.SavedPhone()
	} else {
		a.checkout.RememberPhone(phone)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetAPITimeout())
	defer cancel()

	res, err := a.checkout.Place(ctx, phone)
	var ve *order.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("cannot place order: %s", ve.Message)
	}
	if err != nil {
		return err
	}
	if !res.Success {
		logger.Warn("Order not placed", zap.String("request_id", res.RequestID), zap.String("error", res.Error))
		return fmt.Errorf("order not placed: %s", res.Error)
	}

	logger.Info("Order placed", zap.String("request_id", res.RequestID))
	fmt.Fprintf(cmd.OutOrStdout(), "Order placed! Request %s\n", res.RequestID)
	return nil
}
