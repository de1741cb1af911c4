package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/cmd/shop/ui"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/logging"
	"storefront/internal/types"
)

// cartCmd manages the persisted cart
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show or change the saved cart",
	Args:  cobra.NoArgs,
	RunE:  cartShow,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart",
	Args:  cobra.NoArgs,
	RunE:  cartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE:  cartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Remove a product line",
	Args:  cobra.ExactArgs(1),
	RunE:  cartRemove,
}

var cartSetCmd = &cobra.Command{
	Use:   "set [product-id] [quantity]",
	Short: "Set the quantity of a product line (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE:  cartSet,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  cartClear,
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartSetCmd)
	cartCmd.AddCommand(cartClearCmd)
}

func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}

func cartShow(cmd *cobra.Command, args []string) error {
	a := newApp(cfg)
	defer a.close()

	printCart(cmd.OutOrStdout(), a.cart.Snapshot())
	return nil
}

func cartAdd(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	a := newApp(cfg)
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetAPITimeout())
	defer cancel()

	p, err := findProduct(ctx, a.pager(), id)
	if err != nil {
		return err
	}
	a.cart.Add(p)
	logger.Info("Added to cart", zap.Int64("product", id), zap.Int("quantity", a.cart.Quantity(id)))

	printCart(cmd.OutOrStdout(), a.cart.Snapshot())
	return nil
}

func cartRemove(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	a := newApp(cfg)
	defer a.close()

	if a.cart.Quantity(id) == 0 {
		return fmt.Errorf("product %d is not in the cart", id)
	}
	a.cart.Remove(id)
	printCart(cmd.OutOrStdout(), a.cart.Snapshot())
	return nil
}

func cartSet(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	a := newApp(cfg)
	defer a.close()

	if a.cart.Quantity(id) == 0 {
		return fmt.Errorf("product %d is not in the cart", id)
	}
	a.cart.UpdateQuantity(id, qty)
	printCart(cmd.OutOrStdout(), a.cart.Snapshot())
	return nil
}

func cartClear(cmd *cobra.Command, args []string) error {
	a := newApp(cfg)
	defer a.close()

	lines := len(a.cart.Snapshot().Items)
	a.cart.Clear()
	logging.Audit().CartCleared(lines, "cli")
	fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
	return nil
}

// findProduct pages through the catalog until it finds id.
func findProduct(ctx context.Context, pager *catalog.Pager, id int64) (types.Product, error) {
	if err := pager.LoadFirst(ctx); err != nil {
		return types.Product{}, fmt.Errorf("failed to load products: %w", err)
	}
	seen := 0
	for {
		products := pager.Products()
		for _, p := range products[seen:] {
			if p.ID == id {
				return p, nil
			}
		}
		seen = len(products)

		loaded, err := pager.LoadMore(ctx)
		if err != nil {
			return types.Product{}, fmt.Errorf("failed to load products: %w", err)
		}
		if !loaded {
			return types.Product{}, fmt.Errorf("product %d not found", id)
		}
	}
}

func printCart(w io.Writer, st cart.State) {
	if st.IsEmpty() {
		fmt.Fprintln(w, "Cart is empty.")
		return
	}
	table := ui.NewSimpleTable("Cart", []string{"ID", "Title", "Price", "Qty", "Sum"}).AlignRight(0, 2, 3, 4)
	for _, item := range st.Items {
		table.AddRow(
			fmt.Sprintf("%d", item.ProductID),
			item.Product.Title,
			ui.FormatPrice(item.Product.Price),
			fmt.Sprintf("%d", item.Quantity),
			ui.FormatPrice(item.Subtotal()),
		)
	}
	table.SetFooter("", "Total", "", fmt.Sprintf("%d", st.TotalItems), ui.FormatPrice(st.TotalPrice))
	fmt.Fprint(w, table.View(ui.DefaultStyles()))
}
