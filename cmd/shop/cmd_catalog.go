package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/cmd/shop/ui"
	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/types"
)

var (
	productsPage     int
	productsPageSize int
)

// productsCmd prints one catalog page
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List one page of the catalog",
	Example: `  shop products
  shop products --page 2 --page-size 10`,
	Args: cobra.NoArgs,
	RunE: listProducts,
}

// reviewsCmd prints the review feed as rendered markdown
var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Show customer reviews",
	Args:  cobra.NoArgs,
	RunE:  listReviews,
}

// browseCmd loads the first page and the reviews together
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Show the first catalog page and the reviews",
	Long: `Loads the first catalog page and the review feed concurrently, the
same way the interactive storefront does on start-up.`,
	Args: cobra.NoArgs,
	RunE: browse,
}

func init() {
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "Page number (1-based)")
	productsCmd.Flags().IntVar(&productsPageSize, "page-size", 0, "Page size (default: config catalog.page_size)")
}

func newClient() *api.Client {
	return api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.GetAPITimeout()),
		api.WithUserAgent(cfg.API.UserAgent),
	)
}

func listProducts(cmd *cobra.Command, args []string) error {
	if productsPage < 1 {
		return fmt.Errorf("--page must be at least 1")
	}
	size := productsPageSize
	if size <= 0 {
		size = cfg.Catalog.PageSize
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetAPITimeout())
	defer cancel()

	pg, err := newClient().FetchProducts(ctx, productsPage, size)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	logger.Debug("Products loaded", zap.Int("page", pg.Page), zap.Int("items", len(pg.Items)), zap.Int("total", pg.Total))

	out := cmd.OutOrStdout()
	printProducts(out, pg.Items)
	more := "last page"
	if catalog.HasMore(pg, size) {
		more = fmt.Sprintf("next: --page %d", productsPage+1)
	}
	fmt.Fprintf(out, "Page %d, %d of %d products (%s)\n", pg.Page, len(pg.Items), pg.Total, more)
	return nil
}

func listReviews(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetAPITimeout())
	defer cancel()

	feed := catalog.NewReviewFeed(newClient())
	if err := feed.Load(ctx); err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	printReviews(cmd.OutOrStdout(), feed.Reviews())
	return nil
}

func browse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetAPITimeout())
	defer cancel()

	client := newClient()
	pager := catalog.NewPager(client, cfg.Catalog.PageSize)
	feed := catalog.NewReviewFeed(client)

	// Review failures only hide the reviews; a catalog failure fails the command.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pager.LoadFirst(gctx)
	})
	g.Go(func() error {
		if err := feed.Load(gctx); err != nil {
			logger.Warn("Reviews unavailable", zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	printReviews(out, feed.Reviews())
	printProducts(out, pager.Products())
	if pager.HasMore() {
		fmt.Fprintln(out, "More products available: shop products --page 2")
	}
	return nil
}

func printProducts(w io.Writer, products []types.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	table := ui.NewSimpleTable("Products", []string{"ID", "Title", "Price"}).AlignRight(0, 2)
	for _, p := range products {
		table.AddRow(fmt.Sprintf("%d", p.ID), p.Title, ui.FormatPrice(p.Price))
	}
	fmt.Fprint(w, table.View(ui.DefaultStyles()))
}

func printReviews(w io.Writer, reviews []types.Review) {
	if len(reviews) == 0 {
		return
	}
	renderer := ui.NewMarkdownRenderer(80, false)
	fmt.Fprintln(w, "Customer reviews")
	for _, r := range reviews {
		fmt.Fprintln(w, renderer.Render(catalog.RenderReviewText(r.Text)))
	}
}
