package storefront

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"storefront/cmd/shop/ui"
	"storefront/internal/catalog"
	"storefront/internal/types"
)

const (
	headerHeight = 1
	footerHeight = 1
	// Lines a catalog row takes: title line plus description line.
	rowHeight = 2
)

func (m Model) leftWidth() int {
	w := m.width * 3 / 5
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) rightWidth() int {
	w := m.width - m.leftWidth()
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) reviewsHeight() int {
	h := m.height / 4
	if h < 4 {
		h = 4
	}
	return h
}

// catalogRows is how many products fit in the catalog pane.
func (m Model) catalogRows() int {
	// Pane borders, title and status line.
	avail := m.height - headerHeight - footerHeight - m.reviewsHeight() - 4 - 5
	rows := avail / rowHeight
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *Model) refreshReviews() {
	m.viewport.SetContent(m.renderReviews())
}

func (m Model) View() string {
	if !m.ready {
		return "Loading storefront..."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.paneStyle(ReviewsPane).Width(m.leftWidth()-2).Render(m.viewReviews()),
		m.paneStyle(CatalogPane).Width(m.leftWidth()-2).Render(m.viewCatalog()),
	)
	right := m.paneStyle(OrderPane).Width(m.rightWidth()-2).Render(m.viewOrder())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	screen := lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewFooter())

	if m.showSuccess {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewSuccess())
	}
	return screen
}

func (m Model) paneStyle(p Pane) lipgloss.Style {
	if m.pane == p {
		return m.styles.Focused
	}
	return m.styles.Pane
}

func (m Model) viewHeader() string {
	title := m.styles.Header.Render("Storefront")
	if m.cartState.TotalItems == 0 {
		return title
	}
	badge := m.styles.Badge.Render(fmt.Sprintf("In cart: %d item(s), %s",
		m.cartState.TotalItems, ui.FormatPrice(m.cartState.TotalPrice)))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + badge
}

func (m Model) viewFooter() string {
	var hints string
	switch m.pane {
	case OrderPane:
		hints = "type phone • enter place order • esc catalog • tab switch • ctrl+c quit"
	case ReviewsPane:
		hints = "↑/↓ scroll • r reload • tab switch • q quit"
	default:
		hints = "↑/↓ move • enter/+ add • - less • x remove • C clear cart • tab switch • q quit"
	}
	return m.styles.Footer.Render(hints)
}

func (m Model) renderReviews() string {
	var sb strings.Builder
	switch {
	case m.reviewsErr != nil:
		sb.WriteString(m.styles.Error.Render("Failed to load reviews."))
		sb.WriteString(m.styles.Muted.Render(" Press r in this pane to retry."))
	case m.reviewsLoading:
		sb.WriteString(m.styles.Muted.Render("Loading reviews..."))
	default:
		reviews := m.reviews.Reviews()
		if len(reviews) == 0 {
			sb.WriteString(m.styles.Muted.Render("No reviews yet."))
		}
		for i, r := range reviews {
			if i > 0 {
				sb.WriteString("\n")
				sb.WriteString(m.styles.RenderDivider(m.viewport.Width))
				sb.WriteString("\n")
			}
			sb.WriteString(m.renderer.Render(catalog.RenderReviewText(r.Text)))
		}
	}
	return sb.String()
}

func (m Model) viewReviews() string {
	return m.styles.Title.MarginBottom(0).Render("Customer reviews") + "\n" + m.viewport.View()
}

func (m Model) viewCatalog() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.MarginBottom(0).Render("Products"))
	sb.WriteString("\n")

	if m.loadingFirst && len(m.products) == 0 {
		sb.WriteString(m.spinner.View() + " Loading products...")
		return sb.String()
	}
	if len(m.products) == 0 && m.productsErr != nil {
		sb.WriteString(m.styles.Error.Render("Failed to load products. Press r to retry."))
		return sb.String()
	}

	end := m.offset + m.catalogRows()
	if end > len(m.products) {
		end = len(m.products)
	}
	width := m.leftWidth() - 6
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.viewProductRow(m.products[i], i == m.cursor, width))
		sb.WriteString("\n")
	}

	switch {
	case m.loadingMore:
		sb.WriteString(m.spinner.View() + " Loading more...")
	case m.productsErr != nil:
		sb.WriteString(m.styles.Error.Render("Failed to load more products. Press r to retry."))
	case !m.pager.HasMore() && len(m.products) > 0:
		sb.WriteString(m.styles.Muted.Render("All products loaded"))
	default:
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d products", len(m.products))))
	}
	return sb.String()
}

func (m Model) viewProductRow(p types.Product, selected bool, width int) string {
	price := m.styles.Price.Render(ui.FormatPrice(p.Price))
	title := truncate(p.Title, width-lipgloss.Width(price)-12)
	line := title + "  " + price
	if qty := m.quantity(p.ID); qty > 0 {
		line += "  " + m.styles.InCart.Render(fmt.Sprintf("[in cart: %d]", qty))
	}
	desc := m.styles.Muted.Render(truncate(p.Description, width-4))

	style := m.styles.Row
	if selected {
		style = m.styles.SelectedRow
	}
	return style.Render(line + "\n" + desc)
}

// quantity reads from the UI's cart state so rendering never locks the store.
func (m Model) quantity(id int64) int {
	for _, item := range m.cartState.Items {
		if item.ProductID == id {
			return item.Quantity
		}
	}
	return 0
}

func (m Model) viewOrder() string {
	var sb strings.Builder
	st := m.cartState

	sb.WriteString(m.styles.Title.Render("Your order"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Items in cart: %s\n", m.styles.Bold.Render(fmt.Sprintf("%d", st.TotalItems))))
	sb.WriteString(fmt.Sprintf("Total: %s\n\n", m.styles.Price.Render(ui.FormatPrice(st.TotalPrice))))

	if !st.IsEmpty() {
		table := ui.NewSimpleTable("", []string{"Product", "Price × Qty", "Sum"}).AlignRight(1, 2)
		nameWidth := m.rightWidth() - 36
		for _, item := range st.Items {
			table.AddRow(
				truncate(item.Product.Title, nameWidth),
				fmt.Sprintf("%s × %d", ui.FormatPrice(item.Product.Price), item.Quantity),
				ui.FormatPrice(item.Subtotal()),
			)
		}
		sb.WriteString(table.View(m.styles))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Bold.Render("Phone number *"))
	sb.WriteString("\n")
	sb.WriteString(m.phone.View())
	sb.WriteString("\n")
	if m.phoneErr != "" {
		sb.WriteString(m.styles.Error.Render(m.phoneErr))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.submitting {
		sb.WriteString(m.spinner.View() + " Submitting order...")
	} else {
		sb.WriteString(m.styles.Badge.Render("enter: Place order"))
	}

	if m.notice != "" {
		sb.WriteString("\n\n")
		if m.noticeIsError {
			sb.WriteString(m.styles.Error.Render(m.notice))
		} else {
			sb.WriteString(m.styles.Success.Render(m.notice))
		}
	}
	return sb.String()
}

func (m Model) viewSuccess() string {
	body := m.styles.Success.Render("Order placed!") + "\n\n" +
		m.styles.Body.Render("Thank you. We will call you to confirm the order.") + "\n\n" +
		m.styles.Muted.Render("Press any key to continue")
	return m.styles.Modal.Render(body)
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
