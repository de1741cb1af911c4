package storefront

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/cmd/shop/ui"
	"storefront/internal/cart"
	"storefront/internal/logging"
	"storefront/internal/order"
	"storefront/internal/types"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case productsLoadedMsg:
		if msg.first {
			m.loadingFirst = false
		} else {
			m.loadingMore = false
		}
		if msg.err != nil {
			m.productsErr = msg.err
			logging.UIDebug("Products load failed: %v", msg.err)
			return m, nil
		}
		m.productsErr = nil
		m.products = m.pager.Products()
		m.clampCursor()
		return m, nil

	case reviewsLoadedMsg:
		m.reviewsLoading = false
		m.reviewsErr = msg.err
		m.refreshReviews()
		return m, nil

	case cartChangedMsg:
		// Key handlers apply their own snapshot first; an older queued
		// state must not replace it.
		if st := cart.State(msg); st.Version >= m.cartState.Version {
			m.cartState = st
		}
		return m, m.waitForCart()

	case orderPlacedMsg:
		return m.handleOrderPlaced(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleOrderPlaced(msg orderPlacedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	var ve *order.ValidationError
	switch {
	case errors.As(msg.err, &ve):
		if ve.Field == "phone" {
			m.phoneErr = "Enter a valid phone number"
		} else {
			m.setNotice("Your cart is empty. Add products to place an order.", true)
		}
	case msg.err != nil:
		m.setNotice(msg.err.Error(), true)
	case msg.result.Success:
		m.phoneSaver.Cancel()
		m.phone.SetValue("")
		m.phoneErr = ""
		m.cartState = m.cart.Snapshot()
		m.showSuccess = true
		m.setNotice("Order placed!", false)
	default:
		m.setNotice(msg.result.Error, true)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showSuccess {
		m.showSuccess = false
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.focus((m.pane + 1) % 3)
		return m, nil
	case "shift+tab":
		m.focus((m.pane + 2) % 3)
		return m, nil
	}

	switch m.pane {
	case OrderPane:
		return m.handleOrderKey(msg)
	case ReviewsPane:
		return m.handleReviewsKey(msg)
	default:
		return m.handleCatalogKey(msg)
	}
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
		return m, m.maybeLoadMore()
	case "pgdown":
		m.moveCursor(m.catalogRows())
		return m, m.maybeLoadMore()
	case "pgup":
		m.moveCursor(-m.catalogRows())
	case "enter", "a", "+", "=":
		if p, ok := m.selected(); ok {
			m.cart.Add(p)
			m.cartState = m.cart.Snapshot()
		}
	case "-":
		if p, ok := m.selected(); ok {
			m.cart.UpdateQuantity(p.ID, m.cart.Quantity(p.ID)-1)
			m.cartState = m.cart.Snapshot()
		}
	case "x", "delete":
		if p, ok := m.selected(); ok {
			m.cart.Remove(p.ID)
			m.cartState = m.cart.Snapshot()
		}
	case "C":
		lines := len(m.cartState.Items)
		m.cart.Clear()
		m.cartState = m.cart.Snapshot()
		logging.Audit().CartCleared(lines, "user")
	case "r":
		if m.productsErr == nil {
			return m, nil
		}
		m.productsErr = nil
		if len(m.products) == 0 {
			m.loadingFirst = true
			return m, m.loadFirst()
		}
		return m, m.maybeLoadMore()
	}
	return m, nil
}

func (m Model) handleReviewsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		if m.reviewsLoading {
			return m, nil
		}
		m.reviewsLoading = true
		m.reviewsErr = nil
		m.refreshReviews()
		return m, m.loadReviews()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleOrderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus(CatalogPane)
		return m, nil
	case tea.KeyEnter:
		if m.submitting {
			return m, nil
		}
		m.phoneErr = ""
		m.notice = ""
		m.submitting = true
		phone, checkout := m.phone.Value(), m.checkout
		m.phoneSaver.Immediate(func() { checkout.RememberPhone(phone) })
		return m, tea.Batch(m.spinner.Tick, m.placeOrder(phone))
	}

	var cmd tea.Cmd
	before := m.phone.Value()
	m.phone, cmd = m.phone.Update(msg)
	if after := m.phone.Value(); after != before {
		formatted := order.FormatPhone(after)
		m.phone.SetValue(formatted)
		m.phone.CursorEnd()
		m.phoneErr = ""

		checkout := m.checkout
		m.phoneSaver.Debounce(func() { checkout.RememberPhone(formatted) })
	}
	return m, cmd
}

// maybeLoadMore requests the next page when the cursor is near the end of
// the loaded list. At most one request is outstanding.
func (m *Model) maybeLoadMore() tea.Cmd {
	if m.loadingMore || m.loadingFirst || m.productsErr != nil || !m.pager.HasMore() {
		return nil
	}
	if m.cursor < len(m.products)-m.threshold {
		return nil
	}
	m.loadingMore = true
	return tea.Batch(m.spinner.Tick, m.loadMore())
}

func (m *Model) focus(p Pane) {
	m.pane = p
	if p == OrderPane {
		m.phone.Focus()
	} else {
		m.phone.Blur()
	}
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeIsError = isError
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.products) {
		m.cursor = len(m.products) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.catalogRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m Model) selected() (p types.Product, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return p, false
	}
	return m.products[m.cursor], true
}

func (m *Model) resize() {
	m.renderer = ui.NewMarkdownRenderer(m.leftWidth()-6, m.styles.Theme.IsDark)
	m.viewport.Width = m.leftWidth() - 4
	m.viewport.Height = m.reviewsHeight()
	m.phone.Width = m.rightWidth() - 8
	m.refreshReviews()
	m.clampCursor()
}
