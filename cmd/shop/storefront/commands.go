package storefront

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/cart"
	"storefront/internal/logging"
	"storefront/internal/order"
)

type (
	productsLoadedMsg struct {
		first  bool
		loaded bool
		err    error
	}

	reviewsLoadedMsg struct {
		err error
	}

	cartChangedMsg cart.State

	orderPlacedMsg struct {
		result order.Result
		err    error
	}
)

func (m Model) loadFirst() tea.Cmd {
	pager, timeout := m.pager, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := pager.LoadFirst(ctx)
		return productsLoadedMsg{first: true, loaded: err == nil, err: err}
	}
}

func (m Model) loadMore() tea.Cmd {
	pager, timeout := m.pager, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ok, err := pager.LoadMore(ctx)
		return productsLoadedMsg{loaded: ok, err: err}
	}
}

func (m Model) loadReviews() tea.Cmd {
	feed, timeout := m.reviews, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return reviewsLoadedMsg{err: feed.Load(ctx)}
	}
}

func (m Model) waitForCart() tea.Cmd {
	ch, done := m.cartCh, m.done
	return func() tea.Msg {
		select {
		case st := <-ch:
			return cartChangedMsg(st)
		case <-done:
			return nil
		}
	}
}

func (m Model) placeOrder(phone string) tea.Cmd {
	checkout, timeout := m.checkout, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logging.UIDebug("Placing order")
		res, err := checkout.Place(ctx, phone)
		return orderPlacedMsg{result: res, err: err}
	}
}
