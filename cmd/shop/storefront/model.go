// Package storefront is the interactive terminal storefront: a paginated
// catalog, the review feed and the order form around one shared cart.
package storefront

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/cmd/shop/ui"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/order"
	"storefront/internal/types"
)

// Pane identifies the focused part of the screen.
type Pane int

const (
	CatalogPane Pane = iota
	ReviewsPane
	OrderPane
)

// Deps are the collaborators the model drives. All are required.
type Deps struct {
	Pager    *catalog.Pager
	Reviews  *catalog.ReviewFeed
	Cart     *cart.Store
	Checkout *order.Checkout
	Styles   ui.Styles

	// Rows from the end of the list at which the next page is requested.
	LoadMoreThreshold int
	// Per-request timeout for backend calls.
	RequestTimeout time.Duration
}

// Model is the bubbletea model.
type Model struct {
	pager    *catalog.Pager
	reviews  *catalog.ReviewFeed
	cart     *cart.Store
	checkout *order.Checkout

	styles   ui.Styles
	renderer *ui.MarkdownRenderer
	spinner  spinner.Model
	phone    textinput.Model
	viewport viewport.Model

	phoneSaver  *ui.Debouncer
	cartCh      chan cart.State
	done        chan struct{}
	unsubscribe func()
	closeOnce   *sync.Once

	pane      Pane
	cursor    int
	offset    int
	products  []types.Product
	cartState cart.State

	loadingFirst   bool
	loadingMore    bool
	productsErr    error
	reviewsLoading bool
	reviewsErr     error

	phoneErr      string
	notice        string
	noticeIsError bool
	submitting    bool
	showSuccess   bool

	width     int
	height    int
	ready     bool
	threshold int
	timeout   time.Duration
}

// New builds the model and subscribes it to cart changes.
func New(d Deps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = d.Styles.Spinner

	ti := textinput.New()
	ti.Placeholder = "+7 (999) 123-45-67"
	ti.CharLimit = 18
	ti.Prompt = "☎ "
	ti.SetValue(order.FormatPhone(d.Checkout.SavedPhone()))

	threshold := d.LoadMoreThreshold
	if threshold <= 0 {
		threshold = 3
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	m := Model{
		pager:          d.Pager,
		reviews:        d.Reviews,
		cart:           d.Cart,
		checkout:       d.Checkout,
		styles:         d.Styles,
		spinner:        sp,
		phone:          ti,
		viewport:       viewport.New(40, 6),
		phoneSaver:     ui.NewDebouncer(ui.DefaultInputDuration),
		cartCh:         make(chan cart.State, 1),
		done:           make(chan struct{}),
		closeOnce:      &sync.Once{},
		cartState:      d.Cart.Snapshot(),
		loadingFirst:   true,
		reviewsLoading: true,
		threshold:      threshold,
		timeout:        timeout,
	}
	m.unsubscribe = d.Cart.Subscribe(m.publishCart)
	return m
}

// publishCart hands the newest cart state to the UI loop, replacing any
// state the loop has not picked up yet.
func (m Model) publishCart(st cart.State) {
	for {
		select {
		case m.cartCh <- st:
			return
		default:
		}
		select {
		case <-m.cartCh:
		default:
		}
	}
}

// Init starts the initial loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.loadFirst(),
		m.loadReviews(),
		m.waitForCart(),
	)
}

// Shutdown stops listening to the cart and saves the typed phone. Call it
// after the program exits.
func (m Model) Shutdown() {
	m.closeOnce.Do(func() {
		m.phoneSaver.Flush()
		m.unsubscribe()
		close(m.done)
	})
}

// Pane returns the focused pane.
func (m Model) Pane() Pane { return m.pane }

// CartState returns the cart as last seen by the UI.
func (m Model) CartState() cart.State { return m.cartState }
