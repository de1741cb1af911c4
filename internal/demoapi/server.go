// Package demoapi is an in-process implementation of the storefront REST
// backend over a fixture catalog. It backs `shop demo-server` and tests.
package demoapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"storefront/internal/logging"
	"storefront/internal/types"
)

const defaultPageSize = 20

// Order is an order accepted by the demo backend.
type Order struct {
	RequestID string
	Phone     string
	Lines     []types.OrderLine
}

// Server serves GET /products, GET /reviews and POST /order.
type Server struct {
	mu       sync.Mutex
	products []types.Product
	byID     map[int64]types.Product
	reviews  []types.Review
	orders   []Order
	failNext int // Status code forced on the next request, 0 for none
}

// New creates a server over the given catalog and reviews.
func New(products []types.Product, reviews []types.Review) *Server {
	byID := make(map[int64]types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Server{products: products, byID: byID, reviews: reviews}
}

// NewFixture creates a server over a 45-product fixture catalog.
func NewFixture() *Server {
	return New(FixtureCatalog(45), FixtureReviews())
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.injectFailure)

	r.Get("/products", s.handleProducts)
	r.Get("/reviews", s.handleReviews)
	r.Post("/order", s.handleOrder)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// FailNext makes the next request answer with status and an empty body.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	s.failNext = status
	s.mu.Unlock()
}

// Orders returns the accepted orders.
func (s *Server) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		status := s.failNext
		s.failNext = 0
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// wireProduct writes the price as a JSON number like the real backend.
type wireProduct struct {
	ID          int64           `json:"id"`
	ImageURL    string          `json:"image_url,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
}

type wirePage struct {
	Page   int           `json:"page"`
	Amount int           `json:"amount"`
	Total  int           `json:"total"`
	Items  []wireProduct `json:"items"`
}

func toWire(p types.Product) wireProduct {
	return wireProduct{
		ID:          p.ID,
		ImageURL:    p.ImageURL,
		Title:       p.Title,
		Description: p.Description,
		Price:       json.RawMessage(p.Price.String()),
	}
}

func (s *Server) handleProducts(w http.ResponseWriter, req *http.Request) {
	page := queryInt(req, "page", 1)
	size := queryInt(req, "page_size", defaultPageSize)

	s.mu.Lock()
	total := len(s.products)
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := make([]wireProduct, 0, end-start)
	for _, p := range s.products[start:end] {
		items = append(items, toWire(p))
	}
	s.mu.Unlock()

	logging.APIDebug("demo: GET /products page=%d size=%d -> %d items", page, size, len(items))
	writeJSON(w, http.StatusOK, wirePage{Page: page, Amount: len(items), Total: total, Items: items})
}

func (s *Server) handleReviews(w http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	reviews := s.reviews
	s.mu.Unlock()
	if reviews == nil {
		reviews = []types.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleOrder(w http.ResponseWriter, req *http.Request) {
	var body types.OrderRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, types.OrderResponse{Success: 0, Error: "invalid request body"})
		return
	}

	if msg := s.validateOrder(body); msg != "" {
		logging.APIDebug("demo: order rejected: %s", msg)
		writeJSON(w, http.StatusBadRequest, types.OrderResponse{Success: 0, Error: msg})
		return
	}

	total := s.Total(body.Cart)
	s.mu.Lock()
	s.orders = append(s.orders, Order{
		RequestID: req.Header.Get("X-Request-ID"),
		Phone:     body.Phone,
		Lines:     body.Cart,
	})
	s.mu.Unlock()

	logging.API("demo: accepted order %s: %d lines, total %s", req.Header.Get("X-Request-ID"), len(body.Cart), total.StringFixed(2))
	writeJSON(w, http.StatusOK, types.OrderResponse{Success: 1})
}

func (s *Server) validateOrder(body types.OrderRequest) string {
	if len(body.Phone) != 11 {
		return "invalid phone number"
	}
	for _, r := range body.Phone {
		if r < '0' || r > '9' {
			return "invalid phone number"
		}
	}
	if len(body.Cart) == 0 {
		return "cart is empty"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range body.Cart {
		if _, ok := s.byID[line.ID]; !ok {
			return "unknown product " + strconv.FormatInt(line.ID, 10)
		}
		if line.Quantity <= 0 {
			return "invalid quantity"
		}
	}
	return ""
}

// Total returns the price of an order against this catalog.
func (s *Server) Total(lines []types.OrderLine) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(s.byID[l.ID].Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func queryInt(req *http.Request, key string, def int) int {
	v, err := strconv.Atoi(req.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.APIError("demo: write response: %v", err)
	}
}
