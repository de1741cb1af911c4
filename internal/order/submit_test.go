package order

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/demoapi"
	"storefront/internal/types"
)

// stubBackend returns a canned response and records the last request.
type stubBackend struct {
	resp  types.OrderResponse
	err   error
	calls int
	reqID string
	req   types.OrderRequest
}

func (s *stubBackend) SubmitOrder(_ context.Context, requestID string, req types.OrderRequest) (types.OrderResponse, error) {
	s.calls++
	s.reqID = requestID
	s.req = req
	return s.resp, s.err
}

func TestSubmit(t *testing.T) {
	lines := []types.OrderLine{{ID: 1, Quantity: 2}}

	tests := []struct {
		name    string
		backend *stubBackend
		want    Result
	}{
		{"accepted", &stubBackend{resp: types.OrderResponse{Success: 1}}, Result{Success: true}},
		{"rejected with reason", &stubBackend{resp: types.OrderResponse{Success: 0, Error: "out of stock"}}, Result{Error: "out of stock"}},
		{"rejected without reason", &stubBackend{resp: types.OrderResponse{Success: 0}}, Result{Error: MsgGenericFailure}},
		{"unexpected flag", &stubBackend{resp: types.OrderResponse{Success: 2}}, Result{Error: MsgGenericFailure}},
		{"transport failure", &stubBackend{err: &api.TransportError{Kind: api.KindNetwork, Op: "POST /order", Err: errors.New("refused")}}, Result{Error: MsgConnectionError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSubmitter(tt.backend)
			s.newID = func() string { return "req-fixed" }

			got := s.Submit(context.Background(), "+7 (999) 123-45-67", lines)
			tt.want.RequestID = "req-fixed"
			assert.Equal(t, tt.want, got)

			assert.Equal(t, 1, tt.backend.calls)
			assert.Equal(t, "req-fixed", tt.backend.reqID)
			assert.Equal(t, "79991234567", tt.backend.req.Phone)
			assert.Equal(t, lines, tt.backend.req.Cart)
		})
	}
}

func TestSubmit_GeneratesRequestIDs(t *testing.T) {
	b := &stubBackend{resp: types.OrderResponse{Success: 1}}
	s := NewSubmitter(b)

	first := s.Submit(context.Background(), "79991234567", nil)
	second := s.Submit(context.Background(), "79991234567", nil)

	assert.NotEmpty(t, first.RequestID)
	assert.NotEqual(t, first.RequestID, second.RequestID)
	assert.NotNil(t, b.req.Cart)
}

func TestSubmit_AgainstDemoBackend(t *testing.T) {
	demo := demoapi.NewFixture()
	srv := httptest.NewServer(demo.Handler())
	defer srv.Close()

	s := NewSubmitter(api.NewClient(srv.URL))

	res := s.Submit(context.Background(), "89991234567", []types.OrderLine{{ID: 2, Quantity: 1}})
	require.True(t, res.Success, res.Error)

	orders := demo.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, res.RequestID, orders[0].RequestID)

	res = s.Submit(context.Background(), "89991234567", []types.OrderLine{{ID: 999, Quantity: 1}})
	assert.False(t, res.Success)
	assert.Equal(t, "unknown product 999", res.Error)
}

func TestSubmit_ServerDown(t *testing.T) {
	srv := httptest.NewServer(demoapi.NewFixture().Handler())
	url := srv.URL
	srv.Close()

	res := NewSubmitter(api.NewClient(url)).Submit(context.Background(), "89991234567", nil)
	assert.False(t, res.Success)
	assert.Equal(t, MsgConnectionError, res.Error)
}
