package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/demoapi"
	"storefront/internal/types"
)

func newDemo(t *testing.T) (*demoapi.Server, *Client) {
	t.Helper()
	demo := demoapi.NewFixture()
	srv := httptest.NewServer(demo.Handler())
	t.Cleanup(srv.Close)
	return demo, NewClient(srv.URL+"/", WithTimeout(5*time.Second))
}

func TestFetchProducts(t *testing.T) {
	_, c := newDemo(t)

	page, err := c.FetchProducts(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 45, page.Total)
	require.Len(t, page.Items, 20)
	assert.Equal(t, int64(21), page.Items[0].ID)
	assert.True(t, page.Items[0].Price.IsPositive())
}

func TestWithTimeoutDoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := NewClient("http://example.invalid", WithHTTPClient(shared), WithTimeout(3*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 3*time.Second, c.client.Timeout)
	assert.NotSame(t, shared, c.client)
}

func TestFetchReviews(t *testing.T) {
	_, c := newDemo(t)

	reviews, err := c.FetchReviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

func TestFetch_HTTPStatusIsTransportError(t *testing.T) {
	demo, c := newDemo(t)
	demo.FailNext(http.StatusInternalServerError)

	_, err := c.FetchProducts(context.Background(), 1, 20)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindHTTP, te.Kind)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "GET /products", te.Op)
}

func TestFetch_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).FetchReviews(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindNetwork, te.Kind)
	assert.NotNil(t, errors.Unwrap(te))
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchReviews(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindDecode, te.Kind)
}

func TestFetch_NullItemsBecomeEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"amount":0,"total":0,"items":null}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL).FetchProducts(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
}

func TestRequestHeadersAndQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"page":3,"amount":0,"total":0,"items":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithUserAgent("shop-test/2")).FetchProducts(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "/products", got.URL.Path)
	assert.Equal(t, "3", got.URL.Query().Get("page"))
	assert.Equal(t, "7", got.URL.Query().Get("page_size"))
	assert.Equal(t, "shop-test/2", got.Header.Get("User-Agent"))
}

func TestSubmitOrder(t *testing.T) {
	demo, c := newDemo(t)

	resp, err := c.SubmitOrder(context.Background(), "req-1", types.OrderRequest{
		Phone: "79991234567",
		Cart:  []types.OrderLine{{ID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Success)

	orders := demo.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "req-1", orders[0].RequestID)
}

func TestSubmitOrder_RejectionBodyDecodedOnErrorStatus(t *testing.T) {
	_, c := newDemo(t)

	resp, err := c.SubmitOrder(context.Background(), "", types.OrderRequest{
		Phone: "79991234567",
		Cart:  []types.OrderLine{{ID: 404, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Success)
	assert.Equal(t, "unknown product 404", resp.Error)
}

func TestSubmitOrder_EmptyBodyIsDecodeError(t *testing.T) {
	demo, c := newDemo(t)
	demo.FailNext(http.StatusBadGateway)

	_, err := c.SubmitOrder(context.Background(), "", types.OrderRequest{Phone: "79991234567"})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindDecode, te.Kind)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
}

func TestContextCancellation(t *testing.T) {
	_, c := newDemo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchProducts(ctx, 1, 20)
	assert.True(t, IsTransportError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransportErrorMessages(t *testing.T) {
	assert.Equal(t, "GET /reviews: unexpected status 503",
		(&TransportError{Kind: KindHTTP, Op: "GET /reviews", StatusCode: 503}).Error())
	assert.Contains(t, (&TransportError{Kind: KindNetwork, Op: "GET /reviews", Err: errors.New("refused")}).Error(), "refused")
	assert.False(t, IsTransportError(errors.New("plain")))
}
