package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/client"
	"productdesk/internal/models"
)

var mockProduct = models.Product{
	ID:           "test123",
	Name:         "Test Product",
	Description:  "Test Description",
	Logo:         "test-logo.png",
	DateRelease:  "2024-01-01",
	DateRevision: "2025-01-01",
}

type recordedRequest struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// newTestServer serves a fixed status and body and records the last request.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.EscapedPath()
		rec.Body, _ = io.ReadAll(r.Body)
		rec.RequestID = r.Header.Get(client.RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newClient(srv *httptest.Server) *client.Client {
	return client.New(client.Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, nil)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestListProducts(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, mustJSON(t, models.ProductsResponse{Data: []models.Product{mockProduct}}))

	products, err := newClient(srv).ListProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/bp/products", rec.Path)
	assert.NotEmpty(t, rec.RequestID)
	require.Len(t, products, 1)
	assert.Equal(t, mockProduct, products[0])
}

func TestListProducts_EmptyData(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)

	products, err := newClient(srv).ListProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestGetProduct(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, mustJSON(t, mockProduct))

	product, err := newClient(srv).GetProduct(context.Background(), "test123")

	require.NoError(t, err)
	assert.Equal(t, "/bp/products/test123", rec.Path)
	assert.Equal(t, &mockProduct, product)
}

func TestCreateProduct(t *testing.T) {
	want := models.ProductResponse{Message: "Product added successfully", Data: mockProduct}
	srv, rec := newTestServer(t, http.StatusOK, mustJSON(t, want))

	resp, err := newClient(srv).CreateProduct(context.Background(), mockProduct)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/bp/products", rec.Path)
	assert.JSONEq(t, mustJSON(t, mockProduct), string(rec.Body))
	assert.Equal(t, &want, resp)
}

func TestUpdateProduct_OmitsID(t *testing.T) {
	want := models.ProductResponse{Message: "Product updated successfully", Data: mockProduct}
	srv, rec := newTestServer(t, http.StatusOK, mustJSON(t, want))

	resp, err := newClient(srv).UpdateProduct(context.Background(), "test123", mockProduct.WithoutID())

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.Method)
	assert.Equal(t, "/bp/products/test123", rec.Path)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &sent))
	assert.NotContains(t, sent, "id")
	assert.Equal(t, "Test Product", sent["name"])
	assert.Equal(t, "Product updated successfully", resp.Message)
}

func TestDeleteProduct(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"message":"Product removed successfully"}`)

	resp, err := newClient(srv).DeleteProduct(context.Background(), "test123")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/bp/products/test123", rec.Path)
	assert.Equal(t, "Product removed successfully", resp.Message)
}

func TestVerifyProduct(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `true`)

	exists, err := newClient(srv).VerifyProduct(context.Background(), "test123")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "/bp/products/verification/test123", rec.Path)

	srv, _ = newTestServer(t, http.StatusOK, `false`)
	exists, err = newClient(srv).VerifyProduct(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVerifyProduct_UnexpectedBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"exists":true}`)

	_, err := newClient(srv).VerifyProduct(context.Background(), "test123")

	assert.ErrorIs(t, err, client.ErrServer)
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   error
	}{
		{http.StatusBadRequest, client.ErrBadRequest},
		{http.StatusNotFound, client.ErrNotFound},
		{http.StatusInternalServerError, client.ErrServer},
		{http.StatusServiceUnavailable, client.ErrServer},
	}
	for _, tc := range cases {
		srv, _ := newTestServer(t, tc.status, `{"name":"SomeError","message":"boom"}`)

		_, err := newClient(srv).GetProduct(context.Background(), "x")

		require.Error(t, err)
		assert.ErrorIs(t, err, tc.kind, "status %d", tc.status)
		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, tc.status, apiErr.Status)
		assert.Equal(t, "SomeError", apiErr.Name)
		assert.Equal(t, "boom", client.MessageOf(err, "fallback"))
	}
}

func TestErrorWithoutMessageUsesFallback(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, `oops`)

	_, err := newClient(srv).ListProducts(context.Background())

	assert.ErrorIs(t, err, client.ErrServer)
	assert.Equal(t, "fallback", client.MessageOf(err, "fallback"))
}

func TestUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	c := newClient(srv)
	srv.Close()

	_, err := c.ListProducts(context.Background())

	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, "The server is unavailable, please try again later", client.MessageOf(err, "fallback"))
}
