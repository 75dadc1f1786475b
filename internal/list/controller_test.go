package list_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"productdesk/internal/list"
	"productdesk/internal/models"
	"productdesk/internal/notify"
)

// MockProductAPI is a mock implementation of list.ProductAPI.
type MockProductAPI struct {
	mock.Mock
}

func (m *MockProductAPI) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductAPI) DeleteProduct(ctx context.Context, id string) (*models.MessageResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageResponse), args.Error(1)
}

var ctx = context.Background()

var mockProducts = []models.Product{
	{
		ID:           "test1",
		Name:         "Test Product 1",
		Description:  "Test Description 1",
		Logo:         "test-logo1.png",
		DateRelease:  "2024-01-01",
		DateRevision: "2025-01-01",
	},
	{
		ID:           "test2",
		Name:         "Another Product",
		Description:  "Another Description",
		Logo:         "test-logo2.png",
		DateRelease:  "2024-02-01",
		DateRevision: "2025-02-01",
	},
}

func loaded(t *testing.T) (*list.Controller, *MockProductAPI, *notify.Recorder) {
	t.Helper()
	api := new(MockProductAPI)
	api.On("ListProducts", mock.Anything).Return(mockProducts, nil).Once()
	rec := &notify.Recorder{}
	c := list.NewController(api, rec, nil)
	require.NoError(t, c.Load(ctx))
	return c, api, rec
}

func TestDefaults(t *testing.T) {
	c := list.NewController(new(MockProductAPI), &notify.Recorder{}, nil)

	assert.Empty(t, c.Products())
	assert.Empty(t, c.Filtered())
	assert.Empty(t, c.Page())
	assert.Equal(t, "", c.SearchTerm())
	assert.Equal(t, 5, c.PageSize())
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, list.DeleteIdle, c.DeleteState())
	_, ok := c.DeleteTarget()
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	c, api, _ := loaded(t)

	assert.Equal(t, mockProducts, c.Products())
	assert.Equal(t, mockProducts, c.Filtered())
	assert.Len(t, c.Page(), 2)
	api.AssertExpectations(t)
}

func TestLoad_FailureLogsAndNotifies(t *testing.T) {
	api := new(MockProductAPI)
	api.On("ListProducts", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	rec := &notify.Recorder{}
	c := list.NewController(api, rec, nil)

	err := c.Load(ctx)

	require.Error(t, err)
	assert.Empty(t, c.Products())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindError, last.Kind)
	assert.Equal(t, "Could not load the products", last.Message)
}

func TestSearch(t *testing.T) {
	c, _, _ := loaded(t)
	require.NoError(t, c.ChangePageSize(10))

	c.Search("Test")

	assert.Equal(t, "Test", c.SearchTerm())
	require.Len(t, c.Filtered(), 1)
	assert.Equal(t, "Test Product 1", c.Filtered()[0].Name)
	assert.Equal(t, 1, c.CurrentPage())
}

func TestSearch_CaseInsensitiveDescription(t *testing.T) {
	c, _, _ := loaded(t)

	c.Search("another description")

	require.Len(t, c.Filtered(), 1)
	assert.Equal(t, "Another Description", c.Filtered()[0].Description)
}

func TestSearch_EmptyRestoresAll(t *testing.T) {
	c, _, _ := loaded(t)
	c.Search("nothing matches")
	assert.Empty(t, c.Filtered())
	assert.Empty(t, c.Page())

	c.Search("")

	assert.Equal(t, mockProducts, c.Filtered())
}

func TestSearch_ResetsPage(t *testing.T) {
	c, _, _ := loaded(t)
	require.NoError(t, c.ChangePageSize(5))
	c.Search("")
	require.NoError(t, c.GoToPage(1))

	c.Search("product")

	assert.Equal(t, 1, c.CurrentPage())
}

func TestChangePageSize(t *testing.T) {
	c, _, _ := loaded(t)

	require.NoError(t, c.ChangePageSize(10))
	assert.Equal(t, 10, c.PageSize())
	assert.Equal(t, 1, c.CurrentPage())

	err := c.ChangePageSize(0)
	assert.ErrorIs(t, err, list.ErrInvalidPageSize)
	assert.Equal(t, 10, c.PageSize())
}

func TestPagination(t *testing.T) {
	api := new(MockProductAPI)
	var many []models.Product
	for i := 1; i <= 12; i++ {
		many = append(many, models.Product{ID: fmt.Sprintf("p%02d", i), Name: fmt.Sprintf("Product %d", i)})
	}
	api.On("ListProducts", mock.Anything).Return(many, nil).Once()
	c := list.NewController(api, &notify.Recorder{}, nil)
	require.NoError(t, c.Load(ctx))

	assert.Equal(t, 3, c.TotalPages())
	assert.Equal(t, many[0:5], c.Page())

	require.NoError(t, c.GoToPage(3))
	assert.Equal(t, many[10:12], c.Page())

	require.NoError(t, c.ChangePageSize(10))
	assert.Equal(t, 2, c.TotalPages())
	assert.Equal(t, many[0:10], c.Page())

	assert.ErrorIs(t, c.GoToPage(0), list.ErrPageOutOfRange)
	assert.ErrorIs(t, c.GoToPage(3), list.ErrPageOutOfRange)
}

func TestPagination_PageSizeOne(t *testing.T) {
	c, _, _ := loaded(t)

	require.NoError(t, c.ChangePageSize(1))
	assert.Equal(t, 2, c.TotalPages())
	require.Len(t, c.Page(), 1)
	assert.Equal(t, mockProducts[0], c.Page()[0])

	require.NoError(t, c.GoToPage(2))
	assert.Equal(t, 2, c.CurrentPage())
	require.Len(t, c.Page(), 1)
	assert.Equal(t, mockProducts[1], c.Page()[0])

	require.NoError(t, c.ChangePageSize(5))
	assert.Equal(t, 1, c.TotalPages())
}

func TestValidPageSize(t *testing.T) {
	for _, size := range list.PageSizeOptions {
		assert.True(t, list.ValidPageSize(size))
	}
	assert.False(t, list.ValidPageSize(1))
	assert.False(t, list.ValidPageSize(7))
}

func TestDelete_ConfirmReloads(t *testing.T) {
	c, api, rec := loaded(t)
	api.On("DeleteProduct", mock.Anything, "test1").
		Return(&models.MessageResponse{Message: "Product removed successfully"}, nil).Once()
	api.On("ListProducts", mock.Anything).Return(mockProducts[1:], nil).Once()

	require.NoError(t, c.RequestDelete(mockProducts[0]))
	assert.Equal(t, list.DeleteConfirmPending, c.DeleteState())
	target, ok := c.DeleteTarget()
	require.True(t, ok)
	assert.Equal(t, mockProducts[0], target)

	require.NoError(t, c.ConfirmDelete(ctx))

	assert.Equal(t, list.DeleteIdle, c.DeleteState())
	_, ok = c.DeleteTarget()
	assert.False(t, ok)
	assert.Equal(t, mockProducts[1:], c.Products())
	last, _ := rec.Last()
	assert.Equal(t, notify.KindSuccess, last.Kind)
	assert.Equal(t, "Product removed successfully", last.Message)
	api.AssertExpectations(t)
}

func TestDelete_Cancel(t *testing.T) {
	c, api, _ := loaded(t)

	require.NoError(t, c.RequestDelete(mockProducts[0]))
	c.CancelDelete()

	assert.Equal(t, list.DeleteIdle, c.DeleteState())
	_, ok := c.DeleteTarget()
	assert.False(t, ok)
	require.NoError(t, c.ConfirmDelete(ctx))
	api.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
}

func TestDelete_ErrorClearsSelection(t *testing.T) {
	c, api, rec := loaded(t)
	api.On("DeleteProduct", mock.Anything, "test1").Return(nil, errors.New("Delete failed")).Once()
	require.NoError(t, c.RequestDelete(mockProducts[0]))

	err := c.ConfirmDelete(ctx)

	require.Error(t, err)
	assert.Equal(t, list.DeleteIdle, c.DeleteState())
	_, ok := c.DeleteTarget()
	assert.False(t, ok)
	last, _ := rec.Last()
	assert.Equal(t, notify.KindError, last.Kind)
	assert.Equal(t, "Could not delete the product", last.Message)
	// No reload after a failed delete.
	api.AssertNumberOfCalls(t, "ListProducts", 1)
}

func TestDelete_NothingSelectedIsNoop(t *testing.T) {
	api := new(MockProductAPI)
	c := list.NewController(api, &notify.Recorder{}, nil)

	require.NoError(t, c.ConfirmDelete(ctx))

	api.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
}

// blockingAPI holds DeleteProduct until released.
type blockingAPI struct {
	*MockProductAPI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) DeleteProduct(ctx context.Context, id string) (*models.MessageResponse, error) {
	close(b.entered)
	<-b.release
	return &models.MessageResponse{Message: "Product removed successfully"}, nil
}

func TestDelete_SecondConfirmWhileInFlightRejected(t *testing.T) {
	mockAPI := new(MockProductAPI)
	mockAPI.On("ListProducts", mock.Anything).Return(mockProducts, nil)
	api := &blockingAPI{MockProductAPI: mockAPI, entered: make(chan struct{}), release: make(chan struct{})}
	c := list.NewController(api, &notify.Recorder{}, nil)
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.RequestDelete(mockProducts[0]))

	done := make(chan error, 1)
	go func() { done <- c.ConfirmDelete(ctx) }()
	<-api.entered

	assert.Equal(t, list.DeleteInFlight, c.DeleteState())
	assert.ErrorIs(t, c.ConfirmDelete(ctx), list.ErrDeleteInFlight)
	assert.ErrorIs(t, c.RequestDelete(mockProducts[1]), list.ErrDeleteInFlight)

	close(api.release)
	require.NoError(t, <-done)
	assert.Equal(t, list.DeleteIdle, c.DeleteState())
}

func TestClose(t *testing.T) {
	c, _, _ := loaded(t)

	c.Close()

	assert.Empty(t, c.Products())
	assert.Empty(t, c.Filtered())
	assert.Empty(t, c.Page())
}

func TestDeleteStateString(t *testing.T) {
	assert.Equal(t, "IDLE", list.DeleteIdle.String())
	assert.Equal(t, "CONFIRM_PENDING", list.DeleteConfirmPending.String())
	assert.Equal(t, "IN_FLIGHT", list.DeleteInFlight.String())
}
