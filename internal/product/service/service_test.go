package service

import (
	"context"
	"errors"
	"testing"

	perrors "github.com/abgdnv/productos/internal/product/errors"
	"github.com/abgdnv/productos/internal/product/store"
	"github.com/abgdnv/productos/pkg/messaging"
	"github.com/abgdnv/productos/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockPublisher records published events.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// failingStore is a ProductStore whose every operation fails with err.
type failingStore struct {
	err error
}

func (f *failingStore) FindAll() ([]store.Product, error) {
	return nil, f.err
}

func (f *failingStore) Create(_ string, _ float64) (*store.Product, error) {
	return nil, f.err
}

func (f *failingStore) Update(_ int, _ func(p *store.Product) error) (*store.Product, error) {
	return nil, f.err
}

func (f *failingStore) DeleteByID(_ int) error {
	return f.err
}

func (f *failingStore) Exists(_ int) bool {
	return false
}

func fields(name, price string) ProductFieldsDto {
	var dto ProductFieldsDto
	if name != "" {
		dto.Name = NewJSONField(name)
	}
	if price != "" {
		dto.Price = NewJSONField(price)
	}
	return dto
}

func newSeededService() (*Service, store.ProductStore) {
	repo := store.NewInMemoryStore(store.SeedProducts...)
	return NewService(repo, nil), repo
}

func assertValidation(t *testing.T, err error, field string, expected error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, expected)
	var vErr *perrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, field, vErr.Field)
	assert.Equal(t, expected.Error(), vErr.Error())
}

func Test_ProductService_FindAll(t *testing.T) {
	t.Run("Success - seeded products in insertion order", func(t *testing.T) {
		// given
		service, _ := newSeededService()
		// when
		found, err := service.FindAll(context.Background())
		// then
		require.NoError(t, err)
		assert.Equal(t, []ProductDto{
			{ID: 1, Name: "Mouse", Price: 50},
			{ID: 2, Name: "Teclado", Price: 100},
		}, found)
	})

	t.Run("Success - empty store", func(t *testing.T) {
		// given
		service := NewService(store.NewInMemoryStore(), nil)
		// when
		found, err := service.FindAll(context.Background())
		// then
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})

	t.Run("Error - store failure is wrapped", func(t *testing.T) {
		// given
		storeErr := errors.New("boom")
		service := NewService(&failingStore{err: storeErr}, nil)
		// when
		found, err := service.FindAll(context.Background())
		// then
		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, found)
	})
}

func Test_ProductService_Create(t *testing.T) {
	testCases := []struct {
		name          string
		fields        ProductFieldsDto
		expected      *ProductDto
		expectField   string
		expectedError error
	}{
		{
			name:     "Success - next id is size plus one",
			fields:   fields(`"Monitor"`, `300`),
			expected: &ProductDto{ID: 3, Name: "Monitor", Price: 300},
		},
		{
			name:     "Success - zero price",
			fields:   fields(`"Cable"`, `0`),
			expected: &ProductDto{ID: 3, Name: "Cable", Price: 0},
		},
		{
			name:     "Success - decimal price",
			fields:   fields(`"Pad"`, `12.5`),
			expected: &ProductDto{ID: 3, Name: "Pad", Price: 12.5},
		},
		{
			name:          "Error - name missing",
			fields:        fields(``, `10`),
			expectField:   "nombre",
			expectedError: perrors.ErrNameRequired,
		},
		{
			name:          "Error - name blank",
			fields:        fields(`"   "`, `10`),
			expectField:   "nombre",
			expectedError: perrors.ErrNameRequired,
		},
		{
			name:          "Error - name null",
			fields:        fields(`null`, `10`),
			expectField:   "nombre",
			expectedError: perrors.ErrNameRequired,
		},
		{
			name:          "Error - name not a string",
			fields:        fields(`42`, `10`),
			expectField:   "nombre",
			expectedError: perrors.ErrNameRequired,
		},
		{
			name:          "Error - name is checked before price",
			fields:        fields(``, `"abc"`),
			expectField:   "nombre",
			expectedError: perrors.ErrNameRequired,
		},
		{
			name:          "Error - price missing",
			fields:        fields(`"Cable"`, ``),
			expectField:   "precio",
			expectedError: perrors.ErrPriceRequired,
		},
		{
			name:          "Error - price not numeric",
			fields:        fields(`"Cable"`, `"abc"`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceRequired,
		},
		{
			name:          "Error - price null",
			fields:        fields(`"Cable"`, `null`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceRequired,
		},
		{
			name:          "Error - price negative",
			fields:        fields(`"Cable"`, `-5`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceNegative,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service, repo := newSeededService()
			// when
			created, err := service.Create(context.Background(), tc.fields)
			// then
			all, _ := repo.FindAll()
			if tc.expectedError != nil {
				assertValidation(t, err, tc.expectField, tc.expectedError)
				assert.Nil(t, created)
				assert.Len(t, all, 2)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
			assert.Len(t, all, 3)
			assert.Equal(t, tc.expected.Name, all[2].Name)
		})
	}
}

func Test_ProductService_Replace(t *testing.T) {
	testCases := []struct {
		name          string
		id            int
		fields        ProductFieldsDto
		expected      *ProductDto
		expectField   string
		expectedError error
	}{
		{
			name:     "Success - replaces in place",
			id:       1,
			fields:   fields(`"Mouse X"`, `60`),
			expected: &ProductDto{ID: 1, Name: "Mouse X", Price: 60},
		},
		{
			name:          "Error - not found takes precedence over validation",
			id:            99,
			fields:        fields(``, ``),
			expectedError: perrors.ErrProductNotFound,
		},
		{
			name:          "Error - name blank",
			id:            1,
			fields:        fields(`""`, `60`),
			expectField:   "nombre",
			expectedError: perrors.ErrNameRequired,
		},
		{
			name:          "Error - price missing",
			id:            1,
			fields:        fields(`"Mouse X"`, ``),
			expectField:   "precio",
			expectedError: perrors.ErrPriceRequired,
		},
		{
			name:          "Error - price negative",
			id:            2,
			fields:        fields(`"Teclado"`, `-1`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceNegative,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service, repo := newSeededService()
			before, _ := repo.FindAll()
			// when
			replaced, err := service.Replace(context.Background(), tc.id, tc.fields)
			// then
			after, _ := repo.FindAll()
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				if tc.expectField != "" {
					assertValidation(t, err, tc.expectField, tc.expectedError)
				}
				assert.Nil(t, replaced)
				assert.Equal(t, before, after)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, replaced)
			assert.Equal(t, store.Product{ID: tc.expected.ID, Name: tc.expected.Name, Price: tc.expected.Price}, after[0])
			assert.Len(t, after, len(before))
		})
	}
}

func Test_ProductService_PartialUpdate(t *testing.T) {
	testCases := []struct {
		name          string
		id            int
		fields        ProductFieldsDto
		expected      *ProductDto
		expectField   string
		expectedError error
	}{
		{
			name:     "Success - only price keeps name",
			id:       2,
			fields:   fields(``, `120`),
			expected: &ProductDto{ID: 2, Name: "Teclado", Price: 120},
		},
		{
			name:     "Success - only name keeps price",
			id:       1,
			fields:   fields(`"Raton"`, ``),
			expected: &ProductDto{ID: 1, Name: "Raton", Price: 50},
		},
		{
			name:     "Success - empty body changes nothing",
			id:       1,
			fields:   ProductFieldsDto{},
			expected: &ProductDto{ID: 1, Name: "Mouse", Price: 50},
		},
		{
			name:          "Error - not found",
			id:            99,
			fields:        fields(``, `120`),
			expectedError: perrors.ErrProductNotFound,
		},
		{
			name:          "Error - blank name",
			id:            1,
			fields:        fields(`" "`, ``),
			expectField:   "nombre",
			expectedError: perrors.ErrNameBlank,
		},
		{
			name:          "Error - null name",
			id:            1,
			fields:        fields(`null`, ``),
			expectField:   "nombre",
			expectedError: perrors.ErrNameBlank,
		},
		{
			name:          "Error - price not numeric",
			id:            1,
			fields:        fields(``, `"cheap"`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceNotNumeric,
		},
		{
			name:          "Error - price negative",
			id:            1,
			fields:        fields(``, `-3`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceNegative,
		},
		{
			name:          "Error - valid name is not applied when price fails",
			id:            1,
			fields:        fields(`"Raton"`, `-3`),
			expectField:   "precio",
			expectedError: perrors.ErrPriceNegative,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service, repo := newSeededService()
			before, _ := repo.FindAll()
			// when
			updated, err := service.PartialUpdate(context.Background(), tc.id, tc.fields)
			// then
			after, _ := repo.FindAll()
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				if tc.expectField != "" {
					assertValidation(t, err, tc.expectField, tc.expectedError)
				}
				assert.Nil(t, updated)
				assert.Equal(t, before, after)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated)
			assert.Equal(t, store.Product{ID: tc.expected.ID, Name: tc.expected.Name, Price: tc.expected.Price}, after[tc.id-1])
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	t.Run("Success - removes exactly one", func(t *testing.T) {
		// given
		service, repo := newSeededService()
		// when
		err := service.DeleteByID(context.Background(), 1)
		// then
		require.NoError(t, err)
		all, _ := repo.FindAll()
		assert.Equal(t, []store.Product{{ID: 2, Name: "Teclado", Price: 100}}, all)
		assert.False(t, service.Exists(context.Background(), 1))
	})

	t.Run("Error - not found leaves store unchanged", func(t *testing.T) {
		// given
		service, repo := newSeededService()
		// when
		err := service.DeleteByID(context.Background(), 99)
		// then
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		all, _ := repo.FindAll()
		assert.Len(t, all, 2)
	})
}

func Test_ProductService_Exists(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	assert.True(t, service.Exists(ctx, 1))
	assert.True(t, service.Exists(ctx, 2))
	assert.False(t, service.Exists(ctx, 3))
	assert.False(t, service.Exists(ctx, 0))
	assert.False(t, service.Exists(ctx, -1))
}

func Test_ProductService_PublishesEvents(t *testing.T) {
	// given
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.ProductEvent) bool {
		return e.Subject() == messaging.ProductsCreatedSubject && e.ProductID == 3 && e.Name == "Monitor"
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.ProductEvent) bool {
		return e.Subject() == messaging.ProductsUpdatedSubject && e.ProductID == 2 && e.Price == 120
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.ProductEvent) bool {
		return e.Subject() == messaging.ProductsDeletedSubject && e.ProductID == 1
	})).Return(errors.New("nats down")).Once()
	service := NewService(store.NewInMemoryStore(store.SeedProducts...), publisher)
	ctx := context.Background()

	// when
	_, createErr := service.Create(ctx, fields(`"Monitor"`, `300`))
	_, patchErr := service.PartialUpdate(ctx, 2, fields(``, `120`))
	deleteErr := service.DeleteByID(ctx, 1)
	_, failedErr := service.Create(ctx, fields(``, `1`))

	// then
	require.NoError(t, createErr)
	require.NoError(t, patchErr)
	require.NoError(t, deleteErr, "publish failures must not fail the mutation")
	require.Error(t, failedErr)
	publisher.AssertExpectations(t)
	publisher.AssertNumberOfCalls(t, "Publish", 3)
}
