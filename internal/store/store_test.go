package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/page"
)

func openTest(t *testing.T) *Store {
	t.Helper()

	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newProduct(sku string, stock int) *catalog.Product {
	return &catalog.Product{
		SKU:          sku,
		Name:         "Product " + sku,
		GrossPrice:   decimal.RequireFromString("19.90"),
		Stock:        stock,
		MinimumStock: 2,
		Active:       true,
	}
}

func TestProductRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns id and round-trips fields", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 7)
		require.NoError(t, repo.Create(ctx, p))
		require.NotZero(t, p.ID)

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", got.SKU)
		assert.True(t, got.GrossPrice.Equal(decimal.RequireFromString("19.90")))
		assert.Equal(t, 7, got.Stock)
		assert.Equal(t, 2, got.MinimumStock)
		assert.True(t, got.Active)
	})

	t.Run("duplicate sku is rejected by the schema", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		require.NoError(t, repo.Create(ctx, newProduct("SKU-1", 1)))
		err := repo.Create(ctx, newProduct("SKU-1", 1))
		require.Error(t, err)
	})

	t.Run("find missing returns not found", func(t *testing.T) {
		st := openTest(t)

		_, err := st.Products().FindByID(ctx, 42)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("adjust stock applies signed deltas", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 10)
		require.NoError(t, repo.Create(ctx, p))

		require.NoError(t, repo.AdjustStock(ctx, p.ID, -4))
		require.NoError(t, repo.AdjustStock(ctx, p.ID, 1))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Stock)

		err = repo.AdjustStock(ctx, 42, -1)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("adjust stock below zero violates the check constraint", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 2)
		require.NoError(t, repo.Create(ctx, p))

		err := repo.AdjustStock(ctx, p.ID, -5)
		require.Error(t, err)
	})

	t.Run("find below minimum", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		low := newProduct("SKU-LOW", 1) // minimum_stock 2
		fine := newProduct("SKU-OK", 5)
		require.NoError(t, repo.Create(ctx, low))
		require.NoError(t, repo.Create(ctx, fine))

		out, err := repo.FindBelowMinimum(ctx)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "SKU-LOW", out[0].SKU)
	})

	t.Run("list pages and filters on active", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		for _, sku := range []string{"A", "B", "C"} {
			require.NoError(t, repo.Create(ctx, newProduct("SKU-"+sku, 1)))
		}
		inactive := newProduct("SKU-D", 1)
		inactive.Active = false
		require.NoError(t, repo.Create(ctx, inactive))

		first, err := repo.List(ctx, nil, page.Request{Number: 0, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), first.Total)
		require.Len(t, first.Items, 2)
		assert.Equal(t, "SKU-A", first.Items[0].SKU)

		second, err := repo.List(ctx, nil, page.Request{Number: 1, Size: 2})
		require.NoError(t, err)
		require.Len(t, second.Items, 2)
		assert.Equal(t, "SKU-C", second.Items[0].SKU)

		active := true
		onlyActive, err := repo.List(ctx, &active, page.Request{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), onlyActive.Total)
	})

	t.Run("delete", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 1)
		require.NoError(t, repo.Create(ctx, p))
		require.NoError(t, repo.Delete(ctx, p.ID))

		err := repo.Delete(ctx, p.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCustomerRepo(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, st *Store, name, email, taxID string) *customer.Customer {
		t.Helper()
		c := &customer.Customer{
			Name:  name,
			Email: email,
			TaxID: taxID,
			Address: customer.Address{
				Street:     "Av. Paulista",
				City:       "São Paulo",
				Region:     "SP",
				PostalCode: "01310100",
			},
		}
		require.NoError(t, st.Customers().Create(ctx, c))
		return c
	}

	t.Run("round trip with address", func(t *testing.T) {
		st := openTest(t)
		c := seed(t, st, "Ana Souza", "ana@example.com", "111")

		got, err := st.Customers().FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", got.Name)
		assert.Equal(t, "Av. Paulista", got.Address.Street)
		assert.Equal(t, "01310100", got.Address.PostalCode)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("uniqueness probes", func(t *testing.T) {
		st := openTest(t)
		seed(t, st, "Ana Souza", "ana@example.com", "111")

		exists, err := st.Customers().ExistsByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = st.Customers().ExistsByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = st.Customers().ExistsByTaxID(ctx, "111")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("search matches name and email, case-insensitive", func(t *testing.T) {
		st := openTest(t)
		seed(t, st, "Ana Souza", "ana@example.com", "111")
		seed(t, st, "Bruno Lima", "bruno@example.com", "222")

		res, err := st.Customers().Search(ctx, "ANA", page.Request{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Ana Souza", res.Items[0].Name)

		res, err = st.Customers().Search(ctx, "example.com", page.Request{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
	})
}

func TestInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("error rolls back every write", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 10)
		require.NoError(t, repo.Create(ctx, p))

		boom := errors.New("boom")
		err := st.InTx(ctx, func(ctx context.Context) error {
			if err := repo.AdjustStock(ctx, p.ID, -3); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Stock)
	})

	t.Run("nil commits", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 10)
		require.NoError(t, repo.Create(ctx, p))

		err := st.InTx(ctx, func(ctx context.Context) error {
			return repo.AdjustStock(ctx, p.ID, -3)
		})
		require.NoError(t, err)

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Stock)
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		st := openTest(t)
		repo := st.Products()

		p := newProduct("SKU-1", 10)
		require.NoError(t, repo.Create(ctx, p))

		boom := errors.New("boom")
		err := st.InTx(ctx, func(ctx context.Context) error {
			inner := st.InTx(ctx, func(ctx context.Context) error {
				return repo.AdjustStock(ctx, p.ID, -3)
			})
			require.NoError(t, inner)
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Stock, "inner writes share the outer transaction's fate")
	})
}
