package repository_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

type cartRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CartRepository
	container testcontainers.Container
}

func TestCartRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(cartRepositorySuite))
}

func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error
	suite.container, suite.pool, err = newTestPool(ctx)
	suite.NoError(err)

	suite.repo = repository.NewCart(suite.pool)
}

func (suite *cartRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *cartRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_items CASCADE")
	suite.NoError(err)
}

func (suite *cartRepositorySuite) TestInsertItem() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	item := randomCartItem(uuid.New())

	inserted, err := suite.repo.InsertItem(ctx, item)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, inserted.ID)

	// same user+product+variant violates the active-line index
	_, err = suite.repo.InsertItem(ctx, item)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	// same product, different color is a separate line
	other := item
	other.Variant.Color = item.Variant.Color + "-alt"
	_, err = suite.repo.InsertItem(ctx, other)
	require.NoError(t, err)
}

func (suite *cartRepositorySuite) TestGetActiveItems_Order() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := uuid.New()

	var inserted []domain.CartItem
	for range 3 {
		item, err := suite.repo.InsertItem(ctx, randomCartItem(userID))
		require.NoError(t, err)
		inserted = append(inserted, item)
	}

	items, err := suite.repo.GetActiveItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// insertion order is stable
	for i := range inserted {
		assertCartItem(t, inserted[i], items[i])
	}
}

func (suite *cartRepositorySuite) TestFindItem() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	item := randomCartItem(uuid.New())
	inserted, err := suite.repo.InsertItem(ctx, item)
	require.NoError(t, err)

	found, err := suite.repo.FindItem(ctx, item.UserID, item.ProductID, item.Variant)
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, found.ID)

	_, err = suite.repo.FindItem(ctx, item.UserID, item.ProductID, domain.Variant{Size: "XXL", Color: "none"})
	require.ErrorIs(t, err, repository.ErrCartItemNotFound)
}

func (suite *cartRepositorySuite) TestGetItem_ScopedToUser() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	item := randomCartItem(uuid.New())
	inserted, err := suite.repo.InsertItem(ctx, item)
	require.NoError(t, err)

	found, err := suite.repo.GetItem(ctx, inserted.ID, item.UserID)
	require.NoError(t, err)
	assertCartItem(t, inserted, found)

	// someone else's id does not resolve
	_, err = suite.repo.GetItem(ctx, inserted.ID, uuid.New())
	require.ErrorIs(t, err, repository.ErrCartItemNotFound)
}

func (suite *cartRepositorySuite) TestUpdateQty() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	inserted, err := suite.repo.InsertItem(ctx, randomCartItem(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, suite.repo.UpdateQty(ctx, inserted.ID, 7))

	updated, err := suite.repo.GetItem(ctx, inserted.ID, inserted.UserID)
	require.NoError(t, err)
	assert.Equal(t, int32(7), updated.Qty)

	err = suite.repo.UpdateQty(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, repository.ErrCartItemNotFound)
}

func (suite *cartRepositorySuite) TestSoftDeleteItem() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	item := randomCartItem(uuid.New())
	inserted, err := suite.repo.InsertItem(ctx, item)
	require.NoError(t, err)

	require.NoError(t, suite.repo.SoftDeleteItem(ctx, inserted.ID))

	_, err = suite.repo.GetItem(ctx, inserted.ID, item.UserID)
	require.ErrorIs(t, err, repository.ErrCartItemNotFound)

	err = suite.repo.SoftDeleteItem(ctx, inserted.ID)
	require.ErrorIs(t, err, repository.ErrCartItemNotFound)

	// the active-line index frees up, re-adding the same line works
	_, err = suite.repo.InsertItem(ctx, item)
	require.NoError(t, err)
}

func (suite *cartRepositorySuite) TestClearCart() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := uuid.New()
	otherID := uuid.New()

	for range 3 {
		_, err := suite.repo.InsertItem(ctx, randomCartItem(userID))
		require.NoError(t, err)
	}
	_, err := suite.repo.InsertItem(ctx, randomCartItem(otherID))
	require.NoError(t, err)

	cleared, err := suite.repo.ClearCart(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cleared)

	mine, err := suite.repo.GetActiveItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := suite.repo.GetActiveItems(ctx, otherID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	// clearing an empty cart clears nothing
	cleared, err = suite.repo.ClearCart(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

func assertCartItem(t *testing.T, expected, actual domain.CartItem) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.CartItem{}, "CreatedAt", "UpdatedAt"),
	}
	assert.Empty(t, cmp.Diff(expected, actual, opts))
}
