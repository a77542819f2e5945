package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samvad-hq/giftery-client/internal/app"
	"github.com/samvad-hq/giftery-client/internal/catalog"
	"github.com/samvad-hq/giftery-client/internal/domain"
	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVendor struct {
	balance  decimal.Decimal
	products []giftery.Product
	filter   catalog.Filter
	orders   []giftery.OrderData
	journal  map[string]domain.PlacedOrder
	closed   bool
}

func (f *fakeVendor) Balance(context.Context) (decimal.Decimal, error) {
	return f.balance, nil
}

func (f *fakeVendor) Products(_ context.Context, filter catalog.Filter) ([]giftery.Product, error) {
	f.filter = filter
	return catalog.Apply(f.products, filter), nil
}

func (f *fakeVendor) PlaceOrder(_ context.Context, order giftery.OrderData) (app.Placement, error) {
	if prior, ok := f.journal[order.ExternalID]; ok {
		return app.Placement{Order: prior, Duplicate: true}, nil
	}
	f.orders = append(f.orders, order)
	return app.Placement{Order: domain.PlacedOrder{OrderID: 501, ExternalID: order.ExternalID}}, nil
}

func (f *fakeVendor) Close() error {
	f.closed = true
	return nil
}

func execute(t *testing.T, v *fakeVendor, args ...string) (string, Options, error) {
	t.Helper()
	var seen Options
	root := NewRootCmd(func(_ context.Context, opts Options) (Vendor, error) {
		seen = opts
		return v, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), seen, err
}

func TestBalanceCommand(t *testing.T) {
	v := &fakeVendor{balance: decimal.RequireFromString("1520.5")}

	out, opts, err := execute(t, v, "balance", "--post", "--env-file", "test.env")
	require.NoError(t, err)
	assert.Equal(t, "1520.50\n", out)
	assert.True(t, opts.UsePost)
	assert.Equal(t, "test.env", opts.EnvFile)
	assert.True(t, v.closed, "vendor should be closed after the command")
}

func TestProductsCommandFiltersAndPrintsJSON(t *testing.T) {
	v := &fakeVendor{products: []giftery.Product{
		{ID: 1, Title: "Bookshop", Brief: "<p>Paper books</p>", Faces: []decimal.Decimal{decimal.NewFromInt(500)}},
		{ID: 2, Title: "Cinema", Faces: []decimal.Decimal{decimal.NewFromInt(1000)}},
	}}

	out, _, err := execute(t, v, "products", "--face", "500", "--json")
	require.NoError(t, err)
	assert.True(t, v.filter.Face.Equal(decimal.NewFromInt(500)))

	var rows []catalog.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "Paper books", rows[0].Brief)
}

func TestProductsCommandTable(t *testing.T) {
	v := &fakeVendor{products: []giftery.Product{
		{ID: 2, Title: "Cinema", FaceMin: decimal.NewFromInt(300), FaceMax: decimal.NewFromInt(900)},
	}}

	out, _, err := execute(t, v, "products", "-q", "cine")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Cinema")
	assert.Contains(t, out, "300-900")
	assert.Contains(t, out, "1 product(s)")
	assert.Equal(t, "cine", v.filter.Query)
}

func TestOrderCommand(t *testing.T) {
	v := &fakeVendor{}

	out, _, err := execute(t, v, "order", "--product", "7", "--face", "1000",
		"--delivery", "email", "--email", "a@example.com", "--external-id", "ext-1", "--test")
	require.NoError(t, err)
	assert.Equal(t, "order 501 placed (external id ext-1)\n", out)

	require.Len(t, v.orders, 1)
	got := v.orders[0]
	assert.Equal(t, int64(7), got.ProductID)
	assert.Equal(t, int64(1000), got.Face)
	assert.Equal(t, giftery.DeliveryEmail, got.DeliveryType)
	assert.True(t, got.TestMode)
}

func TestOrderCommandReportsDuplicate(t *testing.T) {
	v := &fakeVendor{journal: map[string]domain.PlacedOrder{
		"ext-1": {OrderID: 99, ExternalID: "ext-1"},
	}}

	out, _, err := execute(t, v, "order", "--product", "7", "--face", "1000", "--external-id", "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "order 99 already placed for external id ext-1\n", out)
	assert.Empty(t, v.orders)
}

func TestOrderCommandValidatesBeforeOpeningVendor(t *testing.T) {
	opened := false
	root := NewRootCmd(func(context.Context, Options) (Vendor, error) {
		opened = true
		return &fakeVendor{}, nil
	})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"order", "--product", "7", "--face", "100", "--delivery", "email"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, giftery.ErrInvalidOrder))
	assert.False(t, opened)
}

func TestOrderCommandRequiresFlags(t *testing.T) {
	_, _, err := execute(t, &fakeVendor{}, "order", "--face", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product")
}

func TestVendorFactoryErrorIsReturned(t *testing.T) {
	root := NewRootCmd(func(context.Context, Options) (Vendor, error) {
		return nil, errors.New("client_secret is required")
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"balance"})

	err := root.Execute()
	require.EqualError(t, err, "client_secret is required")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, &fakeVendor{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "giftery v"+giftery.Version)
	assert.Contains(t, out, giftery.DefaultUserAgent)
}
