package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFabricCostMultipliesPriceByQuantity(t *testing.T) {
	t.Parallel()

	cost := FabricCost(decimal.NewFromInt(450), decimal.NewFromInt(3))
	require.True(t, cost.Equal(decimal.NewFromInt(1350)), "got %s", cost)

	half := FabricCost(decimal.NewFromInt(300), decimal.RequireFromString("2.5"))
	require.True(t, half.Equal(decimal.NewFromInt(750)), "got %s", half)
}

func TestPriceFabricOrderTotalsKurtaWithFabric(t *testing.T) {
	t.Parallel()

	svc, ok := LookupTailoringService("kurta-tailoring")
	require.True(t, ok)
	require.Equal(t, "Kurta Tailoring", svc.Name)

	pricing := PriceFabricOrder(FabricCost(decimal.NewFromInt(450), decimal.NewFromInt(3)), svc.Price)
	require.True(t, pricing.TotalCost.Equal(decimal.NewFromInt(2000)), "got %s", pricing.TotalCost)
	require.True(t, pricing.TotalCost.Equal(pricing.FabricCost.Add(pricing.TailoringCost)))
}

func TestDeliveryChargeThreshold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		subtotal string
		want     int64
	}{
		{subtotal: "0", want: 50},
		{subtotal: "499.99", want: 50},
		{subtotal: "500", want: 50},
		{subtotal: "500.01", want: 0},
		{subtotal: "1200", want: 0},
	}
	for _, tc := range cases {
		got := DeliveryCharge(decimal.RequireFromString(tc.subtotal))
		require.True(t, got.Equal(decimal.NewFromInt(tc.want)), "subtotal %s: got %s", tc.subtotal, got)
	}
}

func TestPriceProductItemsSumsLineSubtotals(t *testing.T) {
	t.Parallel()

	items := []ProductLineItem{
		{ProductID: "p1", PriceAtPurchase: decimal.NewFromInt(199), Quantity: 2},
		{ProductID: "p2", PriceAtPurchase: decimal.NewFromInt(120), Quantity: 1},
	}
	pricing := PriceProductItems(items)

	require.True(t, items[0].Subtotal.Equal(decimal.NewFromInt(398)))
	require.True(t, pricing.Subtotal.Equal(decimal.NewFromInt(518)))
	require.True(t, pricing.DeliveryCharge.IsZero())
	require.True(t, pricing.Total.Equal(decimal.NewFromInt(518)))
}

func TestOrderStatusValid(t *testing.T) {
	t.Parallel()

	for _, status := range OrderStatuses {
		require.True(t, status.Valid(), status)
	}
	require.False(t, OrderStatus("archived").Valid())
	require.False(t, PaymentStatus("refunded").Valid())
}
