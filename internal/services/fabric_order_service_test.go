package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/storage"
)

type fabricOrderFixture struct {
	svc       FabricOrderService
	orders    *stubFabricOrderRepository
	fabrics   *stubFabricRepository
	uploader  *stubUploader
	publisher *stubPublisher
	metrics   *stubMetrics
}

func newFabricOrderFixture(t *testing.T) *fabricOrderFixture {
	t.Helper()
	f := &fabricOrderFixture{
		orders: &stubFabricOrderRepository{},
		fabrics: &stubFabricRepository{byID: map[string]domain.Fabric{
			"cotton": {
				ID:            "cotton",
				Name:          "Handloom Cotton",
				PricePerMeter: decimal.NewFromInt(450),
				Available:     true,
				Colors: []domain.ColorVariant{
					{Name: "Indigo", Hex: "#3f51b5", Stock: 20},
					{Name: "Ivory", Hex: "#fffff0", Stock: 4},
				},
			},
		}},
		uploader:  &stubUploader{},
		publisher: &stubPublisher{},
		metrics:   &stubMetrics{},
	}
	svc, err := NewFabricOrderService(FabricOrderServiceDeps{
		Orders:       f.orders,
		Fabrics:      f.fabrics,
		Images:       f.uploader,
		ImagePaths:   storage.NewPathBuilder(""),
		Events:       f.publisher,
		Metrics:      f.metrics,
		Clock:        fixedClock(),
		IDGenerator:  sequentialIDs("ord_"),
		OrderNumbers: fixedOrderNumber,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func validCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{Name: "Asha Verma", Phone: "9876543210", AccountID: "uid-1"}
}

func validAddress() domain.Address {
	return domain.Address{Line1: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001"}
}

func tailoringCommand() CreateTailoringOrderCommand {
	return CreateTailoringOrderCommand{
		ServiceID:     "kurta-tailoring",
		FabricID:      "cotton",
		ColorIndex:    0,
		Quantity:      decimal.NewFromInt(3),
		Customer:      validCustomer(),
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodCashOnDelivery,
	}
}

func pngBase64() string {
	return base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01"))
}

func TestCreateTailoringOrderPricesKurtaWithFabric(t *testing.T) {
	f := newFabricOrderFixture(t)

	receipt, err := f.svc.CreateTailoringOrder(context.Background(), tailoringCommand())
	require.NoError(t, err)

	order := receipt.Order
	require.Equal(t, "ord_1", receipt.ID)
	require.Equal(t, "ORD-20260506-4821", receipt.OrderNumber)
	require.True(t, order.Pricing.FabricCost.Equal(decimal.NewFromInt(1350)), "fabric cost %s", order.Pricing.FabricCost)
	require.True(t, order.Pricing.TailoringCost.Equal(decimal.NewFromInt(650)))
	require.True(t, order.Pricing.TotalCost.Equal(decimal.NewFromInt(2000)), "total %s", order.Pricing.TotalCost)
	require.Equal(t, "Indigo", order.Fabric.ColorName)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, f.orders.inserted, 1)
	require.Equal(t, 1, f.metrics.created[string(domain.FabricOrderKindTailoring)])

	require.Len(t, f.publisher.events, 1)
	require.Equal(t, OrderEventCreated, f.publisher.events[0].Type)
	require.Equal(t, "2000", f.publisher.events[0].Total)
}

func TestCreateTailoringOrderStitchingOnlyHasNoFabricCost(t *testing.T) {
	f := newFabricOrderFixture(t)
	cmd := tailoringCommand()
	cmd.ServiceID = domain.StitchingOnlyServiceID
	cmd.FabricID = "does-not-matter"

	receipt, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
	require.NoError(t, err)

	pricing := receipt.Order.Pricing
	require.True(t, pricing.FabricCost.IsZero())
	require.True(t, pricing.TotalCost.Equal(pricing.TailoringCost))
	require.True(t, receipt.Order.Fabric.OwnFabric)
}

func TestCreateTailoringOrderLookupErrors(t *testing.T) {
	cases := map[string]func(*CreateTailoringOrderCommand){
		"unknown service": func(cmd *CreateTailoringOrderCommand) { cmd.ServiceID = "sherwani" },
		"unknown fabric":  func(cmd *CreateTailoringOrderCommand) { cmd.FabricID = "velvet" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFabricOrderFixture(t)
			cmd := tailoringCommand()
			mutate(&cmd)

			_, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
			require.ErrorIs(t, err, ErrOrderLookup)
			require.Empty(t, f.orders.inserted)
		})
	}
}

func TestCreateTailoringOrderFabricBackendFailureIsUnavailable(t *testing.T) {
	f := newFabricOrderFixture(t)
	f.fabrics.findErr = errRepoUnavailable

	_, err := f.svc.CreateTailoringOrder(context.Background(), tailoringCommand())
	require.ErrorIs(t, err, ErrOrderUnavailable)
	require.Empty(t, f.orders.inserted)
}

func TestCreateTailoringOrderOutOfRangeColorLeavesColorEmpty(t *testing.T) {
	for _, index := range []int{2, 17, -1} {
		f := newFabricOrderFixture(t)
		cmd := tailoringCommand()
		cmd.ColorIndex = index

		receipt, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
		require.NoError(t, err)
		require.Empty(t, receipt.Order.Fabric.ColorName)
		require.Empty(t, receipt.Order.Fabric.ColorHex)
		require.True(t, receipt.Order.Pricing.TotalCost.Equal(decimal.NewFromInt(2000)))
	}
}

func TestCreateTailoringOrderUploadsReferenceImage(t *testing.T) {
	f := newFabricOrderFixture(t)
	cmd := tailoringCommand()
	cmd.Customization = CustomizationInput{ButtonStyle: "wooden", ImageBase64: pngBase64()}

	receipt, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
	require.NoError(t, err)

	require.Equal(t, []string{"button-images/ORD-20260506-4821.jpg"}, f.uploader.objects)
	require.Equal(t, "image/png", f.uploader.contentType)
	require.Equal(t, "https://storage.googleapis.com/silai-images/button-images/ORD-20260506-4821.jpg", receipt.Order.Customization.ReferenceImageURL)
	require.Empty(t, receipt.Order.Customization.ImageNote)
}

func TestCreateTailoringOrderImageFailureIsNonFatal(t *testing.T) {
	cases := map[string]func(*fabricOrderFixture, *CreateTailoringOrderCommand){
		"upload error": func(f *fabricOrderFixture, cmd *CreateTailoringOrderCommand) {
			f.uploader.err = errors.New("gcs: 503")
			cmd.Customization.ImageBase64 = pngBase64()
		},
		"not base64": func(_ *fabricOrderFixture, cmd *CreateTailoringOrderCommand) {
			cmd.Customization.ImageBase64 = "%%%not-base64%%%"
		},
		"not an image": func(_ *fabricOrderFixture, cmd *CreateTailoringOrderCommand) {
			cmd.Customization.ImageBase64 = base64.StdEncoding.EncodeToString([]byte("hello, plain text"))
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFabricOrderFixture(t)
			cmd := tailoringCommand()
			setup(f, &cmd)

			receipt, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
			require.NoError(t, err)
			require.Equal(t, "upload failed", receipt.Order.Customization.ImageNote)
			require.Empty(t, receipt.Order.Customization.ReferenceImageURL)
			require.Equal(t, 1, f.metrics.uploadFailures)
			require.Len(t, f.orders.inserted, 1)
		})
	}
}

func TestCreateTailoringOrderValidationHappensBeforeWrites(t *testing.T) {
	cases := map[string]func(*CreateTailoringOrderCommand){
		"missing phone":   func(cmd *CreateTailoringOrderCommand) { cmd.Customer.Phone = " " },
		"missing pincode": func(cmd *CreateTailoringOrderCommand) { cmd.Address.Pincode = "" },
		"bad payment":     func(cmd *CreateTailoringOrderCommand) { cmd.PaymentMethod = "barter" },
		"zero quantity":   func(cmd *CreateTailoringOrderCommand) { cmd.Quantity = decimal.Zero },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFabricOrderFixture(t)
			cmd := tailoringCommand()
			mutate(&cmd)

			_, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
			require.ErrorIs(t, err, ErrOrderInvalidInput)
			require.Empty(t, f.orders.inserted)
			require.Empty(t, f.uploader.objects)
		})
	}
}

func TestCreateTailoringOrderSanitizesNotes(t *testing.T) {
	f := newFabricOrderFixture(t)
	cmd := tailoringCommand()
	cmd.Customization.Notes = `<script>alert(1)</script>Longer <b>sleeves</b> please`

	receipt, err := f.svc.CreateTailoringOrder(context.Background(), cmd)
	require.NoError(t, err)
	require.Equal(t, "Longer sleeves please", receipt.Order.Customization.Notes)
}

func TestCreateTailoringOrderPublishFailureIsNonFatal(t *testing.T) {
	f := newFabricOrderFixture(t)
	f.publisher.err = errors.New("pubsub down")

	_, err := f.svc.CreateTailoringOrder(context.Background(), tailoringCommand())
	require.NoError(t, err)
	require.Equal(t, 1, f.metrics.publishFailed)
}

func TestCreateFabricOnlyOrderHasNoTailoringCost(t *testing.T) {
	f := newFabricOrderFixture(t)

	receipt, err := f.svc.CreateFabricOnlyOrder(context.Background(), CreateFabricOnlyOrderCommand{
		FabricID:   "cotton",
		ColorIndex: 1,
		Quantity:   decimal.RequireFromString("2.5"),
		Customer:   validCustomer(),
		Address:    validAddress(),
	})
	require.NoError(t, err)

	order := receipt.Order
	require.Equal(t, domain.FabricOrderKindFabricOnly, order.Kind)
	require.True(t, order.Pricing.TailoringCost.IsZero())
	require.True(t, order.Pricing.FabricCost.Equal(decimal.RequireFromString("1125")))
	require.True(t, order.Pricing.TotalCost.Equal(order.Pricing.FabricCost))
	require.Equal(t, "Ivory", order.Fabric.ColorName)
	require.Equal(t, domain.PaymentMethodCashOnDelivery, order.PaymentMethod)
	require.Equal(t, "N/A", order.Customization.CollarStyle)
}

func TestFabricOrderStatusAcceptsEveryTransition(t *testing.T) {
	f := newFabricOrderFixture(t)
	receipt, err := f.svc.CreateTailoringOrder(context.Background(), tailoringCommand())
	require.NoError(t, err)

	for _, from := range domain.OrderStatuses {
		for _, to := range domain.OrderStatuses {
			_, err := f.svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{OrderID: receipt.ID, Status: from})
			require.NoError(t, err)

			updated, err := f.svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{OrderID: receipt.ID, Status: to})
			require.NoError(t, err, "%s -> %s", from, to)
			require.Equal(t, to, updated.Status)
			require.False(t, updated.UpdatedAt.IsZero())
		}
	}
}

func TestFabricOrderStatusRejectsUnknownValuesAndMissingOrders(t *testing.T) {
	f := newFabricOrderFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{OrderID: "ord_1", Status: "lost"})
	require.ErrorIs(t, err, ErrOrderInvalidInput)

	_, err = f.svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{OrderID: "missing", Status: domain.OrderStatusShipped})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListFabricOrdersValidatesStatusFilter(t *testing.T) {
	f := newFabricOrderFixture(t)

	_, err := f.svc.ListOrders(context.Background(), OrderListFilter{Status: "unknown"})
	require.ErrorIs(t, err, ErrOrderInvalidInput)

	_, err = f.svc.ListOrders(context.Background(), OrderListFilter{CustomerID: " uid-1 ", Status: "Shipped"})
	require.NoError(t, err)
	require.Equal(t, "uid-1", f.orders.lastList.CustomerID)
	require.Equal(t, domain.OrderStatusShipped, f.orders.lastList.Status)
}
