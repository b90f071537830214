package handlers

import (
	"fmt"
	"strings"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
)

type customerInfoPayload struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	AccountID string `json:"account_id,omitempty"`
}

type addressPayload struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func buildAddressPayload(addr domain.Address) addressPayload {
	return addressPayload{
		Line1:    addr.Line1,
		Line2:    addr.Line2,
		Landmark: addr.Landmark,
		City:     addr.City,
		State:    addr.State,
		Pincode:  addr.Pincode,
	}
}

func (p addressPayload) toDomain() domain.Address {
	return domain.Address{
		Line1:    p.Line1,
		Line2:    p.Line2,
		Landmark: p.Landmark,
		City:     p.City,
		State:    p.State,
		Pincode:  p.Pincode,
	}
}

type servicePayload struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Garments []string `json:"garments,omitempty"`
}

func buildServicePayload(svc domain.TailoringService) servicePayload {
	garments := make([]string, 0, len(svc.Garments))
	for _, garment := range svc.Garments {
		garments = append(garments, string(garment))
	}
	return servicePayload{ID: svc.ID, Name: svc.Name, Price: money(svc.Price), Garments: garments}
}

type fabricSelectionPayload struct {
	FabricID      string  `json:"fabric_id,omitempty"`
	Name          string  `json:"name"`
	ColorName     string  `json:"color_name"`
	ColorHex      string  `json:"color_hex"`
	PricePerMeter float64 `json:"price_per_meter"`
	Quantity      float64 `json:"quantity"`
	Subtotal      float64 `json:"subtotal"`
	OwnFabric     bool    `json:"own_fabric,omitempty"`
}

type customizationPayload struct {
	CollarStyle       string `json:"collar_style,omitempty"`
	SleeveStyle       string `json:"sleeve_style,omitempty"`
	ButtonStyle       string `json:"button_style,omitempty"`
	PocketStyle       string `json:"pocket_style,omitempty"`
	Fit               string `json:"fit,omitempty"`
	Notes             string `json:"notes,omitempty"`
	ReferenceImageURL string `json:"reference_image_url,omitempty"`
	ImageNote         string `json:"image_note,omitempty"`
}

type measurementPayload struct {
	Garment string             `json:"garment"`
	Values  map[string]float64 `json:"values"`
}

type fabricOrderPricingPayload struct {
	FabricCost    float64 `json:"fabric_cost"`
	TailoringCost float64 `json:"tailoring_cost"`
	TotalCost     float64 `json:"total_cost"`
}

type fabricOrderPayload struct {
	ID            string                    `json:"id"`
	OrderNumber   string                    `json:"order_number"`
	Kind          string                    `json:"kind"`
	Customer      customerInfoPayload       `json:"customer"`
	Address       addressPayload            `json:"address"`
	Service       servicePayload            `json:"service"`
	Fabric        fabricSelectionPayload    `json:"fabric"`
	Customization customizationPayload      `json:"customization"`
	Measurements  []measurementPayload      `json:"measurements"`
	Pricing       fabricOrderPricingPayload `json:"pricing"`
	PaymentMethod string                    `json:"payment_method"`
	Status        string                    `json:"status"`
	CreatedAt     string                    `json:"created_at"`
	UpdatedAt     string                    `json:"updated_at,omitempty"`
}

func buildFabricOrderPayload(order domain.FabricOrder) fabricOrderPayload {
	measurements := make([]measurementPayload, 0, len(order.Measurements))
	for _, set := range order.Measurements {
		if set == nil {
			continue
		}
		measurements = append(measurements, measurementPayload{Garment: string(set.Garment()), Values: set.Values()})
	}
	return fabricOrderPayload{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Kind:        string(order.Kind),
		Customer:    buildCustomerInfoPayload(order.Customer),
		Address:     buildAddressPayload(order.Address),
		Service: servicePayload{
			ID:    order.Service.ID,
			Name:  order.Service.Name,
			Price: money(order.Service.Price),
		},
		Fabric: fabricSelectionPayload{
			FabricID:      order.Fabric.FabricID,
			Name:          order.Fabric.Name,
			ColorName:     order.Fabric.ColorName,
			ColorHex:      order.Fabric.ColorHex,
			PricePerMeter: money(order.Fabric.PricePerMeter),
			Quantity:      order.Fabric.Quantity.InexactFloat64(),
			Subtotal:      money(order.Fabric.Subtotal),
			OwnFabric:     order.Fabric.OwnFabric,
		},
		Customization: customizationPayload{
			CollarStyle:       order.Customization.CollarStyle,
			SleeveStyle:       order.Customization.SleeveStyle,
			ButtonStyle:       order.Customization.ButtonStyle,
			PocketStyle:       order.Customization.PocketStyle,
			Fit:               order.Customization.Fit,
			Notes:             order.Customization.Notes,
			ReferenceImageURL: order.Customization.ReferenceImageURL,
			ImageNote:         order.Customization.ImageNote,
		},
		Measurements: measurements,
		Pricing: fabricOrderPricingPayload{
			FabricCost:    money(order.Pricing.FabricCost),
			TailoringCost: money(order.Pricing.TailoringCost),
			TotalCost:     money(order.Pricing.TotalCost),
		},
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		CreatedAt:     formatTime(order.CreatedAt),
		UpdatedAt:     formatTime(order.UpdatedAt),
	}
}

func buildCustomerInfoPayload(info domain.CustomerInfo) customerInfoPayload {
	return customerInfoPayload{Name: info.Name, Phone: info.Phone, Email: info.Email, AccountID: info.AccountID}
}

type productLinePayload struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
	Size            string  `json:"size,omitempty"`
	Color           string  `json:"color,omitempty"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	Quantity        int     `json:"quantity"`
	Subtotal        float64 `json:"subtotal"`
}

type productOrderPricingPayload struct {
	Subtotal       float64 `json:"subtotal"`
	DeliveryCharge float64 `json:"delivery_charge"`
	Total          float64 `json:"total"`
}

type productOrderPayload struct {
	ID            string                     `json:"id"`
	OrderNumber   string                     `json:"order_number"`
	Customer      customerInfoPayload        `json:"customer"`
	Address       addressPayload             `json:"address"`
	Items         []productLinePayload       `json:"items"`
	Pricing       productOrderPricingPayload `json:"pricing"`
	PaymentMethod string                     `json:"payment_method"`
	PaymentStatus string                     `json:"payment_status"`
	Status        string                     `json:"status"`
	CreatedAt     string                     `json:"created_at"`
	UpdatedAt     string                     `json:"updated_at,omitempty"`
}

func buildProductOrderPayload(order domain.ProductOrder) productOrderPayload {
	items := make([]productLinePayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, productLinePayload{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Category:        item.Category,
			ImageURL:        item.ImageURL,
			Size:            item.Size,
			Color:           item.Color,
			PriceAtPurchase: money(item.PriceAtPurchase),
			Quantity:        item.Quantity,
			Subtotal:        money(item.Subtotal),
		})
	}
	return productOrderPayload{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Customer:    buildCustomerInfoPayload(order.Customer),
		Address:     buildAddressPayload(order.Address),
		Items:       items,
		Pricing: productOrderPricingPayload{
			Subtotal:       money(order.Pricing.Subtotal),
			DeliveryCharge: money(order.Pricing.DeliveryCharge),
			Total:          money(order.Pricing.Total),
		},
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Status:        string(order.Status),
		CreatedAt:     formatTime(order.CreatedAt),
		UpdatedAt:     formatTime(order.UpdatedAt),
	}
}

type orderReceiptResponse[T any] struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	Order       T      `json:"order"`
}

type orderListResponse[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

func buildOrderList[O, P any](page domain.CursorPage[O], build func(O) P) orderListResponse[P] {
	items := make([]P, 0, len(page.Items))
	for _, order := range page.Items {
		items = append(items, build(order))
	}
	return orderListResponse[P]{Items: items, NextPageToken: strings.TrimSpace(page.NextPageToken)}
}

type colorVariantPayload struct {
	Name     string `json:"name"`
	Hex      string `json:"hex,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Stock    int    `json:"stock"`
}

type sizeVariantPayload struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

func buildColorPayloads(colors []domain.ColorVariant) []colorVariantPayload {
	out := make([]colorVariantPayload, 0, len(colors))
	for _, color := range colors {
		out = append(out, colorVariantPayload(color))
	}
	return out
}

func colorsFromPayload(colors []colorVariantPayload) []domain.ColorVariant {
	out := make([]domain.ColorVariant, 0, len(colors))
	for _, color := range colors {
		out = append(out, domain.ColorVariant(color))
	}
	return out
}

type fabricPayload struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Material      string                `json:"material,omitempty"`
	Category      string                `json:"category,omitempty"`
	PricePerMeter float64               `json:"price_per_meter"`
	Available     bool                  `json:"available"`
	Colors        []colorVariantPayload `json:"colors"`
	Images        []string              `json:"images,omitempty"`
	CreatedAt     string                `json:"created_at,omitempty"`
	UpdatedAt     string                `json:"updated_at,omitempty"`
}

func buildFabricPayload(fabric domain.Fabric) fabricPayload {
	return fabricPayload{
		ID:            fabric.ID,
		Name:          fabric.Name,
		Description:   fabric.Description,
		Material:      fabric.Material,
		Category:      fabric.Category,
		PricePerMeter: money(fabric.PricePerMeter),
		Available:     fabric.Available,
		Colors:        buildColorPayloads(fabric.Colors),
		Images:        fabric.Images,
		CreatedAt:     formatTime(fabric.CreatedAt),
		UpdatedAt:     formatTime(fabric.UpdatedAt),
	}
}

type productPayload struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Category    string                `json:"category,omitempty"`
	Price       float64               `json:"price"`
	Available   bool                  `json:"available"`
	Colors      []colorVariantPayload `json:"colors"`
	Sizes       []sizeVariantPayload  `json:"sizes"`
	Images      []string              `json:"images,omitempty"`
	CreatedAt   string                `json:"created_at,omitempty"`
	UpdatedAt   string                `json:"updated_at,omitempty"`
}

func buildProductPayload(product domain.Product) productPayload {
	sizes := make([]sizeVariantPayload, 0, len(product.Sizes))
	for _, size := range product.Sizes {
		sizes = append(sizes, sizeVariantPayload(size))
	}
	return productPayload{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       money(product.Price),
		Available:   product.Available,
		Colors:      buildColorPayloads(product.Colors),
		Sizes:       sizes,
		Images:      product.Images,
		CreatedAt:   formatTime(product.CreatedAt),
		UpdatedAt:   formatTime(product.UpdatedAt),
	}
}

type customerPayload struct {
	UID               string           `json:"uid"`
	Name              string           `json:"name"`
	Phone             string           `json:"phone,omitempty"`
	Email             string           `json:"email,omitempty"`
	PreferredLanguage string           `json:"preferred_language,omitempty"`
	Addresses         []addressPayload `json:"addresses"`
	CreatedAt         string           `json:"created_at,omitempty"`
	UpdatedAt         string           `json:"updated_at,omitempty"`
}

func buildCustomerPayload(customer domain.Customer) customerPayload {
	addresses := make([]addressPayload, 0, len(customer.Addresses))
	for _, addr := range customer.Addresses {
		addresses = append(addresses, buildAddressPayload(addr))
	}
	return customerPayload{
		UID:               customer.UID,
		Name:              customer.Name,
		Phone:             customer.Phone,
		Email:             customer.Email,
		PreferredLanguage: customer.PreferredLanguage,
		Addresses:         addresses,
		CreatedAt:         formatTime(customer.CreatedAt),
		UpdatedAt:         formatTime(customer.UpdatedAt),
	}
}

type statusStatsPayload struct {
	TotalOrders int            `json:"total_orders"`
	ByStatus    map[string]int `json:"by_status"`
	Revenue     float64        `json:"revenue"`
}

type dashboardStatsPayload struct {
	FabricOrders  statusStatsPayload `json:"fabric_orders"`
	ProductOrders statusStatsPayload `json:"product_orders"`
	TotalOrders   int                `json:"total_orders"`
	TotalRevenue  float64            `json:"total_revenue"`
	GeneratedAt   string             `json:"generated_at"`
}

func buildStatusStatsPayload(stats domain.StatusStats) statusStatsPayload {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return statusStatsPayload{TotalOrders: stats.TotalOrders, ByStatus: byStatus, Revenue: money(stats.Revenue)}
}

func buildDashboardStatsPayload(stats domain.DashboardStats) dashboardStatsPayload {
	return dashboardStatsPayload{
		FabricOrders:  buildStatusStatsPayload(stats.FabricOrders),
		ProductOrders: buildStatusStatsPayload(stats.ProductOrders),
		TotalOrders:   stats.TotalOrders,
		TotalRevenue:  money(stats.TotalRevenue),
		GeneratedAt:   formatTime(stats.GeneratedAt),
	}
}

// parseMeasurements turns the submitted garment sets into their typed variants.
func parseMeasurements(sets []measurementPayload) ([]domain.Measurements, error) {
	out := make([]domain.Measurements, 0, len(sets))
	for i, set := range sets {
		m, err := domain.NewMeasurements(domain.GarmentType(set.Garment), set.Values)
		if err != nil {
			return nil, fmt.Errorf("measurements[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
