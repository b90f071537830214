package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StitchingOnlyServiceID is the service used when the customer brings their own fabric.
const StitchingOnlyServiceID = "stitching-only"

var (
	// FreeDeliveryThreshold is the product subtotal above which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	// StandardDeliveryCharge applies to product orders at or below the threshold.
	StandardDeliveryCharge = decimal.NewFromInt(50)
)

// TailoringService is a fixed-price tailoring offering.
type TailoringService struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Garments []GarmentType
}

var tailoringServices = map[string]TailoringService{
	"kurta-tailoring": {
		ID: "kurta-tailoring", Name: "Kurta Tailoring", Price: decimal.NewFromInt(650),
		Garments: []GarmentType{GarmentKurta},
	},
	"pajama-tailoring": {
		ID: "pajama-tailoring", Name: "Pajama Tailoring", Price: decimal.NewFromInt(350),
		Garments: []GarmentType{GarmentPajama},
	},
	"kurta-pajama-set": {
		ID: "kurta-pajama-set", Name: "Kurta Pajama Set", Price: decimal.NewFromInt(950),
		Garments: []GarmentType{GarmentKurta, GarmentPajama},
	},
	"shirt-tailoring": {
		ID: "shirt-tailoring", Name: "Shirt Tailoring", Price: decimal.NewFromInt(500),
		Garments: []GarmentType{GarmentShirt},
	},
	"pant-tailoring": {
		ID: "pant-tailoring", Name: "Pant Tailoring", Price: decimal.NewFromInt(550),
		Garments: []GarmentType{GarmentPant},
	},
	"blouse-stitching": {
		ID: "blouse-stitching", Name: "Blouse Stitching", Price: decimal.NewFromInt(450),
		Garments: []GarmentType{GarmentBlouse},
	},
	"salwar-suit": {
		ID: "salwar-suit", Name: "Salwar Suit Stitching", Price: decimal.NewFromInt(800),
		Garments: []GarmentType{GarmentKurta, GarmentSalwar},
	},
	StitchingOnlyServiceID: {
		ID: StitchingOnlyServiceID, Name: "Stitching Only", Price: decimal.NewFromInt(400),
	},
}

// LookupTailoringService returns the fixed-price service for key.
func LookupTailoringService(key string) (TailoringService, bool) {
	svc, ok := tailoringServices[key]
	return svc, ok
}

// TailoringServices returns every offering sorted by id.
func TailoringServices() []TailoringService {
	out := make([]TailoringService, 0, len(tailoringServices))
	for _, svc := range tailoringServices {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FabricCost is pricePerMeter × quantity.
func FabricCost(pricePerMeter, quantity decimal.Decimal) decimal.Decimal {
	return pricePerMeter.Mul(quantity)
}

// PriceFabricOrder computes the fabric order breakdown.
func PriceFabricOrder(fabricCost, tailoringCost decimal.Decimal) FabricOrderPricing {
	return FabricOrderPricing{
		FabricCost:    fabricCost,
		TailoringCost: tailoringCost,
		TotalCost:     fabricCost.Add(tailoringCost),
	}
}

// DeliveryCharge is zero when subtotal exceeds FreeDeliveryThreshold.
func DeliveryCharge(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return StandardDeliveryCharge
}

// PriceProductItems fills each item's subtotal from the caller-supplied price and returns
// the order breakdown.
func PriceProductItems(items []ProductLineItem) ProductOrderPricing {
	subtotal := decimal.Zero
	for i := range items {
		items[i].Subtotal = items[i].PriceAtPurchase.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		subtotal = subtotal.Add(items[i].Subtotal)
	}
	delivery := DeliveryCharge(subtotal)
	return ProductOrderPricing{
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Total:          subtotal.Add(delivery),
	}
}
