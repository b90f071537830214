package services

import (
	"fmt"
	"strings"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/textutil"
)

const (
	maxNameLength     = 120
	maxAddressLength  = 200
	maxStyleLength    = 80
	maxNotesLength    = 1000
	imageUploadFailed = "upload failed"
)

// normalizeCustomer trims the customer block and requires a name and phone.
func normalizeCustomer(info domain.CustomerInfo) (domain.CustomerInfo, error) {
	out := domain.CustomerInfo{
		Name:      textutil.PlainText(info.Name, maxNameLength),
		Phone:     strings.TrimSpace(info.Phone),
		Email:     strings.ToLower(strings.TrimSpace(info.Email)),
		AccountID: strings.TrimSpace(info.AccountID),
	}
	var missing []string
	if out.Name == "" {
		missing = append(missing, "customer.name")
	}
	if out.Phone == "" {
		missing = append(missing, "customer.phone")
	}
	if len(missing) > 0 {
		return domain.CustomerInfo{}, fmt.Errorf("%w: %s required", ErrOrderInvalidInput, strings.Join(missing, ", "))
	}
	return out, nil
}

// normalizeAddress strips markup from free-text lines and requires the deliverable fields.
func normalizeAddress(addr domain.Address) (domain.Address, error) {
	out, missing := cleanAddress(addr)
	if len(missing) > 0 {
		return domain.Address{}, fmt.Errorf("%w: %s required", ErrOrderInvalidInput, strings.Join(missing, ", "))
	}
	return out, nil
}

func cleanAddress(addr domain.Address) (domain.Address, []string) {
	out := domain.Address{
		Line1:    textutil.PlainText(addr.Line1, maxAddressLength),
		Line2:    textutil.PlainText(addr.Line2, maxAddressLength),
		Landmark: textutil.PlainText(addr.Landmark, maxAddressLength),
		City:     textutil.PlainText(addr.City, maxNameLength),
		State:    textutil.PlainText(addr.State, maxNameLength),
		Pincode:  strings.TrimSpace(addr.Pincode),
	}
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"address.line1", out.Line1},
		{"address.city", out.City},
		{"address.state", out.State},
		{"address.pincode", out.Pincode},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return out, missing
}

func normalizePaymentMethod(method domain.PaymentMethod) (domain.PaymentMethod, error) {
	method = domain.PaymentMethod(strings.ToLower(strings.TrimSpace(string(method))))
	if method == "" {
		return domain.PaymentMethodCashOnDelivery, nil
	}
	if !method.Valid() {
		return "", fmt.Errorf("%w: unsupported payment method %q", ErrOrderInvalidInput, method)
	}
	return method, nil
}

func normalizeOrderStatus(status domain.OrderStatus) (domain.OrderStatus, error) {
	status = domain.OrderStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrOrderInvalidInput, status)
	}
	return status, nil
}
