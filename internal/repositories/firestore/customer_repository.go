package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const customerCollection = "customers"

// CustomerRepository stores customer profiles keyed by Firebase UID.
type CustomerRepository struct {
	coll *pfirestore.Collection[customerDocument]
}

var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository constructs a Firestore-backed customer repository.
func NewCustomerRepository(provider *pfirestore.Provider) (*CustomerRepository, error) {
	if provider == nil {
		return nil, errors.New("customer repository requires firestore provider")
	}
	return &CustomerRepository{coll: pfirestore.NewCollection[customerDocument](provider, customerCollection)}, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, uid string) (domain.Customer, error) {
	if r == nil || r.coll == nil {
		return domain.Customer{}, errors.New("customer repository not initialised")
	}
	doc, err := r.coll.Get(ctx, uid)
	if err != nil {
		return domain.Customer{}, err
	}
	data := doc.Data
	customer := domain.Customer{
		UID:               doc.ID,
		Name:              data.Name,
		Phone:             data.Phone,
		Email:             data.Email,
		PreferredLanguage: data.PreferredLanguage,
		CreatedAt:         chooseTime(data.CreatedAt, doc.CreateTime),
		UpdatedAt:         chooseTime(data.UpdatedAt, doc.UpdateTime),
	}
	for _, addr := range data.Addresses {
		customer.Addresses = append(customer.Addresses, decodeAddress(addr))
	}
	return customer, nil
}

// Save upserts the whole profile.
func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) error {
	if r == nil || r.coll == nil {
		return errors.New("customer repository not initialised")
	}
	if strings.TrimSpace(customer.UID) == "" {
		return errors.New("customer uid is required")
	}
	doc := customerDocument{
		Name:              customer.Name,
		Phone:             customer.Phone,
		Email:             customer.Email,
		PreferredLanguage: customer.PreferredLanguage,
		CreatedAt:         customer.CreatedAt.UTC(),
		UpdatedAt:         customer.UpdatedAt.UTC(),
	}
	for _, addr := range customer.Addresses {
		doc.Addresses = append(doc.Addresses, encodeAddress(addr))
	}
	return r.coll.Set(ctx, customer.UID, doc)
}

type customerDocument struct {
	Name              string            `firestore:"name"`
	Phone             string            `firestore:"phone,omitempty"`
	Email             string            `firestore:"email,omitempty"`
	PreferredLanguage string            `firestore:"preferredLanguage,omitempty"`
	Addresses         []addressDocument `firestore:"addresses,omitempty"`
	CreatedAt         time.Time         `firestore:"createdAt"`
	UpdatedAt         time.Time         `firestore:"updatedAt"`
}
