package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/textutil"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const maxSavedAddresses = 5

// CustomerServiceDeps bundles collaborators required to construct the customer service.
type CustomerServiceDeps struct {
	Customers repositories.CustomerRepository
	Clock     func() time.Time
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

type customerService struct {
	customers repositories.CustomerRepository
	clock     func() time.Time
	logger    func(context.Context, string, map[string]any)
}

var _ CustomerService = (*customerService)(nil)

// NewCustomerService constructs the customer profile service.
func NewCustomerService(deps CustomerServiceDeps) (CustomerService, error) {
	if deps.Customers == nil {
		return nil, errors.New("customer service: customer repository is required")
	}
	return &customerService{
		customers: deps.Customers,
		clock:     defaultClock(deps.Clock),
		logger:    defaultLogger(deps.Logger),
	}, nil
}

// GetOrCreate returns customers/{uid}, seeding it from the token claims on first access.
func (s *customerService) GetOrCreate(ctx context.Context, identity CustomerIdentity) (domain.Customer, error) {
	uid := strings.TrimSpace(identity.UID)
	if uid == "" {
		return domain.Customer{}, fmt.Errorf("%w: uid is required", ErrCustomerInvalidInput)
	}

	customer, err := s.customers.FindByID(ctx, uid)
	if err == nil {
		return customer, nil
	}
	if !isRepoNotFound(err) {
		return domain.Customer{}, customerErrorKinds.wrap(err)
	}

	now := s.clock()
	customer = domain.Customer{
		UID:       uid,
		Name:      textutil.PlainText(identity.Name, maxNameLength),
		Phone:     strings.TrimSpace(identity.Phone),
		Email:     strings.ToLower(strings.TrimSpace(identity.Email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return domain.Customer{}, customerErrorKinds.wrap(err)
	}
	s.logger(ctx, "customer.created", map[string]any{"uid": uid})
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, cmd UpdateCustomerCommand) (domain.Customer, error) {
	customer, err := s.GetOrCreate(ctx, cmd.Identity)
	if err != nil {
		return domain.Customer{}, err
	}

	if cmd.Name != nil {
		customer.Name = textutil.PlainText(*cmd.Name, maxNameLength)
		if customer.Name == "" {
			return domain.Customer{}, fmt.Errorf("%w: name must not be blank", ErrCustomerInvalidInput)
		}
	}
	if cmd.Phone != nil {
		customer.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*cmd.Email))
	}
	if cmd.PreferredLanguage != nil {
		tag, err := normalizeLanguage(*cmd.PreferredLanguage)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.PreferredLanguage = tag
	}
	if cmd.Addresses != nil {
		addresses, err := normalizeSavedAddresses(*cmd.Addresses)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.Addresses = addresses
	}

	customer.UpdatedAt = s.clock()
	if err := s.customers.Save(ctx, customer); err != nil {
		return domain.Customer{}, customerErrorKinds.wrap(err)
	}
	s.logger(ctx, "customer.updated", map[string]any{"uid": customer.UID})
	return customer, nil
}

// normalizeLanguage canonicalises a BCP 47 tag. Blank clears the preference.
func normalizeLanguage(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: preferred_language %q is not a valid language tag", ErrCustomerInvalidInput, raw)
	}
	return tag.String(), nil
}

func normalizeSavedAddresses(addresses []domain.Address) ([]domain.Address, error) {
	if len(addresses) > maxSavedAddresses {
		return nil, fmt.Errorf("%w: at most %d addresses", ErrCustomerInvalidInput, maxSavedAddresses)
	}
	out := make([]domain.Address, 0, len(addresses))
	for i, addr := range addresses {
		cleaned, missing := cleanAddress(addr)
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: addresses[%d]: %s required", ErrCustomerInvalidInput, i, strings.Join(missing, ", "))
		}
		out = append(out, cleaned)
	}
	return out, nil
}
