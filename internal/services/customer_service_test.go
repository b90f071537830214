package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
)

func newCustomerService(t *testing.T, repo *stubCustomerRepository) CustomerService {
	t.Helper()
	svc, err := NewCustomerService(CustomerServiceDeps{Customers: repo, Clock: fixedClock()})
	if err != nil {
		t.Fatalf("NewCustomerService: %v", err)
	}
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestCustomerGetOrCreateSeedsFromIdentity(t *testing.T) {
	repo := &stubCustomerRepository{}
	svc := newCustomerService(t, repo)
	identity := CustomerIdentity{UID: "uid-7", Name: " Asha Verma ", Email: "Asha@Example.COM", Phone: "+919800000001"}

	customer, err := svc.GetOrCreate(context.Background(), identity)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if customer.Name != "Asha Verma" || customer.Email != "asha@example.com" {
		t.Fatalf("unexpected seeded profile %+v", customer)
	}

	if _, err := svc.GetOrCreate(context.Background(), identity); err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected a single save, got %d", repo.saves)
	}
}

func TestCustomerGetOrCreateErrors(t *testing.T) {
	if _, err := newCustomerService(t, &stubCustomerRepository{}).GetOrCreate(context.Background(), CustomerIdentity{}); !errors.Is(err, ErrCustomerInvalidInput) {
		t.Fatalf("expected invalid input for missing uid, got %v", err)
	}
	svc := newCustomerService(t, &stubCustomerRepository{findErr: errRepoUnavailable})
	if _, err := svc.GetOrCreate(context.Background(), CustomerIdentity{UID: "u"}); !errors.Is(err, ErrCustomerUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCustomerUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := &stubCustomerRepository{byUID: map[string]domain.Customer{
		"uid-7": {UID: "uid-7", Name: "Asha", Phone: "+919800000001"},
	}}
	svc := newCustomerService(t, repo)

	addresses := []domain.Address{{Line1: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001"}}
	updated, err := svc.Update(context.Background(), UpdateCustomerCommand{
		Identity:          CustomerIdentity{UID: "uid-7"},
		PreferredLanguage: ptr("hi-in"),
		Addresses:         &addresses,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Asha" || updated.Phone != "+919800000001" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.PreferredLanguage != "hi-IN" {
		t.Fatalf("expected canonical tag hi-IN, got %q", updated.PreferredLanguage)
	}
	if len(updated.Addresses) != 1 || repo.byUID["uid-7"].UpdatedAt.IsZero() {
		t.Fatalf("update not persisted: %+v", repo.byUID["uid-7"])
	}
}

func TestCustomerUpdateValidation(t *testing.T) {
	tooMany := make([]domain.Address, maxSavedAddresses+1)
	for i := range tooMany {
		tooMany[i] = domain.Address{Line1: "x", City: "Pune", State: "MH", Pincode: "411001"}
	}
	incomplete := []domain.Address{{Line1: "12 MG Road"}}

	cases := map[string]UpdateCustomerCommand{
		"blank name":       {Name: ptr("  ")},
		"bad language":     {PreferredLanguage: ptr("not a language!")},
		"too many":         {Addresses: &tooMany},
		"incomplete entry": {Addresses: &incomplete},
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubCustomerRepository{}
			cmd.Identity = CustomerIdentity{UID: "uid-9", Name: "Ravi"}
			if _, err := newCustomerService(t, repo).Update(context.Background(), cmd); !errors.Is(err, ErrCustomerInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestNormalizeLanguageBlankClears(t *testing.T) {
	tag, err := normalizeLanguage("  ")
	if err != nil || tag != "" {
		t.Fatalf("expected blank to clear, got %q, %v", tag, err)
	}
}
