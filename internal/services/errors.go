package services

import (
	"errors"
	"fmt"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/pagination"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

var (
	// ErrOrderInvalidInput signals the caller provided invalid data. Nothing was written.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderLookup signals an unknown service or fabric key.
	ErrOrderLookup = errors.New("order: catalog lookup failed")
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderConflict indicates a duplicate document id.
	ErrOrderConflict = errors.New("order: conflict")
	// ErrOrderUnavailable indicates the backing store failed. It is not retried.
	ErrOrderUnavailable = errors.New("order: backend unavailable")

	ErrCatalogInvalidInput = errors.New("catalog: invalid input")
	ErrCatalogNotFound     = errors.New("catalog: not found")
	ErrCatalogConflict     = errors.New("catalog: conflict")
	ErrCatalogUnavailable  = errors.New("catalog: backend unavailable")

	ErrCustomerInvalidInput = errors.New("customer: invalid input")
	ErrCustomerNotFound     = errors.New("customer: not found")
	ErrCustomerUnavailable  = errors.New("customer: backend unavailable")

	// ErrStatsUnavailable indicates the order collections could not be read.
	ErrStatsUnavailable = errors.New("stats: backend unavailable")
)

// repositoryErrorKinds maps repository classifications onto one service's sentinels.
type repositoryErrorKinds struct {
	notFound    error
	conflict    error
	unavailable error
}

var (
	orderErrorKinds    = repositoryErrorKinds{notFound: ErrOrderNotFound, conflict: ErrOrderConflict, unavailable: ErrOrderUnavailable}
	catalogErrorKinds  = repositoryErrorKinds{notFound: ErrCatalogNotFound, conflict: ErrCatalogConflict, unavailable: ErrCatalogUnavailable}
	customerErrorKinds = repositoryErrorKinds{notFound: ErrCustomerNotFound, conflict: ErrCustomerInvalidInput, unavailable: ErrCustomerUnavailable}
)

func (k repositoryErrorKinds) wrap(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", k.notFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", k.conflict, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("%w: %v", k.unavailable, err)
		}
	}
	return fmt.Errorf("%w: %v", k.unavailable, err)
}

func isRepoNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// wrapListError reports a bad page token as invalid input rather than a backend failure.
func wrapListError(err error) error {
	if errors.Is(err, pagination.ErrInvalidPageToken) {
		return fmt.Errorf("%w: %v", ErrOrderInvalidInput, err)
	}
	return orderErrorKinds.wrap(err)
}
