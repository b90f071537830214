package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const fabricCollection = "fabrics"

// FabricRepository persists the fabric catalog.
type FabricRepository struct {
	coll *pfirestore.Collection[fabricDocument]
}

var _ repositories.FabricRepository = (*FabricRepository)(nil)

// NewFabricRepository constructs a Firestore-backed fabric catalog repository.
func NewFabricRepository(provider *pfirestore.Provider) (*FabricRepository, error) {
	if provider == nil {
		return nil, errors.New("fabric repository requires firestore provider")
	}
	return &FabricRepository{coll: pfirestore.NewCollection[fabricDocument](provider, fabricCollection)}, nil
}

func (r *FabricRepository) Insert(ctx context.Context, fabric domain.Fabric) error {
	if r == nil || r.coll == nil {
		return errors.New("fabric repository not initialised")
	}
	return r.coll.Create(ctx, fabric.ID, encodeFabric(fabric))
}

// Update replaces the stored fabric. A missing fabric yields a not-found error rather than an upsert.
func (r *FabricRepository) Update(ctx context.Context, fabric domain.Fabric) error {
	if r == nil || r.coll == nil {
		return errors.New("fabric repository not initialised")
	}
	if _, err := r.coll.Get(ctx, fabric.ID); err != nil {
		return err
	}
	return r.coll.Set(ctx, fabric.ID, encodeFabric(fabric))
}

// Delete removes only the fabric document; orders referencing it keep their snapshot.
func (r *FabricRepository) Delete(ctx context.Context, fabricID string) error {
	if r == nil || r.coll == nil {
		return errors.New("fabric repository not initialised")
	}
	return r.coll.Delete(ctx, fabricID)
}

func (r *FabricRepository) FindByID(ctx context.Context, fabricID string) (domain.Fabric, error) {
	if r == nil || r.coll == nil {
		return domain.Fabric{}, errors.New("fabric repository not initialised")
	}
	doc, err := r.coll.Get(ctx, fabricID)
	if err != nil {
		return domain.Fabric{}, err
	}
	return decodeFabric(doc), nil
}

// List returns fabrics sorted by name.
func (r *FabricRepository) List(ctx context.Context, filter repositories.CatalogListFilter) ([]domain.Fabric, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("fabric repository not initialised")
	}
	docs, err := r.coll.Query(ctx, catalogFilter(filter))
	if err != nil {
		return nil, err
	}
	fabrics := make([]domain.Fabric, 0, len(docs))
	for _, doc := range docs {
		fabrics = append(fabrics, decodeFabric(doc))
	}
	sort.SliceStable(fabrics, func(i, j int) bool {
		return strings.ToLower(fabrics[i].Name) < strings.ToLower(fabrics[j].Name)
	})
	return fabrics, nil
}

// catalogFilter applies equality filters only. Sorting happens in memory so no composite
// index is needed.
func catalogFilter(filter repositories.CatalogListFilter) pfirestore.QueryBuilder {
	category := strings.TrimSpace(filter.Category)
	if category == "" && !filter.AvailableOnly {
		return nil
	}
	return func(q firestore.Query) firestore.Query {
		if category != "" {
			q = q.Where("category", "==", category)
		}
		if filter.AvailableOnly {
			q = q.Where("available", "==", true)
		}
		return q
	}
}

type fabricDocument struct {
	Name          string                 `firestore:"name"`
	Description   string                 `firestore:"description,omitempty"`
	Material      string                 `firestore:"material,omitempty"`
	Category      string                 `firestore:"category,omitempty"`
	PricePerMeter float64                `firestore:"pricePerMeter"`
	Available     bool                   `firestore:"available"`
	Colors        []colorVariantDocument `firestore:"colors,omitempty"`
	Images        []string               `firestore:"images,omitempty"`
	CreatedAt     time.Time              `firestore:"createdAt"`
	UpdatedAt     time.Time              `firestore:"updatedAt"`
}

func encodeFabric(fabric domain.Fabric) fabricDocument {
	return fabricDocument{
		Name:          fabric.Name,
		Description:   fabric.Description,
		Material:      fabric.Material,
		Category:      fabric.Category,
		PricePerMeter: money(fabric.PricePerMeter),
		Available:     fabric.Available,
		Colors:        encodeColors(fabric.Colors),
		Images:        append([]string(nil), fabric.Images...),
		CreatedAt:     fabric.CreatedAt.UTC(),
		UpdatedAt:     fabric.UpdatedAt.UTC(),
	}
}

func decodeFabric(doc pfirestore.Document[fabricDocument]) domain.Fabric {
	data := doc.Data
	return domain.Fabric{
		ID:            doc.ID,
		Name:          data.Name,
		Description:   data.Description,
		Material:      data.Material,
		Category:      data.Category,
		PricePerMeter: amount(data.PricePerMeter),
		Available:     data.Available,
		Colors:        decodeColors(data.Colors),
		Images:        data.Images,
		CreatedAt:     chooseTime(data.CreatedAt, doc.CreateTime),
		UpdatedAt:     chooseTime(data.UpdatedAt, doc.UpdateTime),
	}
}
