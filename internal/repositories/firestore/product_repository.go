package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const productCollection = "products"

// ProductRepository persists ready-made products.
type ProductRepository struct {
	coll *pfirestore.Collection[productDocument]
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(provider *pfirestore.Provider) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository requires firestore provider")
	}
	return &ProductRepository{coll: pfirestore.NewCollection[productDocument](provider, productCollection)}, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product domain.Product) error {
	if r == nil || r.coll == nil {
		return errors.New("product repository not initialised")
	}
	return r.coll.Create(ctx, product.ID, encodeProduct(product))
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	if r == nil || r.coll == nil {
		return errors.New("product repository not initialised")
	}
	if _, err := r.coll.Get(ctx, product.ID); err != nil {
		return err
	}
	return r.coll.Set(ctx, product.ID, encodeProduct(product))
}

func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	if r == nil || r.coll == nil {
		return errors.New("product repository not initialised")
	}
	return r.coll.Delete(ctx, productID)
}

func (r *ProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if r == nil || r.coll == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	doc, err := r.coll.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	return decodeProduct(doc), nil
}

func (r *ProductRepository) List(ctx context.Context, filter repositories.CatalogListFilter) ([]domain.Product, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("product repository not initialised")
	}
	docs, err := r.coll.Query(ctx, catalogFilter(filter))
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, decodeProduct(doc))
	}
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

type productDocument struct {
	Name        string                 `firestore:"name"`
	Description string                 `firestore:"description,omitempty"`
	Category    string                 `firestore:"category,omitempty"`
	Price       float64                `firestore:"price"`
	Available   bool                   `firestore:"available"`
	Colors      []colorVariantDocument `firestore:"colors,omitempty"`
	Sizes       []sizeVariantDocument  `firestore:"sizes,omitempty"`
	Images      []string               `firestore:"images,omitempty"`
	CreatedAt   time.Time              `firestore:"createdAt"`
	UpdatedAt   time.Time              `firestore:"updatedAt"`
}

func encodeProduct(product domain.Product) productDocument {
	doc := productDocument{
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       money(product.Price),
		Available:   product.Available,
		Colors:      encodeColors(product.Colors),
		Images:      append([]string(nil), product.Images...),
		CreatedAt:   product.CreatedAt.UTC(),
		UpdatedAt:   product.UpdatedAt.UTC(),
	}
	for _, size := range product.Sizes {
		doc.Sizes = append(doc.Sizes, sizeVariantDocument(size))
	}
	return doc
}

func decodeProduct(doc pfirestore.Document[productDocument]) domain.Product {
	data := doc.Data
	product := domain.Product{
		ID:          doc.ID,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Price:       amount(data.Price),
		Available:   data.Available,
		Colors:      decodeColors(data.Colors),
		Images:      data.Images,
		CreatedAt:   chooseTime(data.CreatedAt, doc.CreateTime),
		UpdatedAt:   chooseTime(data.UpdatedAt, doc.UpdateTime),
	}
	for _, size := range data.Sizes {
		product.Sizes = append(product.Sizes, domain.SizeVariant(size))
	}
	return product
}
