package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/pagination"
)

// Shared document shapes. Money is stored as a float64 number of rupees, matching what the
// storefront reads directly from Firestore.

type customerInfoDocument struct {
	Name      string `firestore:"name"`
	Phone     string `firestore:"phone"`
	Email     string `firestore:"email,omitempty"`
	AccountID string `firestore:"accountId,omitempty"`
}

type addressDocument struct {
	Line1    string `firestore:"line1"`
	Line2    string `firestore:"line2,omitempty"`
	Landmark string `firestore:"landmark,omitempty"`
	City     string `firestore:"city"`
	State    string `firestore:"state"`
	Pincode  string `firestore:"pincode"`
}

type colorVariantDocument struct {
	Name     string `firestore:"name"`
	Hex      string `firestore:"hex,omitempty"`
	ImageURL string `firestore:"imageUrl,omitempty"`
	Stock    int    `firestore:"stock"`
}

type sizeVariantDocument struct {
	Size  string `firestore:"size"`
	Stock int    `firestore:"stock"`
}

func money(amount decimal.Decimal) float64 {
	value, _ := amount.Float64()
	return value
}

func amount(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func encodeCustomerInfo(info domain.CustomerInfo) customerInfoDocument {
	return customerInfoDocument{Name: info.Name, Phone: info.Phone, Email: info.Email, AccountID: info.AccountID}
}

func decodeCustomerInfo(doc customerInfoDocument) domain.CustomerInfo {
	return domain.CustomerInfo{Name: doc.Name, Phone: doc.Phone, Email: doc.Email, AccountID: doc.AccountID}
}

func encodeAddress(addr domain.Address) addressDocument {
	return addressDocument(addr)
}

func decodeAddress(doc addressDocument) domain.Address {
	return domain.Address(doc)
}

func encodeColors(colors []domain.ColorVariant) []colorVariantDocument {
	if len(colors) == 0 {
		return nil
	}
	out := make([]colorVariantDocument, len(colors))
	for i, c := range colors {
		out[i] = colorVariantDocument(c)
	}
	return out
}

func decodeColors(docs []colorVariantDocument) []domain.ColorVariant {
	if len(docs) == 0 {
		return nil
	}
	out := make([]domain.ColorVariant, len(docs))
	for i, c := range docs {
		out[i] = domain.ColorVariant(c)
	}
	return out
}

// listPage runs a createdAt-desc query over coll, resuming after pager's token and fetching one
// extra document to decide whether another page exists.
func listPage[D any, T any](
	ctx context.Context,
	coll *pfirestore.Collection[D],
	pager domain.Pagination,
	narrow pfirestore.QueryBuilder,
	createdAt func(D) time.Time,
	decode func(pfirestore.Document[D]) (T, error),
) (domain.CursorPage[T], error) {
	cursor, err := pagination.DecodeToken(pager.PageToken)
	if err != nil {
		return domain.CursorPage[T]{}, err
	}
	limit := pager.PageSize
	if limit <= 0 {
		limit = pagination.DefaultPageSize
	}

	docs, err := coll.Query(ctx, func(q firestore.Query) firestore.Query {
		if narrow != nil {
			q = narrow(q)
		}
		q = q.OrderBy("createdAt", firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)
		if !cursor.IsZero() {
			q = q.StartAfter(cursor.CreatedAt, cursor.ID)
		}
		return q.Limit(limit + 1)
	})
	if err != nil {
		return domain.CursorPage[T]{}, err
	}

	var next string
	if len(docs) > limit {
		last := docs[limit-1]
		next, err = pagination.EncodeToken(pagination.Cursor{CreatedAt: createdAt(last.Data), ID: last.ID})
		if err != nil {
			return domain.CursorPage[T]{}, err
		}
		docs = docs[:limit]
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decode(doc)
		if err != nil {
			return domain.CursorPage[T]{}, err
		}
		items = append(items, item)
	}
	return domain.CursorPage[T]{Items: items, NextPageToken: next}, nil
}
