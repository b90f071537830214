package services

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	fabricOrderNumberPrefix  = "ORD"
	productOrderNumberPrefix = "PROD"
)

// OrderNumberGenerator formats the human-facing order number for prefix at now.
type OrderNumberGenerator func(prefix string, now time.Time) string

// RandomOrderNumber yields PREFIX-YYYYMMDD-#### with a random suffix in 1000..9999.
// Numbers are cosmetic: collisions are possible and lookups use the document id.
func RandomOrderNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, now.UTC().Format("20060102"), 1000+rand.IntN(9000))
}
