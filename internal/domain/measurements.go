package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GarmentType tags a measurement set.
type GarmentType string

const (
	GarmentKurta  GarmentType = "kurta"
	GarmentPajama GarmentType = "pajama"
	GarmentShirt  GarmentType = "shirt"
	GarmentPant   GarmentType = "pant"
	GarmentBlouse GarmentType = "blouse"
	GarmentSalwar GarmentType = "salwar"
)

// MaxMeasurementSets caps how many garments one order can carry measurements for.
const MaxMeasurementSets = 2

var (
	// ErrUnknownGarment is returned for garment tags outside the known set.
	ErrUnknownGarment = errors.New("measurements: unknown garment")
	// ErrInvalidMeasurement is returned for unknown fields or negative values.
	ErrInvalidMeasurement = errors.New("measurements: invalid value")
	// ErrTooManyMeasurementSets is returned when more than MaxMeasurementSets are supplied.
	ErrTooManyMeasurementSets = errors.New("measurements: too many garment sets")
	// ErrDuplicateGarment is returned when two sets share a garment tag.
	ErrDuplicateGarment = errors.New("measurements: duplicate garment")
)

// Measurements is a garment-specific set of body measurements in inches.
// The concrete types are the variants; Garment reports the tag.
type Measurements interface {
	Garment() GarmentType
	// Values flattens the set into named fields, omitting zero values.
	Values() map[string]float64
	isMeasurements()
}

// KurtaMeasurements is the kurta variant.
type KurtaMeasurements struct {
	Length       float64
	Chest        float64
	Waist        float64
	Hip          float64
	Shoulder     float64
	SleeveLength float64
	Neck         float64
}

// PajamaMeasurements is the pajama variant.
type PajamaMeasurements struct {
	Length float64
	Waist  float64
	Hip    float64
	Bottom float64
}

// ShirtMeasurements is the shirt variant.
type ShirtMeasurements struct {
	Length       float64
	Chest        float64
	Waist        float64
	Shoulder     float64
	SleeveLength float64
	Neck         float64
	Cuff         float64
}

// PantMeasurements is the pant variant.
type PantMeasurements struct {
	Length float64
	Waist  float64
	Hip    float64
	Thigh  float64
	Inseam float64
	Bottom float64
}

// BlouseMeasurements is the blouse variant.
type BlouseMeasurements struct {
	Length       float64
	Bust         float64
	Waist        float64
	Shoulder     float64
	SleeveLength float64
	Armhole      float64
	FrontNeck    float64
	BackNeck     float64
}

// SalwarMeasurements is the salwar variant.
type SalwarMeasurements struct {
	Length float64
	Waist  float64
	Hip    float64
	Bottom float64
}

func (KurtaMeasurements) Garment() GarmentType  { return GarmentKurta }
func (PajamaMeasurements) Garment() GarmentType { return GarmentPajama }
func (ShirtMeasurements) Garment() GarmentType  { return GarmentShirt }
func (PantMeasurements) Garment() GarmentType   { return GarmentPant }
func (BlouseMeasurements) Garment() GarmentType { return GarmentBlouse }
func (SalwarMeasurements) Garment() GarmentType { return GarmentSalwar }

func (KurtaMeasurements) isMeasurements()  {}
func (PajamaMeasurements) isMeasurements() {}
func (ShirtMeasurements) isMeasurements()  {}
func (PantMeasurements) isMeasurements()   {}
func (BlouseMeasurements) isMeasurements() {}
func (SalwarMeasurements) isMeasurements() {}

func (m KurtaMeasurements) Values() map[string]float64 {
	return compactValues(map[string]float64{
		"length": m.Length, "chest": m.Chest, "waist": m.Waist, "hip": m.Hip,
		"shoulder": m.Shoulder, "sleeveLength": m.SleeveLength, "neck": m.Neck,
	})
}

func (m PajamaMeasurements) Values() map[string]float64 {
	return compactValues(map[string]float64{
		"length": m.Length, "waist": m.Waist, "hip": m.Hip, "bottom": m.Bottom,
	})
}

func (m ShirtMeasurements) Values() map[string]float64 {
	return compactValues(map[string]float64{
		"length": m.Length, "chest": m.Chest, "waist": m.Waist, "shoulder": m.Shoulder,
		"sleeveLength": m.SleeveLength, "neck": m.Neck, "cuff": m.Cuff,
	})
}

func (m PantMeasurements) Values() map[string]float64 {
	return compactValues(map[string]float64{
		"length": m.Length, "waist": m.Waist, "hip": m.Hip, "thigh": m.Thigh,
		"inseam": m.Inseam, "bottom": m.Bottom,
	})
}

func (m BlouseMeasurements) Values() map[string]float64 {
	return compactValues(map[string]float64{
		"length": m.Length, "bust": m.Bust, "waist": m.Waist, "shoulder": m.Shoulder,
		"sleeveLength": m.SleeveLength, "armhole": m.Armhole, "frontNeck": m.FrontNeck,
		"backNeck": m.BackNeck,
	})
}

func (m SalwarMeasurements) Values() map[string]float64 {
	return compactValues(map[string]float64{
		"length": m.Length, "waist": m.Waist, "hip": m.Hip, "bottom": m.Bottom,
	})
}

// NewMeasurements builds the variant for garment from named values. Unknown field names
// and negative values are rejected.
func NewMeasurements(garment GarmentType, values map[string]float64) (Measurements, error) {
	return buildMeasurements(garment, values, false)
}

// RestoreMeasurements rebuilds a stored set. Unknown field names and negative values are
// dropped instead of rejected; an unknown garment is still an error.
func RestoreMeasurements(garment GarmentType, values map[string]float64) (Measurements, error) {
	return buildMeasurements(garment, values, true)
}

func buildMeasurements(garment GarmentType, values map[string]float64, lenient bool) (Measurements, error) {
	r := valueReader{values: values, used: make(map[string]struct{}, len(values)), lenient: lenient}
	var m Measurements
	switch GarmentType(strings.ToLower(strings.TrimSpace(string(garment)))) {
	case GarmentKurta:
		m = KurtaMeasurements{
			Length: r.get("length"), Chest: r.get("chest"), Waist: r.get("waist"), Hip: r.get("hip"),
			Shoulder: r.get("shoulder"), SleeveLength: r.get("sleeveLength"), Neck: r.get("neck"),
		}
	case GarmentPajama:
		m = PajamaMeasurements{
			Length: r.get("length"), Waist: r.get("waist"), Hip: r.get("hip"), Bottom: r.get("bottom"),
		}
	case GarmentShirt:
		m = ShirtMeasurements{
			Length: r.get("length"), Chest: r.get("chest"), Waist: r.get("waist"), Shoulder: r.get("shoulder"),
			SleeveLength: r.get("sleeveLength"), Neck: r.get("neck"), Cuff: r.get("cuff"),
		}
	case GarmentPant:
		m = PantMeasurements{
			Length: r.get("length"), Waist: r.get("waist"), Hip: r.get("hip"), Thigh: r.get("thigh"),
			Inseam: r.get("inseam"), Bottom: r.get("bottom"),
		}
	case GarmentBlouse:
		m = BlouseMeasurements{
			Length: r.get("length"), Bust: r.get("bust"), Waist: r.get("waist"), Shoulder: r.get("shoulder"),
			SleeveLength: r.get("sleeveLength"), Armhole: r.get("armhole"), FrontNeck: r.get("frontNeck"),
			BackNeck: r.get("backNeck"),
		}
	case GarmentSalwar:
		m = SalwarMeasurements{
			Length: r.get("length"), Waist: r.get("waist"), Hip: r.get("hip"), Bottom: r.get("bottom"),
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGarment, garment)
	}
	if err := r.err(); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Garment(), err)
	}
	return m, nil
}

// ValidateMeasurementSets enforces the per-order cap and distinct garment tags.
func ValidateMeasurementSets(sets []Measurements) error {
	if len(sets) > MaxMeasurementSets {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyMeasurementSets, len(sets), MaxMeasurementSets)
	}
	seen := make(map[GarmentType]struct{}, len(sets))
	for _, set := range sets {
		if set == nil {
			continue
		}
		if _, dup := seen[set.Garment()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateGarment, set.Garment())
		}
		seen[set.Garment()] = struct{}{}
	}
	return nil
}

type valueReader struct {
	values map[string]float64
	used    map[string]struct{}
	bad     []string
	lenient bool
}

func (r *valueReader) get(name string) float64 {
	v, ok := r.values[name]
	if !ok {
		return 0
	}
	r.used[name] = struct{}{}
	if v < 0 {
		r.bad = append(r.bad, name)
		return 0
	}
	return v
}

func (r *valueReader) err() error {
	if r.lenient {
		return nil
	}
	for name := range r.values {
		if _, ok := r.used[name]; !ok {
			r.bad = append(r.bad, name)
		}
	}
	if len(r.bad) == 0 {
		return nil
	}
	sort.Strings(r.bad)
	return fmt.Errorf("%w: %s", ErrInvalidMeasurement, strings.Join(r.bad, ", "))
}

func compactValues(values map[string]float64) map[string]float64 {
	for key, value := range values {
		if value == 0 {
			delete(values, key)
		}
	}
	return values
}
