package storage

import (
	"fmt"
	"path"
	"strings"
)

// DefaultImagePrefix is the folder order reference images are written under.
const DefaultImagePrefix = "button-images"

// PathBuilder composes object keys inside the images bucket.
type PathBuilder struct {
	prefix string
}

// NewPathBuilder returns a builder rooted at prefix. An empty prefix uses DefaultImagePrefix.
func NewPathBuilder(prefix string) PathBuilder {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultImagePrefix
	}
	return PathBuilder{prefix: prefix}
}

// OrderImage returns "{prefix}/{orderNumber}.jpg".
func (b PathBuilder) OrderImage(orderNumber string) (string, error) {
	segment, err := validateSegment("orderNumber", orderNumber)
	if err != nil {
		return "", err
	}
	return path.Join(b.prefix, segment+".jpg"), nil
}

func validateSegment(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "", fmt.Errorf("storage: %s is required", name)
	case strings.ContainsAny(value, "/\\"):
		return "", fmt.Errorf("storage: %s contains invalid path characters", name)
	case strings.Contains(value, ".."):
		return "", fmt.Errorf("storage: %s contains invalid traversal sequence", name)
	}
	return value, nil
}
