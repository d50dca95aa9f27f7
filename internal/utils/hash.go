package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"time"
)

// Hashable is implemented by imported records whose content hash decides
// whether a re-import is a no-op.
type Hashable interface {
	GetHashableFields() map[string]any
	SetContentHash(hash string)
	GetContentHash() string
}

// GenerateEntityHash returns the hex SHA-256 of the entity's hashable fields.
func GenerateEntityHash(entity Hashable) (string, error) {
	return HashFields(entity.GetHashableFields())
}

// HashFields hashes fields deterministically: encoding/json writes map keys in
// sorted order and values are normalized first.
func HashFields(fields map[string]any) (string, error) {
	normalized := make(map[string]any, len(fields))
	for key, value := range fields {
		normalized[key] = normalizeValue(value)
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeValue(value any) any {
	if value == nil {
		return nil
	}

	if t, ok := value.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		return normalizeValue(v.Elem().Interface())
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return value
	}
}
