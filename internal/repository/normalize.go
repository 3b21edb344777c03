package repository

import (
	"database/sql/driver"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// binaryTypes lists column types whose bytes are not text. They keep their
// []byte form and encode as base64 JSON strings.
var binaryTypes = map[string]bool{
	"BLOB":       true,
	"TINYBLOB":   true,
	"MEDIUMBLOB": true,
	"LONGBLOB":   true,
	"BINARY":     true,
	"VARBINARY":  true,
	"BIT":        true,
	"GEOMETRY":   true,
	"BYTEA":      true,
}

func isBinaryType(dbType string) bool {
	return binaryTypes[strings.ToUpper(dbType)]
}

// normalizeValue converts a driver value into something encoding/json
// renders as clients expect: text and decimals as strings, timestamps as
// HTTP dates in GMT, binary columns as base64.
func normalizeValue(v any, dbType string) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		if isBinaryType(dbType) {
			return val
		}
		return string(val)
	case time.Time:
		return val.UTC().Format(http.TimeFormat)
	case [16]byte:
		return uuid.UUID(val).String()
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil
		}
		return val
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return nil
		}
		return normalizeValue(dv, dbType)
	default:
		return v
	}
}
