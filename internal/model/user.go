// Package model defines domain entities for the application.
package model

import "encoding/json"

// Row is one record of the usuarios table.
// Values keep the table's column order; the schema belongs to the database.
type Row []any

// Rows is a query result set.
type Rows []Row

// MarshalJSON encodes the result set as an array of arrays.
// An empty or nil set encodes as [] rather than null.
func (r Rows) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal([]Row(r))
}
