package model

import (
	"encoding/json"
	"testing"
)

func TestRows_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows Rows
		want string
	}{
		{"nil", nil, `[]`},
		{"empty", Rows{}, `[]`},
		{"two rows", Rows{{int64(1), "a"}, {int64(2), "b"}}, `[[1,"a"],[2,"b"]]`},
		{"null column", Rows{{int64(3), nil}}, `[[3,null]]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tt.rows)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("json = %s, want %s", got, tt.want)
			}
		})
	}
}
