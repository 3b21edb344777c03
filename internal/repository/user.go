package repository

import (
	"context"
	"fmt"

	"github.com/holadocker/usuarios/internal/model"
)

// listUsersQuery is fixed: no filtering, ordering or pagination.
const listUsersQuery = "SELECT * FROM usuarios;"

// ListUsers returns every row of the usuarios table in the order the
// database produced them. The connection is closed on every path.
func (r *Repository) ListUsers(ctx context.Context) (model.Rows, error) {
	conn, err := r.connector.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list usuarios: %w", err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryRows(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list usuarios: %w", err)
	}

	return rows, nil
}
