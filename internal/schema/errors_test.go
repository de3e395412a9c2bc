package schema_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		alreadyExists bool
		missing       bool
		unique        bool
	}{
		{name: "nil", err: nil},
		{name: "pg duplicate column", err: &pgconn.PgError{Code: "42701"}, alreadyExists: true},
		{name: "pg duplicate table wrapped", err: fmt.Errorf("create: %w", &pgconn.PgError{Code: "42P07"}), alreadyExists: true},
		{name: "pg undefined table", err: &pgconn.PgError{Code: "42P01"}, missing: true},
		{name: "pg undefined column", err: &pgconn.PgError{Code: "42703"}, missing: true},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "pg other", err: &pgconn.PgError{Code: "22001", Message: "value too long, already exists"}},
		{name: "sqlite duplicate column", err: errors.New("duplicate column name: currency"), alreadyExists: true},
		{name: "sqlite table exists", err: errors.New("table users already exists"), alreadyExists: true},
		{name: "sqlite no such table", err: errors.New("no such table: income"), missing: true},
		{name: "sqlite missing column on insert", err: errors.New("table user_settings has no column named currency"), missing: true},
		{name: "sqlite unique", err: errors.New("UNIQUE constraint failed: income.id"), unique: true},
		{name: "unrelated", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.alreadyExists, schema.IsAlreadyExists(tt.err), "IsAlreadyExists")
			assert.Equal(t, tt.missing, schema.IsMissing(tt.err), "IsMissing")
			assert.Equal(t, tt.unique, schema.IsUniqueViolation(tt.err), "IsUniqueViolation")
		})
	}
}
