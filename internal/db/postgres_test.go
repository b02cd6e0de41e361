package db

import "testing"

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/barber?sslmode=disable", "pgx5://u:p@localhost:5432/barber?sslmode=disable"},
		{"postgresql://u@db/barber", "pgx5://u@db/barber"},
		{"pgx5://u@db/barber", "pgx5://u@db/barber"},
		{"u@db/barber", "pgx5://u@db/barber"},
	}
	for _, tc := range tests {
		if got := MigrationURL(tc.in); got != tc.want {
			t.Errorf("MigrationURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
