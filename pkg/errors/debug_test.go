package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.uber.org/multierr"
)

func TestDumpExpandsCombinedErrors(t *testing.T) {
	combined := multierr.Append(
		fmt.Errorf("link: %w", stdErrors.New("insert failed")),
		fmt.Errorf("reserve_inventory: %w", stdErrors.New("insufficient stock")),
	)
	err := Wrap(CodeInternal, combined, "checkout completed with failed post-create steps")

	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("expected INTERNAL code, got %s", d.Code)
	}
	if len(d.Causes) != 2 {
		t.Fatalf("expected 2 causes, got %v", d.Causes)
	}
	if d.Causes[1] != "reserve_inventory: insufficient stock" {
		t.Fatalf("unexpected cause %q", d.Causes[1])
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain to include the wrapped error, got %v", d.Chain)
	}
}

func TestDumpReadsPostgresFields(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_order_sets_cart_id", TableName: "order_sets"}
	d := Dump(fmt.Errorf("create order set: %w", pgxErr))
	if d.PGCode != "23505" || d.PGConstraint != "ux_order_sets_cart_id" || d.PGTable != "order_sets" {
		t.Fatalf("unexpected pgx dump %+v", d)
	}

	pqErr := &pq.Error{Code: "23514", Constraint: "inventory_levels_reserved_check"}
	d = Dump(Wrap(CodeInternal, pqErr, "hold stock"))
	if d.PGCode != "23514" || d.PGConstraint != "inventory_levels_reserved_check" {
		t.Fatalf("unexpected pq dump %+v", d)
	}
	if len(d.Causes) != 0 {
		t.Fatalf("single errors should not report causes")
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
