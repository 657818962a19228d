package filters

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-filters/pkg/query"
)

var ordersSchema = MustSchema(
	Field{Name: "search", Label: "Search", Kind: KindText},
	Field{Name: "status", Label: "Status", Kind: KindSelect, Options: []Choice{
		{Value: "pending", Label: "Pending"},
		{Value: "paid", Label: "Paid"},
		{Value: "shipped", Label: "Shipped"},
	}},
	Field{Name: "total", Label: "Total", Kind: KindNumber},
	Field{Name: "placed", Label: "Placed on", Kind: KindDate},
	Field{Name: "created", Label: "Created", Kind: KindDateRange},
	Field{Name: "tags", Label: "Tags", Kind: KindMultiSelect, Options: []Choice{
		{Value: "A", Label: "Alpha"},
		{Value: "B", Label: "Beta"},
		{Value: "C", Label: "Gamma"},
	}},
)

func mustLocation(t *testing.T, raw string) *query.Location {
	t.Helper()
	location, err := query.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return location
}

var errStoreDown = errors.New("store down")

// failingStore reads fine but refuses writes.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (failingStore) Set(context.Context, string, []byte) error         { return errStoreDown }
func (failingStore) Delete(context.Context, string) error              { return errStoreDown }
