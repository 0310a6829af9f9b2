package domain

import (
	"errors"
	"testing"
)

func TestNewCatalogValidation(t *testing.T) {
	if _, err := NewCatalog([]WorkItem{{Name: " ", Intensity: 1}}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := NewCatalog([]WorkItem{{Name: "x", Intensity: 0}}); !errors.Is(err, ErrInvalidIntensity) {
		t.Fatalf("expected ErrInvalidIntensity, got %v", err)
	}
	if _, err := NewCatalog([]WorkItem{{Name: "x", Intensity: 1}, {Name: " x ", Intensity: 2}}); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
}

func TestCatalogPartitions(t *testing.T) {
	items := MarkSpecial([]WorkItem{
		{Name: "EoS Report", Intensity: 7},
		{Name: "CMF", Intensity: 2},
		{Name: "DCOSS Monitoring", Intensity: 2},
		{Name: "ITAU", Intensity: 5},
	}, []string{"DCOSS Monitoring", "EoS Report"})
	catalog, err := NewCatalog(items)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	specials := catalog.Specials()
	if len(specials) != 2 || specials[0].Name != "EoS Report" || specials[1].Name != "DCOSS Monitoring" {
		t.Fatalf("expected specials in catalog order, got %#v", specials)
	}
	regular := catalog.Regular()
	if len(regular) != 2 || regular[0].Name != "CMF" {
		t.Fatalf("unexpected regular items %#v", regular)
	}
	if got := catalog.MaxIntensity(); got != 5 {
		t.Fatalf("MaxIntensity() = %d, want 5 (special counted at fixed intensity)", got)
	}
	if item, ok := catalog.Lookup("ITAU"); !ok || item.Intensity != 5 {
		t.Fatalf("Lookup(ITAU) = %#v, %t", item, ok)
	}
}
