package vessel_test

import (
	"testing"

	"github.com/harborline/vessel-enricher/internal/vessel"
)

func TestClassifyCargo(t *testing.T) {
	tests := []struct {
		name string
		unit string
		want string
	}{
		{name: "liquid_bulk", unit: "LBK", want: vessel.ClassTanker},
		{name: "dry_bulk", unit: "DBK", want: vessel.ClassDryBulk},
		{name: "bulk_carrier", unit: "CBC", want: vessel.ClassDryBulk},
		{name: "containers", unit: "CTN", want: vessel.ClassContainer},
		{name: "empty", unit: "", want: vessel.ClassContainer},
		{name: "unknown", unit: "???", want: vessel.ClassContainer},
		{name: "padded", unit: " LBK ", want: vessel.ClassTanker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vessel.ClassifyCargo(tt.unit); got != tt.want {
				t.Fatalf("ClassifyCargo(%q) = %q, want %q", tt.unit, got, tt.want)
			}
		})
	}
}

func TestFromRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		got := vessel.FromRow(map[string]string{
			vessel.ColVesselName:   " EVER GIVEN ",
			vessel.ColQuantityUnit: "LBK",
			vessel.ColRegisteredIn: "Panama",
			vessel.ColCarrierName:  "Evergreen",
			vessel.ColCarrierCode:  "EGLV",
		})
		want := vessel.Identity{
			Name:                "EVER GIVEN",
			CargoClass:          vessel.ClassTanker,
			RegistrationCountry: "Panama",
			CarrierName:         "Evergreen",
			CarrierCode:         "EGLV",
		}
		if got != want {
			t.Fatalf("FromRow = %#v, want %#v", got, want)
		}
	})

	t.Run("missing columns default to empty", func(t *testing.T) {
		got := vessel.FromRow(map[string]string{vessel.ColVesselName: "MAERSK ALTAIR"})
		if got.Name != "MAERSK ALTAIR" || got.RegistrationCountry != "" || got.CarrierCode != "" {
			t.Fatalf("unexpected identity: %#v", got)
		}
		if got.CargoClass != vessel.ClassContainer {
			t.Fatalf("missing quantity unit should classify as container, got %q", got.CargoClass)
		}
	})
}

func TestDeduper(t *testing.T) {
	d := vessel.NewDeduper()
	in := []vessel.Identity{
		{Name: "A"},
		{Name: ""},
		{Name: "A"},
		{Name: "B"},
	}
	var out []string
	for _, id := range in {
		if d.Keep(id) {
			out = append(out, id.Name)
		}
	}
	if len(out) != 2 || out[0] != "A" || out[1] != "B" {
		t.Fatalf("unexpected unique names: %#v", out)
	}
	if d.Unique() != 2 {
		t.Fatalf("Unique() = %d, want 2", d.Unique())
	}
}

func TestDeduperCaseSensitive(t *testing.T) {
	d := vessel.NewDeduper()
	if !d.Keep(vessel.Identity{Name: "Atlantic"}) {
		t.Fatal("first occurrence should be kept")
	}
	if !d.Keep(vessel.Identity{Name: "ATLANTIC"}) {
		t.Fatal("names are matched case-sensitively")
	}
}
