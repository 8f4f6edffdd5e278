package pipeline_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harborline/vessel-enricher/internal/enrich"
	"github.com/harborline/vessel-enricher/internal/pipeline"
	"github.com/harborline/vessel-enricher/internal/vessel"
)

const sampleInput = "VESSEL NAME,QUANTITY UNIT,CARRIER CODE,CARRIER NAME,SHIP REGISTERED IN\n" +
	"EVER GIVEN,CTN,EGLV,Evergreen,Panama\n" +
	"STOLT TENACITY,LBK,SNTU,Stolt Tankers,Liberia\n"

func TestForEachVesselRow(t *testing.T) {
	t.Run("streams rows in order", func(t *testing.T) {
		var names []string
		err := pipeline.ForEachVesselRow(strings.NewReader(sampleInput), 0, func(row map[string]string) error {
			names = append(names, row[vessel.ColVesselName])
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(names) != 2 || names[0] != "EVER GIVEN" || names[1] != "STOLT TENACITY" {
			t.Fatalf("unexpected names: %#v", names)
		}
	})

	t.Run("row limit", func(t *testing.T) {
		n := 0
		err := pipeline.ForEachVesselRow(strings.NewReader(sampleInput), 1, func(map[string]string) error {
			n++
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 row with limit=1, got %d", n)
		}
	})

	t.Run("header is case-insensitive", func(t *testing.T) {
		in := "Vessel Name,Quantity Unit,Carrier Code,Carrier Name\nMSC OSCAR,CTN,MSCU,MSC\n"
		var got map[string]string
		err := pipeline.ForEachVesselRow(strings.NewReader(in), 0, func(row map[string]string) error {
			got = row
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[vessel.ColVesselName] != "MSC OSCAR" {
			t.Fatalf("unexpected row: %#v", got)
		}
	})

	t.Run("registered-in column is optional", func(t *testing.T) {
		in := "VESSEL NAME,QUANTITY UNIT,CARRIER CODE,CARRIER NAME\nMSC OSCAR,CTN,MSCU,MSC\n"
		err := pipeline.ForEachVesselRow(strings.NewReader(in), 0, func(row map[string]string) error {
			if v, ok := row[vessel.ColRegisteredIn]; ok && v != "" {
				t.Fatalf("expected empty registered-in, got %q", v)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing required column errors", func(t *testing.T) {
		in := "VESSEL NAME,CARRIER CODE,CARRIER NAME\nX,Y,Z\n"
		err := pipeline.ForEachVesselRow(strings.NewReader(in), 0, func(map[string]string) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "QUANTITY UNIT") {
			t.Fatalf("expected missing column error, got %v", err)
		}
	})
}

func TestWriterRoundTrip(t *testing.T) {
	id := vessel.Identity{
		Name:                "EVER GIVEN",
		CargoClass:          vessel.ClassContainer,
		RegistrationCountry: "Panama",
		CarrierName:         "Evergreen",
		CarrierCode:         "EGLV",
	}
	res := enrich.Result{
		IMONumber:             "9811000",
		ShipFlag:              "Panama",
		CountryOfConstruction: "Japan",
		ShipbuilderName:       "Imabari Shipbuilding",
		YearBuilt:             "2018",
		Status:                enrich.StatusSuccess,
	}

	var buf bytes.Buffer
	w, err := pipeline.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Write(pipeline.FromResult(id, res)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", w.Count())
	}

	wantHeader := "vessel_name,ship_type,ship_registration_country,ship_carrier_name,ship_carrier_code,imo_number,ship_flag,country_of_construction,shipbuilder_name,year_built,lookup_status,raw_response\n"
	if !strings.HasPrefix(buf.String(), wantHeader) {
		t.Fatalf("unexpected header: %q", buf.String())
	}

	rows, err := pipeline.ReadRows(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.VesselName != "EVER GIVEN" || got.ShipType != vessel.ClassContainer ||
		got.IMONumber != "9811000" || got.LookupStatus != enrich.StatusSuccess || got.RawResponse != "" {
		t.Fatalf("unexpected row: %#v", got)
	}
}

func TestOutputFilename(t *testing.T) {
	// 23:30 in a +2h zone is already the next calendar day in UTC.
	loc := time.FixedZone("plus2", 2*60*60)
	now := time.Date(2024, 3, 31, 23, 30, 0, 0, loc)
	if got, want := pipeline.OutputFilename(now), "vessels_enriched_2024-03-31.csv"; got != want {
		t.Fatalf("OutputFilename = %q, want %q", got, want)
	}
	utc := time.Date(2024, 4, 1, 0, 30, 0, 0, time.UTC)
	if got, want := pipeline.OutputFilename(utc), "vessels_enriched_2024-04-01.csv"; got != want {
		t.Fatalf("OutputFilename = %q, want %q", got, want)
	}
}
