package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harborline/vessel-enricher/internal/vessel"
)

// requiredColumns must be present in the input header. SHIP REGISTERED IN is
// read when present; its absence yields empty strings, not an error.
var requiredColumns = []string{
	vessel.ColVesselName,
	vessel.ColQuantityUnit,
	vessel.ColCarrierCode,
	vessel.ColCarrierName,
}

// ForEachVesselRow streams bill-of-lading rows from r as canonical
// column-name → value maps, invoking emit once per row in file order.
// limit caps the number of rows read; limit <= 0 reads everything.
func ForEachVesselRow(r io.Reader, limit int, emit func(map[string]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("missing required column %q", col)
		}
	}

	columns := append(append([]string{}, requiredColumns...), vessel.ColRegisteredIn)
	read := 0
	for {
		if limit > 0 && read >= limit {
			return nil
		}
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		read++

		row := make(map[string]string, len(columns))
		for _, col := range columns {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				continue
			}
			row[col] = rec[i]
		}
		if err := emit(row); err != nil {
			return err
		}
	}
}

// Writer serializes enriched rows with the stable Header() ordering and
// counts data rows written.
type Writer struct {
	cw *csv.Writer
	n  int
}

// NewWriter writes the header row immediately.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return nil, err
	}
	return &Writer{cw: cw}, nil
}

func (w *Writer) Write(row Row) error {
	if err := w.cw.Write(row.record()); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of data rows written, excluding the header.
func (w *Writer) Count() int {
	return w.n
}

func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

// ReadRows reads rows back from an output CSV using the stable Header()
// contract. Extra columns are ignored; required columns must exist.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range Header() {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		get := func(col string) string {
			i := index[col]
			if i < 0 || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		rows = append(rows, Row{
			VesselName:              get("vessel_name"),
			ShipType:                get("ship_type"),
			ShipRegistrationCountry: get("ship_registration_country"),
			ShipCarrierName:         get("ship_carrier_name"),
			ShipCarrierCode:         get("ship_carrier_code"),
			IMONumber:               get("imo_number"),
			ShipFlag:                get("ship_flag"),
			CountryOfConstruction:   get("country_of_construction"),
			ShipbuilderName:         get("shipbuilder_name"),
			YearBuilt:               get("year_built"),
			LookupStatus:            get("lookup_status"),
			RawResponse:             get("raw_response"),
		})
	}
}

// OutputFilename returns the dated output name for a run, with the UTC
// calendar date embedded.
func OutputFilename(now time.Time) string {
	return fmt.Sprintf("vessels_enriched_%s.csv", now.UTC().Format("2006-01-02"))
}
