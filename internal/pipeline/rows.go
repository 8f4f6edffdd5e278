package pipeline

import (
	"github.com/harborline/vessel-enricher/internal/enrich"
	"github.com/harborline/vessel-enricher/internal/vessel"
)

// Row is the stable output schema: one line per unique vessel.
type Row struct {
	VesselName              string
	ShipType                string
	ShipRegistrationCountry string
	ShipCarrierName         string
	ShipCarrierCode         string
	IMONumber               string
	ShipFlag                string
	CountryOfConstruction   string
	ShipbuilderName         string
	YearBuilt               string
	LookupStatus            string
	RawResponse             string
}

// Header returns the stable CSV header for Row.
func Header() []string {
	return []string{
		"vessel_name",
		"ship_type",
		"ship_registration_country",
		"ship_carrier_name",
		"ship_carrier_code",
		"imo_number",
		"ship_flag",
		"country_of_construction",
		"shipbuilder_name",
		"year_built",
		"lookup_status",
		"raw_response",
	}
}

// FromResult combines an input identity with the provenance learned for it.
// Identity fields always come from the input row; the lookup service's own
// echo of the vessel name has already been discarded upstream.
func FromResult(v vessel.Identity, r enrich.Result) Row {
	return Row{
		VesselName:              v.Name,
		ShipType:                v.CargoClass,
		ShipRegistrationCountry: v.RegistrationCountry,
		ShipCarrierName:         v.CarrierName,
		ShipCarrierCode:         v.CarrierCode,
		IMONumber:               r.IMONumber,
		ShipFlag:                r.ShipFlag,
		CountryOfConstruction:   r.CountryOfConstruction,
		ShipbuilderName:         r.ShipbuilderName,
		YearBuilt:               r.YearBuilt,
		LookupStatus:            r.Status,
		RawResponse:             r.RawResponse,
	}
}

func (r Row) record() []string {
	return []string{
		r.VesselName,
		r.ShipType,
		r.ShipRegistrationCountry,
		r.ShipCarrierName,
		r.ShipCarrierCode,
		r.IMONumber,
		r.ShipFlag,
		r.CountryOfConstruction,
		r.ShipbuilderName,
		r.YearBuilt,
		r.LookupStatus,
		r.RawResponse,
	}
}
