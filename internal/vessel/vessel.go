package vessel

import "strings"

// Canonical input column names from the bill-of-lading export.
const (
	ColVesselName   = "VESSEL NAME"
	ColQuantityUnit = "QUANTITY UNIT"
	ColRegisteredIn = "SHIP REGISTERED IN"
	ColCarrierName  = "CARRIER NAME"
	ColCarrierCode  = "CARRIER CODE"
)

// Cargo class labels assigned by quantity-unit code.
const (
	ClassTanker    = "Tanker / Chemical Tanker"
	ClassDryBulk   = "Dry Bulk"
	ClassContainer = "Container"
)

// Identity is the minimal set of fields distinguishing one vessel record
// from another. Immutable once built; Name is the uniqueness key
// (case-sensitive, exact match).
type Identity struct {
	Name                string
	CargoClass          string
	RegistrationCountry string
	CarrierName         string
	CarrierCode         string
}

// ClassifyCargo maps a bill-of-lading quantity-unit code to a cargo class.
// Total: every code, including empty or unknown ones, yields one of the
// three class labels.
func ClassifyCargo(quantityUnit string) string {
	switch strings.TrimSpace(quantityUnit) {
	case "LBK":
		return ClassTanker
	case "DBK", "CBC":
		return ClassDryBulk
	default:
		return ClassContainer
	}
}

// FromRow builds an Identity from a raw export row keyed by canonical column
// name. Missing columns read as empty strings rather than erroring.
func FromRow(row map[string]string) Identity {
	return Identity{
		Name:                strings.TrimSpace(row[ColVesselName]),
		CargoClass:          ClassifyCargo(row[ColQuantityUnit]),
		RegistrationCountry: strings.TrimSpace(row[ColRegisteredIn]),
		CarrierName:         strings.TrimSpace(row[ColCarrierName]),
		CarrierCode:         strings.TrimSpace(row[ColCarrierCode]),
	}
}
