package enrich

import (
	"context"
	"fmt"
)

// Lookup statuses recorded on each output row.
const (
	StatusSuccess          = "success"
	StatusSuccessWithRetry = "success_with_retry"
	StatusFail             = "fail"
	StatusAPIError         = "api_error"
)

// Result is the provenance learned for a single vessel.
//
// Everything is a string to keep CSV output simple and stable. RawResponse
// holds diagnostic text on failure paths only and is empty otherwise.
type Result struct {
	IMONumber             string
	ShipFlag              string
	CountryOfConstruction string
	ShipbuilderName       string
	YearBuilt             string
	Status                string
	RawResponse           string
}

// Querier issues a single knowledge-lookup request and returns the
// assistant's text content from the top choice.
//
// A response whose body is missing the expected structure surfaces as
// *ShapeError; transport failures surface as ordinary errors.
type Querier interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ShapeError reports a lookup response whose body did not contain the
// expected choices structure. Body holds the stringified response for
// diagnostics.
type ShapeError struct {
	StatusCode int
	Body       string
}

func (e *ShapeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lookup response status %d: unexpected shape", e.StatusCode)
	}
	return "lookup response: unexpected shape"
}
