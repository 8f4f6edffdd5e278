package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/harborline/vessel-enricher/internal/vessel"
)

// Interval is the minimum spacing between consecutive outbound lookup calls.
// The external service caps usage at 50 requests per minute; the secondary
// disambiguation call counts against the same budget.
const Interval = 1200 * time.Millisecond

// Engine drives the two-stage enrichment workflow for one vessel at a time.
//
// The pipeline is strictly sequential, so the limiter only ever sees one
// caller; it exists to enforce spacing, not to arbitrate concurrency.
type Engine struct {
	querier Querier
	limiter *rate.Limiter
	logger  *log.Logger
}

func NewEngine(querier Querier, logger *log.Logger) *Engine {
	return newEngine(querier, logger, Interval)
}

func newEngine(querier Querier, logger *log.Logger, interval time.Duration) *Engine {
	return &Engine{
		querier: querier,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// Enrich produces the provenance result for one vessel: a primary lookup,
// and, when the primary comes back with an IMO number but no usable build
// country, a narrower secondary lookup keyed by that IMO number.
//
// Lookup failures degrade the result's Status; Enrich never fails the run.
func (e *Engine) Enrich(ctx context.Context, v vessel.Identity) Result {
	content, err := e.call(ctx, systemPrompt, primaryPrompt(v))
	if err != nil {
		var shape *ShapeError
		if errors.As(err, &shape) {
			return Result{Status: StatusAPIError, RawResponse: shape.Body}
		}
		return Result{Status: StatusAPIError, RawResponse: err.Error()}
	}

	fields, ok := parseFields(content)
	if !ok {
		return Result{Status: StatusFail, RawResponse: content}
	}

	primary := Result{
		IMONumber:             fields["imo_number"],
		ShipFlag:              fields["ship_flag"],
		CountryOfConstruction: fields["country_of_construction"],
		ShipbuilderName:       fields["shipbuilder_name"],
		YearBuilt:             fields["year_built"],
		Status:                StatusSuccess,
	}
	if !needsDisambiguation(primary) {
		return primary
	}

	e.logger.Printf("secondary lookup: vessel=%q imo=%s", v.Name, primary.IMONumber)
	secondary := e.disambiguate(ctx, v.Name, primary.IMONumber)
	merged := merge(primary, secondary)
	merged.Status = StatusSuccessWithRetry
	return merged
}

// call blocks for rate-limit spacing, then issues one lookup request.
func (e *Engine) call(ctx context.Context, system, user string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return e.querier.Complete(ctx, system, user)
}

// needsDisambiguation reports whether the primary result warrants a second
// call: the service identified the vessel (IMO number present) but could not
// name where it was built.
func needsDisambiguation(primary Result) bool {
	if primary.IMONumber == "" {
		return false
	}
	return primary.CountryOfConstruction == "" || primary.CountryOfConstruction == "Unknown"
}

// disambiguate issues the secondary lookup. Any failure degrades to an empty
// result; errors never propagate from this step.
func (e *Engine) disambiguate(ctx context.Context, name, imo string) Result {
	content, err := e.call(ctx, systemPrompt, secondaryPrompt(name, imo))
	if err != nil {
		return Result{}
	}
	fields, ok := parseFields(content)
	if !ok {
		return Result{}
	}
	return Result{
		CountryOfConstruction: fields["country_of_construction"],
		ShipbuilderName:       fields["shipbuilder_name"],
	}
}

// merge overlays the secondary lookup's build fields onto the primary
// result. Secondary values win only when non-empty; everything else comes
// from the primary.
func merge(primary, secondary Result) Result {
	out := primary
	if secondary.CountryOfConstruction != "" {
		out.CountryOfConstruction = secondary.CountryOfConstruction
	}
	if secondary.ShipbuilderName != "" {
		out.ShipbuilderName = secondary.ShipbuilderName
	}
	return out
}

// parseFields decodes the assistant content as a JSON object of string-ish
// values. Numbers are accepted and formatted (models occasionally return
// year_built as a number despite the prompt).
func parseFields(content string) (map[string]string, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, false
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			out[k] = strings.TrimSpace(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return out, true
}

const systemPrompt = `You are a maritime vessel registry researcher. Use web search to find factual provenance data about commercial vessels. Respond with ONLY a single JSON object, no surrounding text, no markdown fences.`

func primaryPrompt(v vessel.Identity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find provenance data for the commercial vessel %q.\n", v.Name)
	fmt.Fprintf(&b, "Known details: cargo class %q", v.CargoClass)
	if v.RegistrationCountry != "" {
		fmt.Fprintf(&b, ", registered in %q", v.RegistrationCountry)
	}
	if v.CarrierName != "" {
		fmt.Fprintf(&b, ", operated by carrier %q", v.CarrierName)
	}
	if v.CarrierCode != "" {
		fmt.Fprintf(&b, " (SCAC %q)", v.CarrierCode)
	}
	b.WriteString(".\n\n")
	b.WriteString(`Return ONLY a JSON object with these keys, all string values:
- vessel_name
- imo_number
- country_of_construction
- shipbuilder_name
- ship_flag
- year_built

If a value cannot be found, set it to an empty string. Do not include extra keys.`)
	return b.String()
}

func secondaryPrompt(name, imo string) string {
	return fmt.Sprintf(`The vessel %q has IMO number %s. Where was it built and by which shipbuilder?

Return ONLY a JSON object with these keys, both string values:
- country_of_construction
- shipbuilder_name

If a value cannot be found, set it to an empty string. Do not include extra keys.`, name, imo)
}
