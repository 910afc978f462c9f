// Package scenario loads simulation scenarios from YAML files. A scenario
// is a multi-document YAML file; each document describes one entry
// (account, interest, transfer, timeline or import). Entries are keyed by
// id (defaulting to their name), and imported files merge field-wise with
// the importing file winning.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/sboehler/foresight/lib/common/compare"
	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/common/dict"
	"github.com/sboehler/foresight/lib/handler"
	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/model/currency"
	"github.com/sboehler/foresight/lib/rate"
	"github.com/sboehler/foresight/lib/schedule"
	"github.com/sboehler/foresight/lib/timeline"
)

type accountEntry struct {
	ID         string   `yaml:"id"`
	Type       string   `yaml:"type"`
	Name       string   `yaml:"name"`
	Amount     float64  `yaml:"amount"`
	Status     string   `yaml:"status"`
	Currency   string   `yaml:"currency"`
	Categories []string `yaml:"categories"`
}

type rateSpec struct {
	Percent float64 `yaml:"percent"`
	Period  string  `yaml:"period"`
}

type periodSpec struct {
	N    int    `yaml:"n"`
	Unit string `yaml:"unit"`
	End  string `yaml:"end"`
}

type interestEntry struct {
	ID      string      `yaml:"id"`
	Type    string      `yaml:"type"`
	Account string      `yaml:"account"`
	Rate    rateSpec    `yaml:"rate"`
	Start   string      `yaml:"start"`
	Period  *periodSpec `yaml:"period"`
}

type transferEntry struct {
	ID      string      `yaml:"id"`
	Type    string      `yaml:"type"`
	From    string      `yaml:"from"`
	To      string      `yaml:"to"`
	Amount  float64     `yaml:"amount"`
	Start   string      `yaml:"start"`
	Period  *periodSpec `yaml:"period"`
	FromMin *float64    `yaml:"from_min"`
	ToMax   *float64    `yaml:"to_max"`
}

type timelineEntry struct {
	ID    string `yaml:"id"`
	Type  string `yaml:"type"`
	Start string `yaml:"start"`
}

// Timeline is an alias to keep callers on one import.
type Timeline = timeline.Timeline

type entryMap map[string]interface{}

// Load reads a scenario file and builds a timeline from it. All validation
// errors are aggregated, not just the first.
func Load(path string) (*Timeline, error) {
	entries, err := readFile(path, nil)
	if err != nil {
		return nil, err
	}
	return build(entries)
}

// readFile reads all documents of one file, resolving imports recursively.
// seen holds the active import chain, guarding against cycles; it is
// unwound on return so the same file may be imported from several places.
func readFile(path string, seen map[string]bool) (map[string]entryMap, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[abs] {
		return nil, fmt.Errorf("%s: import cycle", path)
	}
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[abs] = true
	defer delete(seen, abs)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		docs    []entryMap
		counter int
		dec     = yaml.NewDecoder(f)
	)
	for {
		var doc map[string]interface{}
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}

	byID := make(map[string]entryMap)
	// Imports first: entries of the importing file override imported ones.
	for _, doc := range docs {
		if typeOf(doc) != "import" {
			continue
		}
		file, ok := doc["file"].(string)
		if !ok || len(file) == 0 {
			return nil, fmt.Errorf("%s: import entry without file", path)
		}
		imported, err := readFile(filepath.Join(filepath.Dir(path), file), seen)
		if err != nil {
			return nil, err
		}
		for id, entry := range imported {
			merge(byID, id, entry)
		}
	}
	for _, doc := range docs {
		if typeOf(doc) == "import" {
			continue
		}
		id := idOf(doc)
		if len(id) == 0 {
			// Generated ids are scoped to the file, so anonymous entries
			// from different files never merge.
			counter++
			id = fmt.Sprintf("__%s:%d", abs, counter)
		}
		merge(byID, id, doc)
	}
	return byID, nil
}

func typeOf(doc entryMap) string {
	t, _ := doc["type"].(string)
	return t
}

func idOf(doc entryMap) string {
	if id, ok := doc["id"].(string); ok {
		return id
	}
	if name, ok := doc["name"].(string); ok {
		return name
	}
	return ""
}

// merge overlays entry onto the existing entry with the same id, field by
// field.
func merge(byID map[string]entryMap, id string, entry entryMap) {
	existing, ok := byID[id]
	if !ok {
		byID[id] = entry
		return
	}
	for k, v := range entry {
		existing[k] = v
	}
}

// build assembles accounts and handlers from raw entries into a timeline.
func build(entries map[string]entryMap) (*Timeline, error) {
	var (
		errs     error
		registry = currency.NewRegistry()
		accounts []*account.Account
		handlers []timeline.Handler
		start    = date.NextMonth(date.Today())
	)
	// Sort for deterministic handler insertion order: date ties in the
	// schedule resolve by insertion sequence.
	ids := dict.SortedKeys(entries, compare.Ordered[string])
	for _, id := range ids {
		raw := entries[id]
		switch typeOf(raw) {
		case "timeline":
			var entry timelineEntry
			if err := decodeStrict(raw, &entry); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("entry %s: %v", id, err))
				continue
			}
			if len(entry.Start) > 0 {
				s, err := date.ParseMonth(entry.Start)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("entry %s: %v", id, err))
					continue
				}
				start = s
			}
		case "account":
			acct, err := buildAccount(raw, registry)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("entry %s: %v", id, err))
				continue
			}
			accounts = append(accounts, acct)
		case "interest", "transfer":
		case "":
			errs = multierr.Append(errs, fmt.Errorf("entry %s: missing type", id))
		default:
			errs = multierr.Append(errs, fmt.Errorf("entry %s: unknown type %q", id, typeOf(raw)))
		}
	}
	// Handlers second, so their default start can follow the timeline's.
	for _, id := range ids {
		raw := entries[id]
		var (
			h   timeline.Handler
			err error
		)
		switch typeOf(raw) {
		case "interest":
			h, err = buildInterest(raw, start)
		case "transfer":
			h, err = buildTransfer(raw, start)
		default:
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %s: %v", id, err))
			continue
		}
		handlers = append(handlers, h)
	}
	if errs != nil {
		return nil, errs
	}

	sched := timeline.NewSchedule()
	for _, h := range handlers {
		if err := sched.Add(h); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return timeline.New(sched, start, accounts)
}

// decodeStrict re-decodes a raw entry into its typed form, rejecting
// unknown fields.
func decodeStrict(raw entryMap, target interface{}) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.SetStrict(true)
	return dec.Decode(target)
}

func buildAccount(raw entryMap, registry *currency.Registry) (*account.Account, error) {
	var entry accountEntry
	if err := decodeStrict(raw, &entry); err != nil {
		return nil, err
	}
	if len(entry.Name) == 0 {
		return nil, fmt.Errorf("account entry without name")
	}
	status := account.Open
	if len(entry.Status) > 0 {
		var err error
		if status, err = account.ParseStatus(entry.Status); err != nil {
			return nil, err
		}
	}
	code := entry.Currency
	if len(code) == 0 {
		code = "USD"
	}
	cur, err := registry.Get(code)
	if err != nil {
		return nil, err
	}
	value := account.NewValue(decimal.NewFromFloat(entry.Amount), status, cur)
	return account.New(entry.Name, value, entry.Categories...)
}

func buildPeriod(spec *periodSpec, start time.Time) (*schedule.Periodic, error) {
	if spec == nil {
		return nil, nil
	}
	n := spec.N
	if n == 0 {
		n = 1
	}
	interval, err := date.ParseInterval(spec.Unit)
	if err != nil {
		return nil, err
	}
	p, err := schedule.NewPeriodic(start, n, interval)
	if err != nil {
		return nil, err
	}
	if len(spec.End) > 0 {
		end, err := date.ParseMonth(spec.End)
		if err != nil {
			return nil, err
		}
		p = p.Until(end)
	}
	return p, nil
}

func buildStart(s string, timelineStart time.Time) (time.Time, error) {
	if len(s) == 0 {
		// Handlers default to the first month after the timeline starts.
		return date.NextMonth(timelineStart), nil
	}
	return date.ParseMonth(s)
}

func buildInterest(raw entryMap, timelineStart time.Time) (timeline.Handler, error) {
	var entry interestEntry
	if err := decodeStrict(raw, &entry); err != nil {
		return nil, err
	}
	if len(entry.Account) == 0 {
		return nil, fmt.Errorf("interest entry without account")
	}
	start, err := buildStart(entry.Start, timelineStart)
	if err != nil {
		return nil, err
	}
	// An unspecified recurrence means monthly: interest keeps accruing.
	spec := entry.Period
	if spec == nil {
		spec = &periodSpec{N: 1, Unit: "month"}
	}
	period, err := buildPeriod(spec, start)
	if err != nil {
		return nil, err
	}
	annual, err := annualRate(entry.Rate)
	if err != nil {
		return nil, err
	}
	return handler.Interest(entry.Account, start, period, annual)
}

// annualRate converts a rate entry (a percentage per period, defaulting to
// yearly) to an annual rate.
func annualRate(spec rateSpec) (float64, error) {
	interval := date.Yearly
	if len(spec.Period) > 0 {
		var err error
		if interval, err = date.ParseInterval(spec.Period); err != nil {
			return 0, err
		}
	}
	return rate.Annualize(spec.Percent/100, interval)
}

func buildTransfer(raw entryMap, timelineStart time.Time) (timeline.Handler, error) {
	var entry transferEntry
	if err := decodeStrict(raw, &entry); err != nil {
		return nil, err
	}
	if len(entry.From) == 0 || len(entry.To) == 0 {
		return nil, fmt.Errorf("transfer entry requires from and to")
	}
	start, err := buildStart(entry.Start, timelineStart)
	if err != nil {
		return nil, err
	}
	period, err := buildPeriod(entry.Period, start)
	if err != nil {
		return nil, err
	}
	var options []handler.TransferOption
	if entry.FromMin != nil {
		options = append(options, handler.WithMinimumBalance(decimal.NewFromFloat(*entry.FromMin)))
	}
	if entry.ToMax != nil {
		options = append(options, handler.WithMaximumBalance(decimal.NewFromFloat(*entry.ToMax)))
	}
	amount := decimal.NewFromFloat(entry.Amount)
	return handler.Transfer(entry.From, entry.To, start, period, amount, options...), nil
}
