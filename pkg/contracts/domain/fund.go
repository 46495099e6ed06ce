package domain

import (
	"fmt"
	"sort"
)

// Canonical field names shared by every source and export.
const (
	FieldFundName     = "fund_name"
	FieldReturn       = "return"
	FieldAUM          = "aum"
	FieldStrategy     = "strategy"
	FieldNetReturnUSD = "net_return_usd"
)

// CanonicalFields lists the canonical schema in export order.
var CanonicalFields = []string{FieldFundName, FieldReturn, FieldAUM, FieldStrategy}

// FundRecord is the canonical unit every document is normalized into.
// Return is fractional (5.25% is stored as 0.0525). AUM is nil when the
// source carries no assets-under-management value.
type FundRecord struct {
	FundName string   `json:"fund_name" validate:"required"`
	Return   float64  `json:"return"`
	AUM      *float64 `json:"aum"`
	Strategy string   `json:"strategy" validate:"required"`
}

// NetReturnUSD returns Return*AUM, or nil when AUM is absent.
func (r FundRecord) NetReturnUSD() *float64 {
	if r.AUM == nil {
		return nil
	}
	v := r.Return * *r.AUM
	return &v
}

// Float returns a pointer to v. Used for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// CombinedRecord is a FundRecord inside a CombinedDataset with its derived
// monetary return.
type CombinedRecord struct {
	FundRecord
	NetReturnUSD *float64 `json:"net_return_usd"`
}

// GroupedValue is one key→value entry of a grouped view.
type GroupedValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// GroupedView is a key→value mapping ordered by key.
type GroupedView []GroupedValue

// Get returns the value stored under key.
func (v GroupedView) Get(key string) (float64, bool) {
	i := sort.Search(len(v), func(i int) bool { return v[i].Key >= key })
	if i < len(v) && v[i].Key == key {
		return v[i].Value, true
	}
	return 0, false
}

// Map returns the view as a plain map, for chart renderers.
func (v GroupedView) Map() map[string]float64 {
	m := make(map[string]float64, len(v))
	for _, kv := range v {
		m[kv.Key] = kv.Value
	}
	return m
}

// Keys returns the view's keys in order.
func (v GroupedView) Keys() []string {
	keys := make([]string, len(v))
	for i, kv := range v {
		keys[i] = kv.Key
	}
	return keys
}

// NamePair is two distinct fund names that look like the same fund.
type NamePair struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Distance int    `json:"distance"`
}

// CombinedDataset is the ordered concatenation of every successfully
// normalized record set, plus the grouped views derived from it.
type CombinedDataset struct {
	Records          []CombinedRecord `json:"records"`
	ReturnByFund     GroupedView      `json:"return_by_fund"`
	AUMByStrategy    GroupedView      `json:"aum_by_strategy"`
	ReturnByStrategy GroupedView      `json:"return_by_strategy"`

	// NearDuplicateFunds flags fund names that differ only slightly.
	// Groups are never merged on this basis.
	NearDuplicateFunds []NamePair `json:"near_duplicate_funds,omitempty"`
}

// Len returns the number of records.
func (d *CombinedDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Tail returns the last n records in dataset order.
func (d *CombinedDataset) Tail(n int) []CombinedRecord {
	if d == nil || n <= 0 {
		return nil
	}
	if n > len(d.Records) {
		n = len(d.Records)
	}
	return d.Records[len(d.Records)-n:]
}

// FundRecords returns the canonical records without derived fields.
func (d *CombinedDataset) FundRecords() []FundRecord {
	if d == nil {
		return nil
	}
	out := make([]FundRecord, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.FundRecord
	}
	return out
}

// LineError is a PDF text line that looked like a table row but could not be
// converted into a FundRecord.
type LineError struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Cause string `json:"cause"`
}

// Error implements the error interface
func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Cause, e.Text)
}
