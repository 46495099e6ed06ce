package dataprocessing

import (
	"sort"

	"github.com/montanaflynn/stats"

	"fundx/pkg/contracts/domain"
)

// Aggregate concatenates record sets in the order given, derives each
// record's net monetary return and computes the grouped views.
func Aggregate(sets ...[]domain.FundRecord) *domain.CombinedDataset {
	total := 0
	for _, set := range sets {
		total += len(set)
	}

	ds := &domain.CombinedDataset{Records: make([]domain.CombinedRecord, 0, total)}
	for _, set := range sets {
		for _, r := range set {
			ds.Records = append(ds.Records, domain.CombinedRecord{
				FundRecord:   r,
				NetReturnUSD: r.NetReturnUSD(),
			})
		}
	}

	ds.ReturnByFund = groupBy(ds.Records, byFund, returnOf, mean)
	ds.AUMByStrategy = groupBy(ds.Records, byStrategy, aumOf, sum)
	ds.ReturnByStrategy = groupBy(ds.Records, byStrategy, returnOf, mean)
	ds.NearDuplicateFunds = SimilarNames(ds.ReturnByFund.Keys(), DefaultNameDrift)

	return ds
}

type (
	keyFunc    func(domain.CombinedRecord) string
	valueFunc  func(domain.CombinedRecord) (float64, bool)
	reduceFunc func(stats.Float64Data) float64
)

func byFund(r domain.CombinedRecord) string     { return r.FundName }
func byStrategy(r domain.CombinedRecord) string { return r.Strategy }

func returnOf(r domain.CombinedRecord) (float64, bool) { return r.Return, true }

func aumOf(r domain.CombinedRecord) (float64, bool) {
	if r.AUM == nil {
		return 0, false
	}
	return *r.AUM, true
}

func mean(data stats.Float64Data) float64 {
	v, _ := stats.Mean(data)
	return v
}

func sum(data stats.Float64Data) float64 {
	v, _ := stats.Sum(data)
	return v
}

// groupBy collects values per key and reduces them. Records without a value
// do not create a group. The result is sorted by key.
func groupBy(records []domain.CombinedRecord, key keyFunc, value valueFunc, reduce reduceFunc) domain.GroupedView {
	groups := make(map[string]stats.Float64Data)
	for _, r := range records {
		v, ok := value(r)
		if !ok {
			continue
		}
		k := key(r)
		groups[k] = append(groups[k], v)
	}

	view := make(domain.GroupedView, 0, len(groups))
	for k, data := range groups {
		view = append(view, domain.GroupedValue{Key: k, Value: reduce(data)})
	}
	sort.Slice(view, func(i, j int) bool { return view[i].Key < view[j].Key })
	return view
}
