package testutil

import (
	"fundx/pkg/contracts/domain"
)

// SampleReportText is extracted text of a typical fund performance report
const SampleReportText = `Quarterly Fund Performance
Fund Name | Return (%) | AUM | Strategy
---|---|---|---
Alpha Fund | 12.5% | 1000000 | Equity
Beta Fund | -3.25% | 250000.50 | Fixed Income
Gamma Fund | abc | 5000 | Equity
Prepared by operations`

// SampleReportRecords are the records SampleReportText yields
func SampleReportRecords() []domain.FundRecord {
	return []domain.FundRecord{
		{FundName: "Alpha Fund", Return: 0.125, AUM: domain.Float(1000000), Strategy: "Equity"},
		{FundName: "Beta Fund", Return: -0.0325, AUM: domain.Float(250000.50), Strategy: "Fixed Income"},
	}
}

// SampleGrid is a spreadsheet grid with vendor-style headers
func SampleGrid() [][]string {
	return [][]string{
		{"Fund", "Performance", "Net Assets", "Strategy Type", "Manager"},
		{"Delta Fund", "7.5", "1,200,000", "Macro", "J. Doe"},
		{"Epsilon Fund", "-1.25", "", "Equity", "A. Roe"},
	}
}

// SampleGridRecords are the records SampleGrid yields
func SampleGridRecords() []domain.FundRecord {
	return []domain.FundRecord{
		{FundName: "Delta Fund", Return: 0.075, AUM: domain.Float(1200000), Strategy: "Macro"},
		{FundName: "Epsilon Fund", Return: -0.0125, Strategy: "Equity"},
	}
}

// SampleTable wraps SampleGrid in a RawTable
func SampleTable(name string) *domain.RawTable {
	return domain.NewRawTable(name, SampleGrid())
}
