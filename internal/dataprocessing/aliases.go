package dataprocessing

import "fundx/pkg/contracts/domain"

// AliasSet lists the header variants accepted for one canonical field, in
// priority order.
type AliasSet struct {
	Field    string
	Aliases  []string
	Required bool
}

// DefaultAliases returns the header variants recognised for each canonical
// field.
func DefaultAliases() []AliasSet {
	return []AliasSet{
		{Field: domain.FieldFundName, Aliases: []string{"fund_name", "fund"}, Required: true},
		{Field: domain.FieldReturn, Aliases: []string{"weekly_return_(%)", "weekly_return", "return", "performance"}, Required: true},
		{Field: domain.FieldAUM, Aliases: []string{"aum", "aum_(m_usd)", "net_assets", "assets"}},
		{Field: domain.FieldStrategy, Aliases: []string{"strategy", "strat", "approach"}, Required: true},
	}
}
