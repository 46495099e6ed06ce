package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fundx/pkg/contracts/domain"
)

// Worksheet names of the combined workbook
const (
	SheetCombined         = "Combined"
	SheetReturnByFund     = "ReturnByFund"
	SheetAUMByStrategy    = "AUMByStrategy"
	SheetReturnByStrategy = "ReturnByStrategy"
)

// CombinedHeaders is the header row of the Combined sheet and the CSV report
var CombinedHeaders = []string{
	domain.FieldFundName,
	domain.FieldReturn,
	domain.FieldAUM,
	domain.FieldStrategy,
	domain.FieldNetReturnUSD,
}

// WorkbookWriter writes the combined dataset and its grouped views as an
// xlsx workbook
type WorkbookWriter struct{}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// Write builds the workbook and writes it to w
func (x *WorkbookWriter) Write(w io.Writer, dataset *domain.CombinedDataset) error {
	f, err := x.Build(dataset)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Build assembles the workbook in memory
func (x *WorkbookWriter) Build(dataset *domain.CombinedDataset) (*excelize.File, error) {
	if dataset == nil {
		return nil, ErrNoData
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetCombined); err != nil {
		f.Close()
		return nil, err
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeCombined(f, dataset, styles); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %s: %w", SheetCombined, err)
	}

	views := []struct {
		sheet  string
		header []string
		view   domain.GroupedView
		money  bool
	}{
		{SheetReturnByFund, []string{domain.FieldFundName, "mean_return"}, dataset.ReturnByFund, false},
		{SheetAUMByStrategy, []string{domain.FieldStrategy, "total_aum"}, dataset.AUMByStrategy, true},
		{SheetReturnByStrategy, []string{domain.FieldStrategy, "mean_return"}, dataset.ReturnByStrategy, false},
	}
	for _, v := range views {
		if _, err := f.NewSheet(v.sheet); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeGrouped(f, v.sheet, v.header, v.view, v.money, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", v.sheet, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Display formats for numeric cells. Cells keep the unrounded value.
const (
	moneyNumFmt  = "#,##0.00"
	returnNumFmt = "0.00%"
)

type workbookStyles struct {
	header, money, ret int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	money, ret := moneyNumFmt, returnNumFmt
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return s, err
	}
	if s.ret, err = f.NewStyle(&excelize.Style{CustomNumFmt: &ret}); err != nil {
		return s, err
	}
	return s, nil
}

// styleColumn applies style to rows 2..lastRow of column col
func styleColumn(f *excelize.File, sheet, col string, lastRow, style int) error {
	if lastRow < 2 {
		return nil
	}
	return f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, lastRow), style)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeCombined(f *excelize.File, dataset *domain.CombinedDataset, styles workbookStyles) error {
	if err := writeHeader(f, SheetCombined, CombinedHeaders, styles.header); err != nil {
		return err
	}

	for i, r := range dataset.Records {
		row := i + 2
		values := []interface{}{r.FundName, r.Return, nil, r.Strategy, nil}
		if r.AUM != nil {
			values[2] = *r.AUM
		}
		if r.NetReturnUSD != nil {
			values[4] = *r.NetReturnUSD
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetCombined, cell, v); err != nil {
				return err
			}
		}
	}

	lastRow := len(dataset.Records) + 1
	for col, style := range map[string]int{"B": styles.ret, "C": styles.money, "E": styles.money} {
		if err := styleColumn(f, SheetCombined, col, lastRow, style); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetCombined, "A", "E", 18)
}

func writeGrouped(f *excelize.File, sheet string, header []string, view domain.GroupedView, money bool, styles workbookStyles) error {
	if err := writeHeader(f, sheet, header, styles.header); err != nil {
		return err
	}
	for i, kv := range view {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]interface{}{kv.Key, kv.Value}); err != nil {
			return err
		}
	}

	style := styles.ret
	if money {
		style = styles.money
	}
	if err := styleColumn(f, sheet, "B", len(view)+1, style); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "B", 22)
}
