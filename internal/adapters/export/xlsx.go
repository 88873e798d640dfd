package export

import (
	"delivery-time-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook, in order.
const (
	SheetOverview    = "Overview"
	SheetHistograms  = "Histograms"
	SheetWeather     = "Weather"
	SheetTraffic     = "Traffic"
	SheetTimeOfDay   = "TimeOfDay"
	SheetTrend       = "ExperienceTrend"
	SheetCorrelation = "Correlation"
	SheetData        = "Data"
)

// WriteEDA writes the summary tables, plus the raw dataset when df is
// non-empty, as an XLSX workbook to w.
func WriteEDA(w io.Writer, s *domain.EDASummary, df dataframe.DataFrame) error {
	if s == nil {
		return errors.New("export eda: summary is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("export eda: rename sheet: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetOverview, overviewRows(s.Overview)},
		{SheetHistograms, histogramRows(s.DeliveryTime, s.Distance, s.PreparationTime)},
		{SheetWeather, boxRows(domain.ColWeather, s.ByWeather)},
		{SheetTraffic, boxRows(domain.ColTrafficLevel, s.ByTrafficLevel)},
		{SheetTimeOfDay, meanRows(s.ByTimeOfDay)},
		{SheetTrend, trendRows(s.ExperienceTrend)},
		{SheetCorrelation, correlationRows(s.Correlation)},
	}
	if df.Nrow() > 0 {
		sheets = append(sheets, struct {
			name string
			rows [][]any
		}{SheetData, frameRows(df)})
	}

	for _, sh := range sheets {
		if sh.name != SheetOverview {
			if _, err := f.NewSheet(sh.name); err != nil {
				return fmt.Errorf("export eda: new sheet %s: %w", sh.name, err)
			}
		}
		if err := writeRows(f, sh.name, sh.rows); err != nil {
			return fmt.Errorf("export eda: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export eda: write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, val := range row {
			// Undefined statistics (NaN, Inf) stay empty.
			if v, ok := val.(float64); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func overviewRows(o domain.DatasetOverview) [][]any {
	rows := [][]any{
		{"rows", o.Rows},
		{"columns", o.Columns},
		{},
	}
	header := make([]any, len(o.Names))
	for i, n := range o.Names {
		header[i] = n
	}
	rows = append(rows, header)
	for _, rec := range o.Head {
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows
}

func histogramRows(hs ...domain.Histogram) [][]any {
	rows := [][]any{{"column", "lo", "hi", "count"}}
	for _, h := range hs {
		for _, b := range h.Bins {
			rows = append(rows, []any{h.Column, b.Lo, b.Hi, b.Count})
		}
	}
	return rows
}

func boxRows(group string, boxes []domain.BoxStats) [][]any {
	rows := [][]any{{group, "count", "min", "q1", "median", "q3", "max", "mean"}}
	for _, b := range boxes {
		rows = append(rows, []any{b.Category, b.Count, b.Min, b.Q1, b.Median, b.Q3, b.Max, b.Mean})
	}
	return rows
}

func meanRows(groups []domain.GroupMean) [][]any {
	rows := [][]any{{domain.ColTimeOfDay, "count", "mean_" + domain.ColDeliveryTimeMin}}
	for _, g := range groups {
		rows = append(rows, []any{g.Category, g.Count, g.Mean})
	}
	return rows
}

func trendRows(t domain.Trendline) [][]any {
	return [][]any{
		{"x", t.X},
		{"y", t.Y},
		{"n", t.N},
		{"intercept", t.Intercept},
		{"slope", t.Slope},
		{"r_squared", t.RSquared},
	}
}

func correlationRows(m domain.CorrelationMatrix) [][]any {
	header := []any{""}
	for _, c := range m.Columns {
		header = append(header, c)
	}
	rows := [][]any{header}
	for i, c := range m.Columns {
		row := []any{c}
		for _, v := range m.Values[i] {
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows
}

func frameRows(df dataframe.DataFrame) [][]any {
	names := df.Names()
	header := make([]any, len(names))
	for i, n := range names {
		header[i] = n
	}

	rows := [][]any{header}
	for r := 0; r < df.Nrow(); r++ {
		row := make([]any, len(names))
		for c, name := range names {
			row[c] = df.Col(name).Val(r)
		}
		rows = append(rows, row)
	}
	return rows
}
