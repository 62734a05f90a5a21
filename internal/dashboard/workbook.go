package dashboard

import (
	"context"

	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	"github.com/salesboard/salesboard/internal/export"
)

// Workbook collects the global tabs into spreadsheet sheets.
func (s *Service) Workbook(ctx context.Context) ([]export.Sheet, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	insights, err := s.Insights(ctx)
	if err != nil {
		return nil, err
	}

	kpis := export.Sheet{Name: "Overview", Header: []string{"metric", "value"}}
	for _, m := range append(overview.KPIs, insights.TotalSales, insights.PromoShare, insights.YearOverYear) {
		kpis.Rows = append(kpis.Rows, []interface{}{m.Label, m.Value.InexactFloat64()})
	}

	heatmap := export.Sheet{Name: "Heatmap", Header: []string{"day_of_week", "month", "mean_sales"}}
	for _, c := range insights.Heatmap {
		heatmap.Rows = append(heatmap.Rows, []interface{}{c.Row, c.Col, c.Value.InexactFloat64()})
	}

	return []export.Sheet{
		kpis,
		seriesSheet("Top families", "family", overview.TopFamilies.Points),
		seriesSheet("Top promo stores", "store_nbr", overview.TopPromoStores.Points),
		seriesSheet("Weekday means", "day_of_week", overview.WeekdayMeans.Points),
		seriesSheet("Week means", "week", overview.WeekMeans.Points),
		seriesSheet("Month means", "month", overview.MonthMeans.Points),
		seriesSheet("Store types", "store_type", insights.StoreTypeContribution.Points),
		heatmap,
	}, nil
}

func seriesSheet(name, key string, rows []coreagg.KeyValue) export.Sheet {
	sheet := export.Sheet{Name: name, Header: []string{key, "value"}}
	for _, r := range rows {
		var value interface{} = r.Value.InexactFloat64()
		if r.Null {
			value = nil // blank cell
		}
		sheet.Rows = append(sheet.Rows, []interface{}{r.Key, value})
	}
	return sheet
}
