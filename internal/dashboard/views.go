package dashboard

import (
	"context"
	"strings"

	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/salesboard/salesboard/internal/render"
	"github.com/shopspring/decimal"
)

// Overview builds the global tab: counts, rankings and seasonality.
func (s *Service) Overview(ctx context.Context) (*OverviewView, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	n := s.settings.TopN

	meta := t.Metadata()
	view := &OverviewView{
		Load: LoadInfo{
			LoadID:   meta.LoadID,
			LoadedAt: meta.LoadedAt,
			Rows:     t.Len(),
			Sources:  meta.RowCounts,
		},
		KPIs: []Metric{
			s.count("Total stores", coreagg.DistinctCount(t, sales.ColStoreNbr)),
			s.count("Product families", coreagg.DistinctCount(t, sales.ColFamily)),
			s.count("States", coreagg.DistinctCount(t, sales.ColState)),
			s.count("Months with data", coreagg.DistinctCount(t, sales.ColMonth)),
		},
		TopFamilies: Series{
			Title:  "Top families by sales",
			Kind:   render.KindBar,
			XLabel: "Family",
			YLabel: "Total sales",
			Points: coreagg.TopNBySum(t, sales.ColFamily, sales.ColSales, n, nil),
		},
		StoreSalesDistribution: coreagg.Histogram(
			coreagg.SumBy(t, sales.ColStoreNbr, sales.ColSales, nil),
			s.settings.HistogramBins,
		),
		TopPromoStores: Series{
			Title:  "Top stores by promoted sales",
			Kind:   render.KindBar,
			XLabel: "Store",
			YLabel: "Promoted sales",
			Points: coreagg.TopNBySum(t, sales.ColStoreNbr, sales.ColSales, n, sales.Promoted),
		},
		WeekdayMeans: Series{
			Title:  "Mean sales by day of week",
			Kind:   render.KindBar,
			XLabel: "Day",
			YLabel: "Mean sales",
			Points: coreagg.SortByOrder(coreagg.MeanBy(t, sales.ColDayOfWeek, sales.ColSales), s.settings.WeekdayOrder),
		},
		WeekMeans: Series{
			Title:  "Mean sales by week of year",
			Kind:   render.KindLine,
			XLabel: "Week",
			YLabel: "Mean sales",
			Points: coreagg.SortByKey(coreagg.MeanBy(t, sales.ColWeek, sales.ColSales)),
		},
		MonthMeans: Series{
			Title:  "Mean sales by month",
			Kind:   render.KindBar,
			XLabel: "Month",
			YLabel: "Mean sales",
			Points: coreagg.SortByKey(coreagg.MeanBy(t, sales.ColMonth, sales.ColSales)),
		},
	}
	return view, nil
}

// Store builds the per-store tab. An unknown store yields an empty view.
func (s *Service) Store(ctx context.Context, storeNbr string) (*StoreView, error) {
	storeNbr, err := parseStoreNbr(storeNbr)
	if err != nil {
		return nil, err
	}
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	store := t.Where(sales.ColStoreNbr, storeNbr)

	total := coreagg.Total(store, sales.ColSales, nil)
	promoted := coreagg.Total(store, sales.ColSales, sales.Promoted)

	return &StoreView{
		StoreNbr: storeNbr,
		Rows:     store.Len(),
		SalesByYear: Series{
			Title:  "Total sales by year, store " + storeNbr,
			Kind:   render.KindBar,
			XLabel: "Year",
			YLabel: "Total sales",
			Points: coreagg.SumByYear(store, sales.ColSales, nil),
		},
		TotalSales: Metric{
			Label:   "Products sold in store " + storeNbr,
			Value:   total,
			Display: s.format.Integer(total),
		},
		PromotedSales: Metric{
			Label:   "Promoted products sold in store " + storeNbr,
			Value:   promoted,
			Display: s.format.Integer(promoted),
		},
	}, nil
}

// State builds the per-state tab. An unknown state yields an empty view.
func (s *Service) State(ctx context.Context, state string) (*StateView, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, invalidQueryf("state is required")
	}
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	region := t.Where(sales.ColState, state)
	n := s.settings.TopN

	ranking := coreagg.RankedTop(region, sales.ColFamily, sales.ColSales, nil)
	top := Headline{Found: ranking.Found, Value: decimal.Zero}
	if ranking.Found {
		top.Key = ranking.Top.Key
		top.Value = ranking.Top.Value
		top.Display = s.format.Fixed(ranking.Top.Value) + " sales"
	}

	return &StateView{
		State: state,
		Rows:  region.Len(),
		TransactionsByYear: Series{
			Title:  "Total transactions by year, " + state,
			Kind:   render.KindBar,
			XLabel: "Year",
			YLabel: "Transactions",
			Points: coreagg.SumByYear(region, sales.ColTransactions, nil),
		},
		TopStores: Series{
			Title:  "Top stores by sales, " + state,
			Kind:   render.KindBar,
			XLabel: "Store",
			YLabel: "Total sales",
			Points: coreagg.TopNBySum(region, sales.ColStoreNbr, sales.ColSales, n, nil),
		},
		TopFamily: top,
		TopFamilies: Series{
			Title:  "Top families by sales, " + state,
			Kind:   render.KindBar,
			XLabel: "Family",
			YLabel: "Total sales",
			Points: ranking.Head(n),
		},
	}, nil
}

// Insights builds the advanced tab: business KPIs, heatmap and store types.
func (s *Service) Insights(ctx context.Context) (*InsightsView, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	total := coreagg.Total(t, sales.ColSales, nil)
	share := coreagg.PercentageOfTotal(t, sales.Promoted, sales.ColSales)
	delta := coreagg.YearOverYearDelta(t, sales.ColSales)
	years := coreagg.DistinctCount(t, sales.ColYear)

	return &InsightsView{
		TotalSales: Metric{
			Label:   "Total sales",
			Value:   total,
			Display: s.format.Currency(total),
		},
		PromoShare: Metric{
			Label:   "Share of sales on promotion",
			Value:   share,
			Display: s.format.Percent(share),
		},
		PromoShareDefined: !total.IsZero(),
		YearOverYear: Metric{
			Label:   "Change versus previous year",
			Value:   delta,
			Display: s.format.Currency(delta),
		},
		YearOverYearDefined: years >= 2,
		Heatmap:             coreagg.TwoDimensionalMean(t, sales.ColDayOfWeek, sales.ColMonth, sales.ColSales, s.settings.WeekdayOrder),
		StoreTypeContribution: Series{
			Title:  "Share of sales by store type",
			Kind:   render.KindPie,
			XLabel: "Store type",
			YLabel: "Total sales",
			Points: coreagg.SortByValueDesc(coreagg.SumBy(t, sales.ColStoreType, sales.ColSales, nil)),
		},
		StoreTypeDistribution: coreagg.BoxStatsBy(t, sales.ColStoreType, sales.ColSales),
	}, nil
}

func (s *Service) count(label string, n int) Metric {
	return Metric{Label: label, Value: decimal.NewFromInt(int64(n)), Display: s.format.Count(n)}
}
