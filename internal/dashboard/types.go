package dashboard

import (
	"time"

	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	"github.com/shopspring/decimal"
)

// Metric is a headline number with its display string.
type Metric struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
}

// Series is one chartable result.
type Series struct {
	Title  string             `json:"title"`
	Kind   string             `json:"kind"` // bar | line | pie
	XLabel string             `json:"x_label"`
	YLabel string             `json:"y_label"`
	Points []coreagg.KeyValue `json:"points"`
}

// Headline is the top row of a ranking. Found is false when there is no data.
type Headline struct {
	Found   bool            `json:"found"`
	Key     string          `json:"key,omitempty"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display,omitempty"`
}

// Options lists the values a tab selector accepts.
type Options struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// LoadInfo describes the table a view was computed from.
type LoadInfo struct {
	LoadID   string         `json:"load_id"`
	LoadedAt time.Time      `json:"loaded_at"`
	Rows     int            `json:"rows"`
	Sources  map[string]int `json:"sources"`
}

type OverviewView struct {
	Load                   LoadInfo      `json:"load"`
	KPIs                   []Metric      `json:"kpis"`
	TopFamilies            Series        `json:"top_families"`
	StoreSalesDistribution []coreagg.Bin `json:"store_sales_distribution"`
	TopPromoStores         Series        `json:"top_promo_stores"`
	WeekdayMeans           Series        `json:"weekday_means"`
	WeekMeans              Series        `json:"week_means"`
	MonthMeans             Series        `json:"month_means"`
}

type StoreView struct {
	StoreNbr      string `json:"store_nbr"`
	Rows          int    `json:"rows"`
	SalesByYear   Series `json:"sales_by_year"`
	TotalSales    Metric `json:"total_sales"`
	PromotedSales Metric `json:"promoted_sales"`
}

type StateView struct {
	State              string   `json:"state"`
	Rows               int      `json:"rows"`
	TransactionsByYear Series   `json:"transactions_by_year"`
	TopStores          Series   `json:"top_stores"`
	TopFamily          Headline `json:"top_family"`
	TopFamilies        Series   `json:"top_families"`
}

type InsightsView struct {
	TotalSales            Metric             `json:"total_sales"`
	PromoShare            Metric             `json:"promo_share"`
	PromoShareDefined     bool               `json:"promo_share_defined"`
	YearOverYear          Metric             `json:"year_over_year"`
	YearOverYearDefined   bool               `json:"year_over_year_defined"`
	Heatmap               []coreagg.Cell     `json:"heatmap"`
	StoreTypeContribution Series             `json:"store_type_contribution"`
	StoreTypeDistribution []coreagg.BoxStats `json:"store_type_distribution"`
}

// PanelResult is a configured panel evaluated against the loaded table.
type PanelResult struct {
	Panel    coreagg.Panel      `json:"panel"`
	Selector string             `json:"selector,omitempty"`
	Rows     []coreagg.KeyValue `json:"rows"`
}
