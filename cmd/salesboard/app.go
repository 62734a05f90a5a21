package main

import (
	"fmt"
	"io"
	"log/slog"

	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	corecfg "github.com/salesboard/salesboard/internal/core/config"
	"github.com/salesboard/salesboard/internal/dashboard"
	"github.com/salesboard/salesboard/internal/loader"
	"github.com/salesboard/salesboard/internal/source"
)

// app holds the wired components shared by serve and export.
type app struct {
	sources   []source.Source
	loader    *loader.Loader
	dashboard *dashboard.Service
}

func newApp(cfg *corecfg.Config) (*app, error) {
	sources, err := buildSources(cfg)
	if err != nil {
		return nil, err
	}

	l := loader.New(sources...)
	svc := dashboard.NewService(l, coreagg.NewPanelRepository(cfg.PanelLoading.Panels), dashboard.Settings{
		TopN:          cfg.Dashboard.TopN,
		HistogramBins: cfg.Dashboard.HistogramBins,
		WeekdayOrder:  cfg.Dashboard.WeekdayOrder,
		Currency:      cfg.Dashboard.Currency,
	})

	return &app{sources: sources, loader: l, dashboard: svc}, nil
}

func buildSources(cfg *corecfg.Config) ([]source.Source, error) {
	opts := source.Options{
		RequestTimeout: cfg.Loader.Timeout(),
		MaxTries:       uint(cfg.Loader.MaxRetries),
		MaxBodyBytes:   cfg.Loader.MaxBodyBytes(),
	}

	sources := make([]source.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		src, err := source.New(source.Spec{
			Name:     sc.Name,
			Kind:     sc.Kind,
			Location: sc.Location,
			Table:    sc.Table,
		}, opts)
		if err != nil {
			closeAll(sources)
			return nil, fmt.Errorf("failed to build source %s: %w", sc.Name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Close releases SQL connections held by sources.
func (a *app) Close() {
	closeAll(a.sources)
}

func closeAll(sources []source.Source) {
	for _, src := range sources {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("Failed to close source", "source", src.Name(), "error", err)
			}
		}
	}
}
