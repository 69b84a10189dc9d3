package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"palmviz/internal/domain"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// GroupBy selects the report's grouping dimension.
type GroupBy string

const (
	GroupByCountry GroupBy = "country"
	GroupByRegion  GroupBy = "region"
	GroupByPerson  GroupBy = "person"
)

// ParseGroupBy validates a grouping selector from the request path.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case GroupByCountry, GroupByRegion, GroupByPerson:
		return GroupBy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown grouping %q", domain.ErrValidation, s)
	}
}

// Aggregator builds chart-ready reports from the synchronized store.
// It only reads; it never calls the remote API.
type Aggregator struct {
	repo   repositories.ReportRepository
	cfg    *Config
	logger *slog.Logger
}

// NewAggregator creates a report aggregator.
func NewAggregator(repo repositories.ReportRepository, cfg *Config, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// BuildReport computes per-group counts for every category and pivots
// them into sorted labels plus positionally aligned series. Groups with
// zero counts in every category are omitted; groups present in at least
// one category get zeros filled in elsewhere.
func (a *Aggregator) BuildReport(ctx context.Context, groupBy GroupBy, dr models.DateRange) (*models.Report, error) {
	switch groupBy {
	case GroupByCountry:
		return a.buildFolderReport(ctx, a.cfg.CountriesFolderID, dr)
	case GroupByRegion:
		return a.buildFolderReport(ctx, a.cfg.RegionsFolderID, dr)
	case GroupByPerson:
		return a.buildPersonReport(ctx, dr)
	default:
		return nil, fmt.Errorf("%w: unknown grouping %q", domain.ErrValidation, groupBy)
	}
}

// buildFolderReport groups by the children of a root folder (countries
// or regions). Category membership is counted under each group folder,
// directly or through any chain of intermediate folders.
func (a *Aggregator) buildFolderReport(ctx context.Context, rootID string, dr models.DateRange) (*models.Report, error) {
	groups, err := a.repo.ChildFolders(ctx, rootID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int)
	for _, group := range groups {
		n, err := a.repo.CountTasksUnder(ctx, a.cfg.TechSupport.FolderIDs(), group.ID, dr)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			a.add(counts, group.Title, a.cfg.TechSupport.Key, n)
		}

		for _, cat := range a.cfg.ProjectCategories {
			n, err := a.repo.CountProjectsUnder(ctx, cat.FolderIDs(), group.ID, dr)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				a.add(counts, group.Title, cat.Key, n)
			}
		}
	}

	return a.assemble(counts), nil
}

// buildPersonReport groups by contact: tech-support tasks per assignee,
// project categories per owning contact.
func (a *Aggregator) buildPersonReport(ctx context.Context, dr models.DateRange) (*models.Report, error) {
	counts := make(map[string]map[string]int)

	rows, err := a.repo.TaskCountsByAssignee(ctx, a.cfg.TechSupport.FolderIDs(), dr)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		a.add(counts, row.Label, a.cfg.TechSupport.Key, row.Count)
	}

	for _, cat := range a.cfg.ProjectCategories {
		rows, err := a.repo.ProjectCountsByAssignee(ctx, cat.FolderIDs(), dr)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			a.add(counts, row.Label, cat.Key, row.Count)
		}
	}

	return a.assemble(counts), nil
}

func (a *Aggregator) add(counts map[string]map[string]int, label, key string, n int) {
	if n == 0 {
		return
	}
	if counts[label] == nil {
		counts[label] = make(map[string]int)
	}
	counts[label][key] += n
}

// assemble pivots the label→category count map into the chart shape:
// labels sorted ascending, one series per category with Data[i]
// matching Labels[i].
func (a *Aggregator) assemble(counts map[string]map[string]int) *models.Report {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	categories := append([]Category{a.cfg.TechSupport}, a.cfg.ProjectCategories...)
	series := make([]models.Series, 0, len(categories))
	for _, cat := range categories {
		data := make([]int, len(labels))
		for i, label := range labels {
			data[i] = counts[label][cat.Key]
		}
		series = append(series, models.Series{Name: cat.Name, Data: data})
	}

	return &models.Report{Labels: labels, Series: series}
}
