package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/coursegrid"
	"github.com/poiesic/coursegrid/departments"
	"github.com/poiesic/coursegrid/ingestion"
	"github.com/poiesic/coursegrid/schedule"
	"github.com/poiesic/coursegrid/search"
	"github.com/urfave/cli/v2"
)

const defaultSort = search.SortRelevance

var sortOrders = []search.SortOrder{
	search.SortRelevance,
	search.SortCode,
	search.SortTitle,
	search.SortProfessor,
	search.SortCredits,
}

var (
	errMissingFile = errors.New("catalog file is required")
	errMissingID   = errors.New("at least one section id is required")
)

// withCatalog opens the database and builds the search index for fn.
func withCatalog(c *cli.Context, fn func(ctx context.Context, db *coursegrid.Database, idx *search.Index) error) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	idx, err := db.OpenIndex(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, db, idx)
}

// withSchedule is withCatalog plus the restored schedule engine. When fn
// reports a change the selection is saved afterwards.
func withSchedule(c *cli.Context, fn func(idx *search.Index, engine *schedule.Engine) (bool, error)) error {
	return withCatalog(c, func(ctx context.Context, db *coursegrid.Database, idx *search.Index) error {
		engine, err := db.OpenSchedule(ctx, idx)
		if err != nil {
			return err
		}
		changed, err := fn(idx, engine)
		if err != nil || !changed {
			return err
		}
		return db.SaveSchedule(ctx, engine)
	})
}

func importCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errMissingFile
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := db.NewImporter(
		ingestion.WithForce(c.Bool("force")),
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithReportInterval(c.Int("report-interval")),
		ingestion.WithMaxRetries(c.Int("max-retries")),
		ingestion.WithRetryDelay(c.Duration("retry-delay")),
		ingestion.WithProgressWriter(c.App.ErrWriter),
	)
	if err != nil {
		return err
	}
	defer importer.Release()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := importer.Import(ctx, path)
	if err != nil {
		return err
	}
	return writeJSON(c, result)
}

type searchOutput struct {
	Query   string `json:"query"`
	Total   int    `json:"total"`
	Results any    `json:"results"`
}

func searchCommand(c *cli.Context) error {
	sortBy := search.SortOrder(c.String("sort"))
	if !slices.Contains(sortOrders, sortBy) {
		return fmt.Errorf("invalid sort %q: must be one of %v", sortBy, sortOrders)
	}

	query := c.Args().First()
	filters := search.Filters{
		Subjects: c.StringSlice("subject"),
		Terms:    c.StringSlice("term"),
		Hubs:     c.StringSlice("hub"),
		Colleges: c.StringSlice("college"),
		Statuses: c.StringSlice("status"),
	}

	return withCatalog(c, func(_ context.Context, db *coursegrid.Database, idx *search.Index) error {
		if c.Bool("resolve-dept") {
			query, filters = idx.ResolveQuery(query, filters)
		}
		limit := db.Config().ClampLimit(c.Int("limit"))

		if c.Bool("flat") {
			results := idx.Search(query, filters, sortBy, limit)
			return writeJSON(c, searchOutput{Query: query, Total: len(results), Results: results})
		}
		groups, total := idx.SearchGrouped(query, filters, sortBy, limit, c.Int("offset"))
		return writeJSON(c, searchOutput{Query: query, Total: total, Results: groups})
	})
}

func showCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errMissingID
	}
	return withCatalog(c, func(_ context.Context, _ *coursegrid.Database, idx *search.Index) error {
		section, ok := idx.Get(id)
		if !ok {
			return fmt.Errorf("section %q not found", id)
		}
		return writeJSON(c, section)
	})
}

type subject struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func subjectsCommand(c *cli.Context) error {
	if match := c.String("match"); match != "" {
		return writeJSON(c, map[string][]string{"suggestions": nonNil(departments.Suggest(match, 10))})
	}
	return withCatalog(c, func(_ context.Context, _ *coursegrid.Database, idx *search.Index) error {
		codes := idx.Subjects()
		subjects := make([]subject, len(codes))
		for i, code := range codes {
			subjects[i] = subject{Code: code, Name: departments.Name(code)}
		}
		return writeJSON(c, map[string][]subject{"subjects": subjects})
	})
}

func termsCommand(c *cli.Context) error {
	return withCatalog(c, func(_ context.Context, _ *coursegrid.Database, idx *search.Index) error {
		return writeJSON(c, map[string][]string{"terms": nonNil(idx.Terms())})
	})
}

func hubsCommand(c *cli.Context) error {
	return withCatalog(c, func(_ context.Context, _ *coursegrid.Database, idx *search.Index) error {
		return writeJSON(c, map[string][]string{"hub_units": nonNil(idx.HubUnits())})
	})
}

func validateCommand(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return errMissingID
	}
	return withCatalog(c, func(_ context.Context, _ *coursegrid.Database, idx *search.Index) error {
		return writeJSON(c, schedule.Validate(idx, ids))
	})
}

func scheduleShowCommand(c *cli.Context) error {
	return withSchedule(c, func(_ *search.Index, engine *schedule.Engine) (bool, error) {
		if c.Bool("csv") {
			return false, schedule.WriteEventsCSV(c.App.Writer, engine.Events())
		}
		return false, writeJSON(c, engine.Export())
	})
}

type addOutput struct {
	Added     string                     `json:"added"`
	Conflicts []schedule.ConflictSummary `json:"conflicts"`
}

func scheduleAddCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errMissingID
	}
	return withSchedule(c, func(idx *search.Index, engine *schedule.Engine) (bool, error) {
		section, ok := idx.Get(id)
		if !ok {
			return false, fmt.Errorf("section %q not found", id)
		}
		conflicts := engine.AddCourse(section)
		return true, writeJSON(c, addOutput{Added: id, Conflicts: schedule.SummarizeConflicts(conflicts)})
	})
}

func scheduleRemoveCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errMissingID
	}
	return withSchedule(c, func(_ *search.Index, engine *schedule.Engine) (bool, error) {
		removed := engine.RemoveCourse(id)
		return removed, writeJSON(c, map[string]any{"removed": removed, "id": id})
	})
}

func scheduleClearCommand(c *cli.Context) error {
	return withSchedule(c, func(_ *search.Index, engine *schedule.Engine) (bool, error) {
		engine.Clear()
		return true, writeJSON(c, map[string]int{"course_count": 0})
	})
}

func scheduleSetCommand(c *cli.Context) error {
	ids := c.Args().Slice()
	return withSchedule(c, func(idx *search.Index, engine *schedule.Engine) (bool, error) {
		conflicts := engine.Set(idx, ids)
		return true, writeJSON(c, struct {
			IDs       []string                   `json:"ids"`
			Conflicts []schedule.ConflictSummary `json:"conflicts"`
		}{IDs: nonNil(engine.IDs()), Conflicts: schedule.SummarizeConflicts(conflicts)})
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
