package container

import (
	"context"
	"fmt"
	"strings"

	"hrdash/adapters/excel"
	"hrdash/adapters/jsonsource"
	"hrdash/adapters/sqldb"
	"hrdash/app"
	"hrdash/domain/dataset"
	"hrdash/internal"
	"hrdash/internal/catalog"
	"hrdash/internal/config"
	datastore "hrdash/internal/dataset"
	"hrdash/internal/errors"
	"hrdash/internal/testkit"
	"hrdash/internal/views"
	"hrdash/internal/watch"
	"hrdash/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Data
	Schema *dataset.Schema
	Source ports.TableSource
	Store  *datastore.Store

	// Dashboard
	Catalog   *catalog.Catalog
	Builder   *views.Builder
	Dashboard *app.DashboardService

	// Optional file watcher, set when DATA_WATCH is on
	Watcher *watch.FileWatcher
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Container{Config: cfg, Logger: logger}, nil
}

// Init builds the source, loads the first snapshot and checks the catalog
// against it. A dashboard that cannot load its data does not start.
func (c *Container) Init(ctx context.Context) error {
	if !c.Config.Data.InferSchema {
		c.Schema = dataset.EmployeeSchema()
	}

	if c.Config.Data.Source() == config.SourceSQL {
		loadCtx, cancel := context.WithTimeout(ctx, c.Config.Data.LoadTimeout)
		db, err := sqldb.Connect(loadCtx, c.Config.Data.SQLDriver, c.Config.Data.SQLURL)
		cancel()
		if err != nil {
			return err
		}
		c.DB = db
	}

	source, err := NewSource(c.Config.Data, c.Schema, c.DB, c.Logger)
	if err != nil {
		return err
	}
	c.Source = source
	c.Store = datastore.NewStore(source, c.Logger)

	if err := c.initCatalog(); err != nil {
		return err
	}
	c.Builder = views.NewBuilder(views.Config{DefaultBins: c.Config.Views.DefaultBins})
	c.Dashboard = app.NewDashboardService(c.Store, c.Catalog, c.Builder, c.Config.Views.Parallelism, c.Logger)

	loadCtx, cancel := context.WithTimeout(ctx, c.Config.Data.LoadTimeout)
	defer cancel()
	snap, err := c.Store.Load(loadCtx)
	if err != nil {
		return errors.Wrap(err, "initial data load failed")
	}
	if err := c.Catalog.Validate(snap.Table.Schema()); err != nil {
		return err
	}

	c.Logger.Info("container initialized: source %s, %d rows, %d charts", source.Name(), snap.Table.Len(), len(c.Catalog.Charts()))
	return nil
}

func (c *Container) initCatalog() error {
	if c.Config.Catalog.File == "" {
		c.Catalog = catalog.Default()
		return nil
	}
	cat, err := catalog.Load(c.Config.Catalog.File)
	if err != nil {
		return err
	}
	c.Catalog = cat
	c.Logger.Info("catalog loaded from %s", c.Config.Catalog.File)
	return nil
}

// StartWatcher starts reloading on data file changes when DATA_WATCH is on
func (c *Container) StartWatcher(ctx context.Context) error {
	if !c.Config.Data.Watch {
		return nil
	}
	reload := func(ctx context.Context) error {
		_, err := c.Dashboard.Reload(ctx)
		return err
	}
	w, err := watch.NewFileWatcher(c.Config.Data.File, reload, c.Config.Data.WatchDebounce, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	c.Watcher = w
	return nil
}

// NewSource picks the table source the data settings describe. schema may be
// nil to infer every column; db is only used for SQL sources.
func NewSource(data config.DataConfig, schema *dataset.Schema, db *sqlx.DB, logger *internal.Logger) (ports.TableSource, error) {
	switch data.Source() {
	case config.SourceSQL:
		if db == nil {
			return nil, errors.ConfigInvalid("SQL source needs an open database")
		}
		return sqldb.New(db, data.SQLQuery, data.SQLDriver+":"+redact(data.SQLURL), schema, logger), nil
	case config.SourceJSON:
		return jsonsource.New(jsonsource.Config{
			Location: data.File,
			DataPath: data.JSONPath,
			Timeout:  data.LoadTimeout,
		}, schema, logger), nil
	case config.SourceFile:
		cfg := excel.DefaultExcelConfig(data.File)
		cfg.Format = data.Format
		cfg.Sheet = data.Sheet
		return excel.NewFileSource(cfg, schema, logger), nil
	default:
		gen := testkit.DefaultEmployeeConfig()
		gen.Rows = data.SyntheticRows
		gen.Seed = data.SyntheticSeed
		logger.Warn("no DATA_FILE or DATA_SQL_URL set, serving %d synthetic employees", gen.Rows)
		return testkit.NewSyntheticSource(gen), nil
	}
}

// redact drops credentials and query parameters from a connection URL
func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			url = url[:j+3] + url[i+1:]
		} else {
			url = url[i+1:]
		}
	}
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	return url
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Watcher != nil {
		c.Watcher.Stop()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
