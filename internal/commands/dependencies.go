package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ledgerlens/statement-pipeline/internal/domain/ocr"
	"github.com/ledgerlens/statement-pipeline/internal/domain/pipeline"
	"github.com/ledgerlens/statement-pipeline/internal/domain/pipeline/repository"
	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
	"github.com/ledgerlens/statement-pipeline/pkg/config"
	"github.com/ledgerlens/statement-pipeline/pkg/db"
	"github.com/ledgerlens/statement-pipeline/pkg/storage"
)

// Dependencies holds everything a command needs to run an import.
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Statements storage.Store
	Repo       *repository.PostgresRepository
	Index      pipeline.ChecksumIndex
	Pipeline   *pipeline.Pipeline

	localIndex *repository.SQLiteIndex
}

// InitDependencies wires the full import stack: database, statement
// cache, OCR engine, parser registry, and the pipeline itself.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := deps.initStorage(); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := deps.initPipeline(); err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}

	logger.Info("all dependencies initialized")
	return deps, nil
}

func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return err
	}

	d.DB = database
	d.Repo = repository.NewPostgresRepository(database.Pool, d.Logger)
	return nil
}

func (d *Dependencies) initStorage() error {
	for _, dir := range []string{d.Config.Dirs.Uploads, d.Config.Dirs.Statements, d.Config.Dirs.Exports} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	store, err := storage.NewLocalStore(d.Config.Dirs.Statements)
	if err != nil {
		return err
	}
	d.Statements = store
	return nil
}

func (d *Dependencies) initPipeline() error {
	// The checksum index lives in Postgres unless a local sqlite path
	// is configured, which keeps dedup state next to the statements.
	d.Index = pipeline.ChecksumIndex(d.Repo)
	if path := d.Config.Pipeline.LocalIndex; path != "" {
		local, err := repository.OpenSQLiteIndex(path)
		if err != nil {
			return err
		}
		d.localIndex = local
		d.Index = local
	}

	engine := ocr.NewExecEngine(d.Config.OCR.PdftotextBin, d.Config.OCR.TesseractBin, d.Logger)
	acquirer := ocr.NewAcquirer(engine, d.Statements, d.Config.OCR.Passes, d.Logger)

	d.Pipeline = pipeline.New(
		pipeline.Config{
			UploadsDir:    d.Config.Dirs.Uploads,
			DefaultSource: d.Config.Pipeline.DefaultSource,
			Workers:       d.Config.Pipeline.Workers,
		},
		acquirer, d.Index, d.Repo, statement.DefaultRegistry(), d.Logger,
	)
	return nil
}

// Close releases the database pool and the local index if one is open.
func (d *Dependencies) Close() {
	if d.localIndex != nil {
		if err := d.localIndex.Close(); err != nil {
			d.Logger.Warn("closing local index failed", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
