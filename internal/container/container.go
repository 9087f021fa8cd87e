// Package container provides dependency injection for the momo-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"mmony/momo-csv/internal/advisor"
	"mmony/momo-csv/internal/archiveparser"
	"mmony/momo-csv/internal/batch"
	"mmony/momo-csv/internal/classifier"
	"mmony/momo-csv/internal/common"
	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/engine"
	"mmony/momo-csv/internal/extractor"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/persist"
	"mmony/momo-csv/internal/report"
	"mmony/momo-csv/internal/store"
)

// ErrAIDisabled is returned by Advisor when ai.enabled is false.
var ErrAIDisabled = errors.New("AI advice is disabled (set ai.enabled and GEMINI_API_KEY)")

// Container holds all application dependencies and provides methods to access them.
//
// The pipeline components are built eagerly and are immutable after creation.
// The database connection and the Gemini client are opened on first use,
// since most commands need neither.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	classifier *classifier.Classifier
	engine     *engine.Engine
	loader     *archiveparser.Loader
	csvStore   *common.CSVStore
	reports    *report.Generator
	aggregator *batch.Aggregator

	mu      sync.Mutex
	db      *sql.DB
	persist *persist.Service
	gemini  *advisor.GeminiClient
	advisor *advisor.Advisor
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	cls, err := newClassifier(cfg, logger)
	if err != nil {
		return nil, err
	}

	ext := extractor.New(logger)
	eng := engine.New(cls, ext, logger, engine.Options{
		Workers:             cfg.Engine.Workers,
		SequentialThreshold: cfg.Engine.SequentialThreshold,
	})
	loader := archiveparser.New(logger)

	delimiter := ','
	if cfg.CSV.Delimiter != "" {
		delimiter = cfg.Delimiter()
	}

	c := &Container{
		logger:     logger,
		config:     cfg,
		classifier: cls,
		engine:     eng,
		loader:     loader,
		csvStore:   common.NewCSVStore(delimiter, logger),
		reports:    report.NewGenerator(logger),
		aggregator: batch.NewAggregator(loader, eng, logger),
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldCount, len(cls.Rules())),
		logging.F("ai_enabled", cfg.AI.Enabled))

	return c, nil
}

// newClassifier uses the built-in rule table unless rules.file names a
// replacement.
func newClassifier(cfg *config.Config, logger logging.Logger) (*classifier.Classifier, error) {
	if cfg.Rules.File == "" {
		return classifier.New(logger), nil
	}

	path, err := classifier.FindRulesFile(cfg.Rules.File)
	if err != nil {
		return nil, fmt.Errorf("rules file %s not found: %w", cfg.Rules.File, err)
	}
	rules, err := classifier.LoadRules(path)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded classification rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(rules)))
	return classifier.NewWithRules(rules, logger), nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClassifier returns the classifier shared by every run.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetEngine returns the pipeline engine.
func (c *Container) GetEngine() *engine.Engine {
	return c.engine
}

// GetLoader returns the archive loader.
func (c *Container) GetLoader() *archiveparser.Loader {
	return c.loader
}

// GetCSVStore returns the CSV reader/writer configured with csv.delimiter.
func (c *Container) GetCSVStore() *common.CSVStore {
	return c.csvStore
}

// GetReportGenerator returns the JSON/YAML report writer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// GetAggregator returns the multi-archive aggregator.
func (c *Container) GetAggregator() *batch.Aggregator {
	return c.aggregator
}

// GetPersistService connects to the configured database on first call.
func (c *Container) GetPersistService(ctx context.Context) (*persist.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.persist != nil {
		return c.persist, nil
	}

	db, err := store.Open(ctx, c.config.Database.DSN)
	if err != nil {
		return nil, err
	}
	c.db = db
	c.persist = persist.NewService(store.New(db), c.logger)
	return c.persist, nil
}

// GetAdvisor creates the Gemini-backed advisor on first call. It fails with
// ErrAIDisabled unless AI is enabled in the configuration.
func (c *Container) GetAdvisor(ctx context.Context) (*advisor.Advisor, error) {
	if !c.config.AI.Enabled {
		return nil, ErrAIDisabled
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.advisor != nil {
		return c.advisor, nil
	}

	client, err := advisor.NewGeminiClient(ctx, advisor.GeminiOptions{
		APIKey:            c.config.AI.APIKey,
		Model:             c.config.AI.Model,
		RequestsPerMinute: c.config.AI.RequestsPerMinute,
		Timeout:           time.Duration(c.config.AI.TimeoutSeconds) * time.Second,
	}, c.logger)
	if err != nil {
		return nil, err
	}

	c.gemini = client
	c.advisor = advisor.New(client, c.logger)
	return c.advisor, nil
}

// Close releases the database connection and the Gemini client if they
// were opened.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.gemini != nil {
		errs = append(errs, c.gemini.Close())
		c.gemini, c.advisor = nil, nil
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
		c.db, c.persist = nil, nil
	}

	c.logger.Debug("Container closed")
	return errors.Join(errs...)
}
