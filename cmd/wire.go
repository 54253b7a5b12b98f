package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/actual-mcp/internal/adapters/actual"
	sqlitejournal "github.com/bnema/actual-mcp/internal/adapters/journal/sqlite"
	mcpadapter "github.com/bnema/actual-mcp/internal/adapters/mcp"
	"github.com/bnema/actual-mcp/internal/adapters/reference"
	tomlrepo "github.com/bnema/actual-mcp/internal/adapters/repo/toml"
	chainstore "github.com/bnema/actual-mcp/internal/adapters/secrets/chain"
	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/config"
	"github.com/bnema/actual-mcp/internal/log"
	"github.com/bnema/actual-mcp/internal/ports"
	"github.com/bnema/actual-mcp/internal/telemetry"
	"github.com/bnema/actual-mcp/internal/version"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	cfg         config.Config
	logger      log.Logger
	secretStore ports.SecretStore
	manifest    *tomlrepo.ManifestRepository
	client      *actual.Client
	session     *application.Session
	invoker     *application.Invoker
	catalog     *application.MethodCatalog
	rules       *application.RulesService
	queries     *application.QueryService
	schema      *reference.Library
	journal     *sqlitejournal.Store
	telemetry   *telemetry.Provider
}

// wireApp builds the object graph. It does not touch the network; the client
// logs in lazily on the first call that needs the server.
func wireApp(ctx context.Context, v *viper.Viper) (*app, error) {
	bootstrap, err := config.Load(ctx, v, nil)
	if err != nil {
		return nil, err
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(bootstrap.SecretsDir(), bootstrap.PassDir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	cfg, err := config.Load(ctx, v, secretStore)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = log.LevelDebug
	}
	log.SetLevel(level)
	logger := log.Default

	a := &app{cfg: cfg, logger: logger, secretStore: secretStore}

	a.manifest, err = tomlrepo.NewManifestRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire manifest repository: %w", err)
	}
	descriptors, err := a.manifest.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest from %s: %w", a.manifest.Source(), err)
	}

	a.schema, err = reference.Load()
	if err != nil {
		return nil, fmt.Errorf("load query reference: %w", err)
	}

	a.telemetry, err = telemetry.Setup(ctx, telemetry.Options{
		Endpoint: cfg.OTel.Endpoint,
		Insecure: cfg.OTel.Insecure,
		Version:  version.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("wire telemetry: %w", err)
	}

	a.client = actual.NewClient(actual.Options{
		Timeout:        cfg.RequestTimeout,
		Logger:         logger,
		TracerProvider: a.telemetry.TracerProvider(),
	})

	registry, err := application.NewRegistry(descriptors, a.client)
	if err != nil {
		_ = a.telemetry.Shutdown(ctx)
		return nil, fmt.Errorf("wire method registry: %w", err)
	}

	recorderOpts := application.RecorderOptions{
		Observer: a.telemetry.Observer(),
		Logger:   logger,
	}
	if cfg.Journal.Enabled {
		a.journal, err = sqlitejournal.Open(cfg.Journal.Path)
		if err != nil {
			_ = a.telemetry.Shutdown(ctx)
			return nil, fmt.Errorf("wire call journal: %w", err)
		}
		recorderOpts.Journal = a.journal
	}

	loader := application.NewLoader(a.client, logger)
	a.session = application.NewSession(a.client, cfg.InitOptions(), loader, logger)
	recorder := application.NewCallRecorder(a.session, recorderOpts)
	a.invoker = application.NewInvoker(registry, application.NewResolver(registry), a.session, loader, recorder)
	a.catalog = application.NewMethodCatalog(registry)
	a.rules = application.NewRulesService(a.client, a.session, recorder, logger)
	a.queries = application.NewQueryService(a.client, a.session, recorder)

	return a, nil
}

func (a *app) mcpServer() *server.MCPServer {
	return mcpadapter.NewServer(version.Version, mcpadapter.Dependencies{
		Catalog: a.catalog,
		Invoker: a.invoker,
		Queries: a.queries,
		Schema:  a.schema,
		Rules:   a.rules,
	}, mcpadapter.Options{
		Debug:  a.cfg.Debug,
		Logger: a.logger,
	})
}

// requireServer fails with a configuration error when no server is configured.
func (a *app) requireServer() error {
	return a.cfg.Validate()
}

// close releases the client session, the journal and the telemetry exporters.
// It runs on a fresh context so a cancelled command context still flushes.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.session != nil && a.session.Initialized() {
		if err := a.client.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown finance client: %w", err))
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close call journal: %w", err))
		}
	}
	if a.telemetry != nil {
		if counts, err := a.telemetry.Summary(ctx); err == nil && len(counts) > 0 {
			a.logger.Infow("invocation summary", "counts", counts)
		}
		if err := a.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}
	return errors.Join(errs...)
}
