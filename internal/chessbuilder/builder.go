package chessbuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/archive"
	corechess "github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/chess/openingbook"
	"github.com/park285/cheese-desk/internal/config"
	"github.com/park285/cheese-desk/internal/msgcat"
	"github.com/park285/cheese-desk/internal/online"
	"github.com/park285/cheese-desk/internal/session"
)

const (
	defaultEngineBinary = "stockfish"
	recorderBuffer      = 16
)

// Deps holds every provider a session needs. Optional providers that failed
// to load are nil; the session degrades instead of refusing to start.
type Deps struct {
	Rules    corechess.StandardRules
	Engine   *corechess.Engine
	Preset   corechess.EnginePreset
	Book     *openingbook.Book
	Catalog  *openingbook.Catalog
	Messages *msgcat.Catalog
	Bridge   *online.Bridge
	Recorder *archive.Recorder

	cfg    *config.AppConfig
	logger *zap.Logger
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{Rules: corechess.NewStandardRules(), cfg: cfg, logger: logger}

	msgs, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	d.Messages = msgs

	preset, err := corechess.GetPreset(cfg.EnginePreset)
	if err != nil {
		return nil, err
	}
	d.Preset = preset
	binary := strings.TrimSpace(cfg.StockfishPath)
	if binary == "" {
		binary = defaultEngineBinary
	}
	if engine, eerr := corechess.NewEngine(binary, preset, logger.Named("engine")); eerr != nil {
		logger.Warn("engine_unavailable", zap.String("path", binary), zap.Error(eerr))
	} else {
		d.Engine = engine
	}

	d.Book = openingbook.Open(cfg.PolyglotBookPath, logger.Named("book"))
	d.Catalog = openingbook.LoadCatalog(cfg.OpeningCatalogPath, logger.Named("catalog"))

	bridge, err := online.NewBridge(online.Config{
		BaseURL:      cfg.OnlineBaseURL,
		WSURL:        cfg.OnlineWSURL,
		Transport:    cfg.OnlineTransport,
		MatchTimeout: cfg.MatchTimeout(),
		Retries:      cfg.OnlineRetries,
		Messages:     msgs,
		Logger:       logger.Named("online"),
	})
	if err != nil {
		_ = d.closeEngine()
		return nil, fmt.Errorf("init online bridge: %w", err)
	}
	d.Bridge = bridge

	store, err := openStore(cfg)
	if err != nil {
		// archiving is optional
		logger.Warn("archive_unavailable", zap.String("backend", cfg.ArchiveBackend), zap.Error(err))
	}
	if store != nil {
		d.Recorder = archive.NewRecorder(store, recorderBuffer, logger.Named("archive"))
		logger.Info("archive_ready", zap.String("backend", cfg.ArchiveBackend))
	}
	return d, nil
}

func openStore(cfg *config.AppConfig) (archive.Store, error) {
	switch cfg.ArchiveBackend {
	case config.ArchiveNone:
		return nil, nil
	case config.ArchiveMemory:
		return archive.NewMemoryStore(), nil
	case config.ArchiveRedis:
		s, err := archive.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis archive: %w", err)
		}
		return s, nil
	case config.ArchivePostgres:
		s, err := archive.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres archive: %w", err)
		}
		return s, nil
	case config.ArchiveSQLite:
		s, err := archive.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite archive: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.ArchiveBackend)
	}
}

// SessionOptions wires the providers into a session controller.
func (d *Deps) SessionOptions() []session.Option {
	opts := []session.Option{
		session.WithBook(d.Book),
		session.WithOpenings(d.Catalog),
		session.WithMessages(d.Messages),
		session.WithBridge(d.Bridge),
		session.WithAIDelay(d.cfg.AIMoveDelay()),
		session.WithSearchBudget(time.Duration(d.Preset.MoveTimeMillis) * time.Millisecond),
		session.WithEngineLabel("Engine (" + d.Preset.Name + ")"),
		session.WithLogger(d.logger.Named("session")),
	}
	// typed nils would look like live providers through the interfaces
	if d.Engine != nil {
		opts = append(opts, session.WithEngine(d.Engine))
	}
	if d.Recorder != nil {
		opts = append(opts, session.WithRecorder(d.Recorder))
	}
	return opts
}

// NewSession builds a controller over these dependencies.
func (d *Deps) NewSession(extra ...session.Option) *session.Controller {
	return session.New(d.Rules, append(d.SessionOptions(), extra...)...)
}

// Close shuts every provider down and reports all failures together.
func (d *Deps) Close(ctx context.Context) error {
	var result *multierror.Error
	if d.Bridge != nil {
		if err := d.Bridge.Close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("close bridge: %w", err))
		}
	}
	if d.Recorder != nil {
		if err := d.Recorder.Close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("close archive: %w", err))
		}
	}
	if err := d.closeEngine(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close engine: %w", err))
	}
	return result.ErrorOrNil()
}

func (d *Deps) closeEngine() error {
	if d.Engine == nil {
		return nil
	}
	return d.Engine.Close()
}
