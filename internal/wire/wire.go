// Package wire provides dependency injection for the grievance service.
// It builds the service graph once from the loaded configuration.
package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cliadapter "github.com/example/grievance/internal/adapters/cli"
	"github.com/example/grievance/internal/adapters/gateway"
	"github.com/example/grievance/internal/adapters/httpapi"
	"github.com/example/grievance/internal/adapters/logonly"
	"github.com/example/grievance/internal/adapters/postgres"
	redisadapter "github.com/example/grievance/internal/adapters/redis"
	"github.com/example/grievance/internal/adapters/sqlite"
	"github.com/example/grievance/internal/app"
	"github.com/example/grievance/internal/config"
	"github.com/example/grievance/internal/db"
	"github.com/example/grievance/internal/ports/primary"
	"github.com/example/grievance/internal/ports/secondary"
	"github.com/example/grievance/internal/telemetry"
)

// Container holds the wired services and the resources they own.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *telemetry.Metrics

	Intake        primary.IntakeService
	Cases         primary.CaseService
	Escalations   primary.EscalationService
	Analytics     primary.AnalyticsService
	Communication primary.CommunicationService

	feed    *redisadapter.StreamDispatcher
	health  func(ctx context.Context) error
	closers []func() error
}

var (
	configPath string
	container  *Container
	initErr    error
	once       sync.Once
)

// SetConfigPath sets the configuration file used by Get. It must be called
// before the first Get.
func SetConfigPath(path string) {
	configPath = path
}

// Get returns the singleton Container, building it on first use.
func Get() (*Container, error) {
	once.Do(func() {
		cfg, err := config.Load(configPath)
		if err != nil {
			initErr = err
			return
		}
		container, initErr = Build(context.Background(), cfg)
	})
	return container, initErr
}

// Build wires every service for cfg.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := telemetry.NewLogger(cfg.Logging.Level, cfg.Logging.Format, "grievance")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, Metrics: telemetry.NewMetrics()}
	repo, numbers, err := c.openStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	dispatcher, err := c.dispatcher(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	transport, advisor, hook := c.collaborators()
	rt := app.Runtime{
		Repo:     repo,
		Executor: app.NewEffectExecutor(dispatcher, advisor, hook, logger, c.Metrics),
		Policy:   policy,
		Logger:   logger,
		Metrics:  c.Metrics,
	}

	c.Intake = app.NewIntakeService(rt, numbers)
	c.Cases = app.NewCaseService(rt)
	c.Escalations = app.NewEscalationService(rt)
	c.Analytics = app.NewAnalyticsService(rt)
	c.Communication = app.NewCommunicationService(rt, transport)
	return c, nil
}

func (c *Container) openStore(ctx context.Context) (secondary.CaseRepository, secondary.NumberGenerator, error) {
	store := c.Config.Store
	switch store.Driver {
	case config.DriverPostgres:
		conn, err := postgres.Connect(store.DSN, postgres.Options{
			MaxOpenConns:    store.MaxOpenConns,
			MaxIdleConns:    store.MaxIdleConns,
			ConnMaxLifetime: store.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		c.closers = append(c.closers, conn.Close)
		c.health = conn.PingContext

		repo := postgres.NewCaseRepository(conn)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		numbers, err := postgres.NewSequenceGenerator(conn, c.Config.NodeID)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Info("using postgres case store")
		return repo, numbers, nil

	default:
		path := store.DSN
		if path == "" {
			p, err := db.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		conn, err := db.Open(path)
		if err != nil {
			return nil, nil, err
		}
		c.closers = append(c.closers, conn.Close)
		c.health = conn.PingContext

		numbers, err := sqlite.NewSequenceGenerator(conn, c.Config.NodeID)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using sqlite case store", zap.String("path", path))
		return sqlite.NewCaseRepository(conn), numbers, nil
	}
}

func (c *Container) dispatcher(ctx context.Context) (secondary.NotificationDispatcher, error) {
	n := c.Config.Notifications
	if n.RedisAddr == "" {
		return logonly.NewDispatcher(c.Logger), nil
	}
	client := goredis.NewClient(&goredis.Options{Addr: n.RedisAddr, Password: n.RedisPassword, DB: n.RedisDB})
	c.closers = append(c.closers, client.Close)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", n.RedisAddr, err)
	}
	c.feed = redisadapter.NewStreamDispatcher(client, redisadapter.Options{Stream: n.Stream, MaxLen: n.MaxLen}, c.Logger)
	return c.feed, nil
}

// collaborators picks a gateway client for each configured base URL and
// the logging stand-in otherwise.
func (c *Container) collaborators() (secondary.Transport, secondary.ReassignmentAdvisor, secondary.WorkflowHook) {
	g := c.Config.Gateways
	var (
		transport secondary.Transport          = logonly.NewTransport(c.Logger)
		advisor   secondary.ReassignmentAdvisor = logonly.NewAdvisor(c.Logger)
		hook      secondary.WorkflowHook        = logonly.NewWorkflowHook(c.Logger)
	)
	if g.Messaging.BaseURL != "" {
		transport = gateway.NewTransport(gateway.NewClient("messaging", gatewayConfig(g.Messaging), c.Logger))
	}
	if g.Workload.BaseURL != "" {
		advisor = gateway.NewAdvisor(gateway.NewClient("workload", gatewayConfig(g.Workload), c.Logger))
	}
	if g.Workflow.BaseURL != "" {
		hook = gateway.NewWorkflowHook(gateway.NewClient("workflow", gatewayConfig(g.Workflow), c.Logger))
	}
	return transport, advisor, hook
}

func gatewayConfig(g config.GatewayConfig) gateway.Config {
	return gateway.Config{BaseURL: g.BaseURL, Token: g.Token, Timeout: g.Timeout, RetryCount: g.RetryCount}
}

// Router returns the REST API handler.
func (c *Container) Router() http.Handler {
	return httpapi.NewRouter(httpapi.Services{
		Intake:        c.Intake,
		Cases:         c.Cases,
		Escalations:   c.Escalations,
		Analytics:     c.Analytics,
		Communication: c.Communication,
	}, c.Logger, c.Metrics, c.health)
}

// NotificationFeed returns the Redis stream dispatcher, or nil when
// notifications are only logged.
func (c *Container) NotificationFeed() *redisadapter.StreamDispatcher {
	return c.feed
}

// CaseAdapter returns a new CaseAdapter writing to stdout.
func (c *Container) CaseAdapter() *cliadapter.CaseAdapter {
	return c.CaseAdapterWithOutput(os.Stdout)
}

// CaseAdapterWithOutput returns a new CaseAdapter writing to out.
func (c *Container) CaseAdapterWithOutput(out io.Writer) *cliadapter.CaseAdapter {
	return cliadapter.NewCaseAdapter(c.Intake, c.Cases, c.Escalations, out)
}

// CommunicationAdapter returns a new CommunicationAdapter writing to stdout.
func (c *Container) CommunicationAdapter() *cliadapter.CommunicationAdapter {
	return c.CommunicationAdapterWithOutput(os.Stdout)
}

// CommunicationAdapterWithOutput returns a new CommunicationAdapter writing to out.
func (c *Container) CommunicationAdapterWithOutput(out io.Writer) *cliadapter.CommunicationAdapter {
	return cliadapter.NewCommunicationAdapter(c.Communication, c.Analytics, out)
}

// Close releases the store and broker connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}
