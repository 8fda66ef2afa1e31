package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/twmb/franz-go/pkg/sr"

	"github.com/aswaq/storefront/config"
	"github.com/aswaq/storefront/internal/adapter/backend"
	"github.com/aswaq/storefront/internal/adapter/httphandler"
	"github.com/aswaq/storefront/internal/adapter/kafka"
	"github.com/aswaq/storefront/internal/adapter/localstore"
	"github.com/aswaq/storefront/internal/adapter/sessionstore"
	"github.com/aswaq/storefront/internal/core/port"
	"github.com/aswaq/storefront/internal/core/service"
	"github.com/aswaq/storefront/pkg/schema"
)

type coreServices struct {
	catalog service.Catalog
	views   *service.Views
	cart    *service.Cart
	orders  service.Orders
	auth    *service.Auth
	status  port.OrderStatusReader
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      backend.SQLDB
	remote     bool
	localStore *localstore.Store
	events     port.EventsProducer
	services   coreServices
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initLocalStore()
	app.initEventsProducer()
	app.initCoreServices()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initLocalStore() {
	const op = "App.initLocalStore"

	s, err := localstore.Open(app.cfg.LocalStorePath)
	if err != nil {
		app.fallDown(op, err)
	}
	app.localStore = s
}

func (app *App) initEventsProducer() {
	const op = "App.initEventsProducer"

	if !app.cfg.BrokerConfigured() {
		slog.Info("broker is not configured, client events are disabled")
		return
	}

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)
	subject := app.cfg.Broker.ClientEventsTopic + "-value"
	serde, err := schema.NewSerdeClientEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewClientEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.ClientEventsTopic,
		),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.events = producer
}

// initCoreServices selects the backend once at startup: remote when
// credentials are configured and reachable, the built-in mock
// otherwise.
func (app *App) initCoreServices() {
	const op = "App.initCoreServices"
	log := slog.With("op", op)

	var (
		reader port.CatalogReader
		writer port.OrderWriter
		authn  port.Authenticator
		status port.OrderStatusReader
	)

	mock := backend.NewMockCatalog()
	mockOrders := backend.NewMockOrders()
	reader, writer, authn, status = mock, mockOrders,
		backend.NewMockAuth(app.localStore), mockOrders

	if app.cfg.BackendConfigured() {
		sqldb, err := backend.NewSQLDB(app.ctx, app.cfg.BackendDSN)
		if err != nil {
			log.Warn("backend is unreachable, running in fallback mode",
				"err", err)
		} else {
			app.sqldb = sqldb
			app.remote = true
			remoteCatalog := backend.NewRemoteCatalog(sqldb)
			reader = remoteCatalog
			status = remoteCatalog
			writer = backend.NewRemoteOrders(sqldb)
			authn = backend.NewRemoteAuth(sqldb)
		}
	} else {
		log.Info("backend is not configured, running in fallback mode")
	}

	catalog := service.NewCatalog(reader, mock, app.events)
	cart := service.NewCart(catalog, app.localStore)
	if err := cart.Load(app.ctx); err != nil {
		log.Warn("failed to load persisted cart", "err", err)
	}

	app.services = coreServices{
		catalog: catalog,
		views: service.NewViews(
			catalog, sessionstore.New(sessionstore.DefaultQuota),
		),
		cart:   cart,
		orders: service.NewOrders(writer, app.events),
		auth:   service.NewAuth(authn),
		status: status,
	}
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.services.catalog)
	httphandler.RegisterListing(mux, app.services.views)
	httphandler.RegisterCart(mux, app.services.cart, app.services.catalog)
	httphandler.RegisterOrders(
		mux, app.services.orders, app.services.cart, app.services.auth,
		app.services.status,
	)
	httphandler.RegisterAuth(mux, app.services.auth)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.events != nil {
		app.events.Close()
	}
	if app.remote {
		app.sqldb.Close()
	}
	app.localStore.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
