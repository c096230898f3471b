package cmd

import (
	"log/slog"
	"net/http"
	"time"

	httpin "orderflow/internal/adapters/in/http"
	kafkain "orderflow/internal/adapters/in/kafka"
	"orderflow/internal/adapters/out/catalog"
	"orderflow/internal/adapters/out/gateway"
	kafkaout "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/rabbitmq"
	"orderflow/internal/adapters/out/temporal"
	"orderflow/internal/core/application/fanout"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"gorm.io/gorm"
)

const collaboratorTimeout = 5 * time.Second

// Clients are the connections opened by main and shared by the adapters.
type Clients struct {
	Producer *kgo.Client
	Consumer *kgo.Client
	Temporal client.Client
	Notifier *rabbitmq.NotificationChannel
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clients    Clients
	logger     *slog.Logger

	publisher  *kafkaout.Publisher
	engine     *temporal.Engine
	dispatcher *fanout.Dispatcher
	httpClient *http.Client
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, clients Clients, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clients:    clients,
		logger:     logger,
		httpClient: &http.Client{Timeout: collaboratorTimeout},
	}

	c.publisher = kafkaout.NewPublisher(clients.Producer, cfg.KafkaEventsTopic)
	c.engine = temporal.NewEngine(clients.Temporal, cfg.TemporalTaskQueue)
	c.dispatcher = fanout.NewDispatcher(
		c.uowFactory,
		c.publisher,
		c.engine,
		clients.Notifier,
		cfg.KafkaEventsTopic,
		cfg.EventSource,
		logger,
	)
	return c
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) subscriptionUoWFactory() commands.SubscriptionUoWFactory {
	return FuncSubscriptionUoWFactory(func() commands.SubscriptionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pusher() *gateway.Pusher {
	return gateway.NewPusher(c.cfg.GatewayURL, c.httpClient)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		catalog.NewClient(c.cfg.CatalogURL, c.httpClient),
		c.dispatcher,
	)
	return &h
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() *commands.UpdateOrderStatusCommandHandler {
	h := commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), services.NewTransitionEngine(), c.dispatcher)
	return &h
}

func (c *CompositionRoot) CreateSubscribeCommandHandler() *commands.SubscribeCommandHandler {
	h := commands.NewSubscribeCommandHandler(c.subscriptionUoWFactory(), c.pusher())
	return &h
}

func (c *CompositionRoot) CreateUnsubscribeCommandHandler() *commands.UnsubscribeCommandHandler {
	h := commands.NewUnsubscribeCommandHandler(c.subscriptionUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	h := commands.NewRelayOutboxCommandHandler(c.outboxUoWFactory(), c.publisher)
	return &h
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() *queries.ListOrdersQueryHandler {
	h := queries.NewListOrdersQueryHandler(c.uowFactory.Create().OrderRepository())
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() *queries.GetOrderQueryHandler {
	h := queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository(), c.engine, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetStatisticsQueryHandler() *queries.GetStatisticsQueryHandler {
	h := queries.NewGetStatisticsQueryHandler(c.uowFactory.Create().OrderRepository())
	return &h
}

// CreateHTTPServer wires every use case behind the gateway-facing API.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus: c.CreateUpdateOrderStatusCommandHandler(),
		Subscribe:         c.CreateSubscribeCommandHandler(),
		Unsubscribe:       c.CreateUnsubscribeCommandHandler(),
		ListOrders:        c.CreateListOrdersQueryHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
		GetStatistics:     c.CreateGetStatisticsQueryHandler(),
		Resumer:           c.dispatcher,
	})
}

// CreateEventConsumer routes bus events to the broadcaster and the recipient registry.
func (c *CompositionRoot) CreateEventConsumer() *kafkain.Consumer {
	broadcaster := fanout.NewBroadcaster(c.uowFactory, c.pusher(), c.cfg.BroadcastParallelism, c.logger)
	router := fanout.NewEventRouter(broadcaster, c.dispatcher, c.logger)
	return kafkain.NewConsumer(c.clients.Consumer, router, c.logger)
}

// CreateTemporalWorker hosts the fulfillment workflow with the dispatcher as its callbacks.
func (c *CompositionRoot) CreateTemporalWorker() worker.Worker {
	return temporal.NewWorker(c.clients.Temporal, c.cfg.TemporalTaskQueue, temporal.NewActivities(c.dispatcher))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	relay := jobs.NewOutboxRelayJob(
		c.CreateRelayOutboxCommandHandler(),
		c.cfg.OutboxSchedule,
		c.cfg.OutboxBatchSize,
		c.logger,
	)
	return jobs.NewJobManager(relay)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncSubscriptionUoWFactory func() commands.SubscriptionUoW

func (f FuncSubscriptionUoWFactory) Create() commands.SubscriptionUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
