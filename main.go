package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"dentistimo/internal/adapters/handler"
	"dentistimo/internal/adapters/metrics"
	"dentistimo/internal/adapters/registry"
	"dentistimo/internal/adapters/sender"
	"dentistimo/internal/adapters/store"
	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/domain/command"
	"dentistimo/internal/core/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestTopic = "dentistoffice"

func main() {
	log.Info().Msg("starting dentistimo office service...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	setConfigDefaults()

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("service.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("mongo.uri")))
	if err != nil {
		log.Fatal().Err(err).Msg("failed connecting to document store")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed disconnecting from document store")
		}
	}()

	repo := store.NewMongo(mongoClient.Database(viper.GetString("mongo.database")))

	clientID, err := uuid.NewV4()
	if err != nil {
		log.Fatal().Err(err).Msg("failed generating mqtt client id")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", viper.GetString("mqtt.host"), viper.GetInt("mqtt.port"))).
		SetClientID("dentistimo-offices-" + clientID.String()).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("failed connecting to mqtt broker")
	}
	defer client.Disconnect(250)

	rootTopic := viper.GetString("mqtt.root_topic")
	publisher := sender.NewMQTT(client, rootTopic)

	policy := service.DefaultSkipPolicy()

	commandRegistry := &command.Registry{}
	commandRegistry.Register(command.NewGetAll(repo, publisher, domain.MethodGetAll))
	commandRegistry.Register(command.NewGetOne(repo, publisher, domain.MethodGetOne))
	commandRegistry.Register(command.NewAllTimeslots(repo, publisher, domain.MethodGetAllTimeslots, policy))
	commandRegistry.Register(command.NewTimeSlots(repo, publisher, domain.MethodGetTimeSlots, policy))

	breakerConfig := service.BreakerConfig{
		Timeout:               viper.GetDuration("breaker.timeout"),
		ErrorThresholdPercent: viper.GetFloat64("breaker.error_threshold_percent"),
		ResetTimeout:          viper.GetDuration("breaker.reset_timeout"),
		Fallback:              domain.DegradedServiceNotice,
	}

	var observer handler.Observer
	if viper.GetBool("metrics.enabled") {
		collector := metrics.New(prometheus.DefaultRegisterer)
		observer = collector

		go serveMetrics(viper.GetString("metrics.listen_addr"))
	}

	messageHandler := handler.NewMessage(commandRegistry, breakerConfig, observer)

	subscribeTopic := rootTopic + requestTopic
	if token := client.Subscribe(subscribeTopic, domain.QoSExactlyOnce, messageHandler.Handle); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Str("topic", subscribeTopic).Msg("failed subscribing to request topic")
	}
	log.Info().Str("topic", subscribeTopic).Msg("subscribed to request topic")

	syncConfig := breakerConfig
	syncConfig.OnStateChange = func(from, to service.BreakerState) {
		log.Info().Str("job", "registrySync").Stringer("from", from).Stringer("to", to).
			Msg("circuit breaker state changed")

		if observer != nil {
			observer.BreakerStateChanged("registrySync", to)
		}
	}

	syncJob := service.NewRegistrySync(
		registry.NewHTTP(viper.GetString("registry.url")),
		repo,
		publisher,
		service.NewBreaker(syncConfig))

	scheduler := cron.New()
	_, err = scheduler.AddFunc("@every "+viper.GetDuration("registry.sync_interval").String(), func() {
		syncJob.Run(context.Background())
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed scheduling registry sync")
	}
	scheduler.Start()
	defer scheduler.Stop()

	if viper.GetBool("registry.sync_on_start") {
		go syncJob.Run(ctx)
	}

	log.Info().Msg("office service listening")
	<-ctx.Done()

	if token := client.Unsubscribe(subscribeTopic); token.Wait() && token.Error() != nil {
		log.Warn().Err(token.Error()).Msg("failed unsubscribing from request topic")
	}
}

func setConfigDefaults() {
	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.root_topic", "dentistimo/")
	viper.SetDefault("mongo.database", "dentistimo")
	viper.SetDefault("registry.sync_interval", "10m")
	viper.SetDefault("registry.sync_on_start", true)
	viper.SetDefault("breaker.timeout", "10s")
	viper.SetDefault("breaker.error_threshold_percent", 10)
	viper.SetDefault("breaker.reset_timeout", "30s")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen_addr", ":9090")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
