package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/relabs-tech/meshportal/core/backend"
	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/notifier"
)

const (
	eventTopic = "meshportal-events"
	jwtSecret  = "integration-test-secret"
	serverAddr = ":8080"
	serverURL  = "http://localhost:8080"
)

// IntegrationTestSuite runs the portal against real Mongo and Kafka
// instances in containers, with the backend served over real HTTP.
type IntegrationTestSuite struct {
	*backend.Backend
	suite.Suite

	srv      *http.Server
	router   *mux.Router
	db       *cdb.DB
	notifier *notifier.KafkaNotifier

	network        testcontainers.Network
	mongoContainer testcontainers.Container
	kafkaContainer testcontainers.Container
	kafkaConn      *kafka.Conn
	kafkaAddr      string
	mongoURI       string
}

func (s *IntegrationTestSuite) createTopic(topic string, numPartitions int) error {
	if s.kafkaConn == nil {
		return fmt.Errorf("kafka connection is not established")
	}

	err := s.kafkaConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", topic, err)
	}
	return nil
}

func (s *IntegrationTestSuite) deleteTopic(topic string) error {
	if s.kafkaConn == nil {
		return fmt.Errorf("kafka connection is not established")
	}

	err := s.kafkaConn.DeleteTopics(topic)
	if err != nil {
		return fmt.Errorf("failed to delete topic %s: %w", topic, err)
	}
	return nil
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Create a shared Docker network for Mongo and Kafka
	networkName := "test-portal-network_" + fmt.Sprintf("%d", time.Now().Unix())
	network, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{
			Name:           networkName,
			CheckDuplicate: true,
		},
	})
	s.Require().NoError(err)
	s.network = network

	mongoReq := testcontainers.ContainerRequest{
		Image:          "mongo:7",
		ExposedPorts:   []string{"27017/tcp"},
		Networks:       []string{networkName},
		NetworkAliases: map[string][]string{networkName: {"mongo"}},
		WaitingFor:     wait.ForListeningPort("27017/tcp"),
	}
	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: mongoReq,
		Started:          true,
	})
	s.Require().NoError(err)
	s.mongoContainer = mongoC

	mongoHost, err := mongoC.Host(ctx)
	s.Require().NoError(err)
	mongoPort, err := mongoC.MappedPort(ctx, "27017")
	s.Require().NoError(err)
	s.mongoURI = fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort.Port())

	zooReq := testcontainers.ContainerRequest{
		Image:        "confluentinc/cp-zookeeper:7.5.0",
		ExposedPorts: []string{"2181/tcp"},
		Env: map[string]string{
			"ZOOKEEPER_CLIENT_PORT": "2181",
			"ZOOKEEPER_TICK_TIME":   "2000",
		},
		WaitingFor:     wait.ForListeningPort("2181/tcp"),
		Networks:       []string{networkName},
		NetworkAliases: map[string][]string{networkName: {"zookeeper"}},
	}
	_, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: zooReq,
		Started:          true,
	})
	s.Require().NoError(err)

	kafkaReq := testcontainers.ContainerRequest{
		Image:        "confluentinc/cp-kafka:7.5.0",
		ExposedPorts: []string{"9092:9092/tcp", "29092:29092/tcp"},
		Env: map[string]string{
			"KAFKA_BROKER_ID":                        "1",
			"KAFKA_ZOOKEEPER_CONNECT":                "zookeeper:2181",
			"KAFKA_LISTENERS":                        "PLAINTEXT://0.0.0.0:9092,PLAINTEXT_HOST://0.0.0.0:29092,EXTERNAL://0.0.0.0:9093",
			"KAFKA_ADVERTISED_LISTENERS":             "PLAINTEXT://localhost:9092,PLAINTEXT_HOST://localhost:29092,EXTERNAL://kafka:9093",
			"KAFKA_LISTENER_SECURITY_PROTOCOL_MAP":   "PLAINTEXT:PLAINTEXT,PLAINTEXT_HOST:PLAINTEXT,EXTERNAL:PLAINTEXT",
			"KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR": "1",
			"ALLOW_PLAINTEXT_LISTENER":               "yes",
		},
		WaitingFor:     wait.ForLog("started (kafka.server.KafkaServer)"),
		Networks:       []string{networkName},
		NetworkAliases: map[string][]string{networkName: {"kafka"}},
	}
	kafkaC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: kafkaReq,
		Started:          true,
	})
	s.Require().NoError(err)
	s.kafkaContainer = kafkaC

	kafkaHost, err := kafkaC.Host(ctx)
	s.Require().NoError(err)
	kafkaPort, err := kafkaC.MappedPort(ctx, "9092")
	s.Require().NoError(err)
	s.kafkaAddr = fmt.Sprintf("%s:%s", kafkaHost, kafkaPort.Port())

	s.kafkaConn, err = kafka.Dial("tcp", s.kafkaAddr)
	s.Require().NoError(err)

	err = s.createTopic(eventTopic, 1)
	s.Require().NoError(err, "Failed to create event topic")

	s.db = cdb.MustOpen(s.mongoURI, "meshportal_integration_test")
	s.Require().NoError(s.db.ClearAll(ctx))
	s.Require().NoError(s.db.EnsureIndexes(ctx))

	s.notifier = notifier.NewKafkaNotifier(s.kafkaAddr, eventTopic)

	s.router = mux.NewRouter()
	s.Backend = backend.New(&backend.Builder{
		DB:        s.db,
		Router:    s.router,
		JWTSecret: jwtSecret,
		Notifier:  s.notifier,
	})

	s.srv = &http.Server{
		Addr:    serverAddr,
		Handler: s.router,
	}
	go func() {
		err := s.srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			s.T().Errorf("Failed to start HTTP server: %v", err)
		}
	}()
}

func (s *IntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	// Stop the HTTP server
	if s.srv != nil {
		err := s.srv.Shutdown(ctx)
		s.Require().NoError(err)
	}
	if s.notifier != nil {
		s.Require().NoError(s.notifier.Close())
	}
	if s.db != nil {
		s.Require().NoError(s.db.Close(ctx))
	}

	if s.kafkaConn != nil {
		s.Require().NoError(s.kafkaConn.Close())
	}
	if s.kafkaContainer != nil {
		err := s.kafkaContainer.Terminate(ctx)
		s.Require().NoError(err)
	}
	if s.mongoContainer != nil {
		err := s.mongoContainer.Terminate(ctx)
		s.Require().NoError(err)
	}
}
