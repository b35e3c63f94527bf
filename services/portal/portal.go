// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// The portal service, the REST api of the hydrogen data mesh demo.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/backend"
	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/logger"
	"github.com/relabs-tech/meshportal/core/notifier"
)

// Service holds the configuration for this service
//
// use MESHPORTAL_MONGO="mongodb://localhost:27017" for a local setup
type Service struct {
	Mongo        string `env:"MESHPORTAL_MONGO,required" description:"the connection string for the mongo instance"`
	DBName       string `env:"MESHPORTAL_DBNAME,default=meshportal" description:"the database name"`
	JWTSecret    string `env:"MESHPORTAL_JWT_SECRET,required" description:"the secret access tokens are signed with"`
	CORSOrigins  string `env:"MESHPORTAL_CORS_ORIGINS,default=*" description:"comma separated list of allowed origins"`
	Addr         string `env:"MESHPORTAL_ADDR,default=:3000" description:"the listen address"`
	KafkaBrokers string `env:"MESHPORTAL_KAFKA_BROKERS,default=" description:"optional comma separated kafka brokers for the audit event sink"`
	KafkaTopic   string `env:"MESHPORTAL_KAFKA_TOPIC,default=meshportal-events" description:"the kafka topic for audit events"`
}

func main() {
	logger.InitLogger(logrus.InfoLevel)
	rlog := logger.Default()

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	db := cdb.MustOpen(service.Mongo, service.DBName)
	defer db.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		panic(err)
	}
	cancel()

	var auditNotifier core.Notifier
	if len(service.KafkaBrokers) > 0 {
		kafkaNotifier := notifier.NewKafkaNotifier(service.KafkaBrokers, service.KafkaTopic)
		defer kafkaNotifier.Close()
		auditNotifier = kafkaNotifier
		rlog.Infoln("audit events go to kafka topic", service.KafkaTopic)
	}

	router := mux.NewRouter()
	backend.New(&backend.Builder{
		DB:        db,
		Router:    router,
		JWTSecret: service.JWTSecret,
		Notifier:  auditNotifier,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(strings.Split(service.CORSOrigins, ",")),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)

	server := &http.Server{
		Addr:    service.Addr,
		Handler: cors(router),
	}

	go func() {
		rlog.Infoln("listen on", service.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rlog.WithError(err).Fatalln("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	rlog.Infoln("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		rlog.WithError(err).Errorln("shutdown failed")
	}
}
