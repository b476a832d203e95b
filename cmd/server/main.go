package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	messageRepo "secure_chat/internal/repository/message"
	sessionRepo "secure_chat/internal/repository/session"
	userRepo "secure_chat/internal/repository/user"
	"secure_chat/internal/service/auth"
	"secure_chat/internal/service/credential"
	"secure_chat/internal/service/directory"
	redisSvc "secure_chat/internal/service/redis"
	"secure_chat/internal/service/relay"
	"secure_chat/internal/service/server"
	"secure_chat/internal/utils/log"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	var (
		addr       = flag.String("addr", envOr("CHAT_ADDR", "localhost:8000"), "listen address")
		redisAddr  = flag.String("redis", envOr("CHAT_REDIS", ""), "redis address; empty keeps sessions and messages in memory")
		mongoURI   = flag.String("mongo", envOr("CHAT_MONGO", ""), "mongodb uri; empty keeps users in memory")
		sessionTTL = flag.Duration("session-ttl", 0, "session lifetime; 0 means sessions never expire")
		debug      = flag.Bool("debug", false, "development logging")
	)
	flag.Parse()

	if !*debug {
		log.Init(zap.Must(zap.NewProduction()))
	}

	var users userRepo.Repository = userRepo.NewMemoryRepo()
	if *mongoURI != "" {
		db, err := initMongo(*mongoURI)
		if err != nil {
			log.Fatal("mongo init failed", zap.Error(err))
		}
		repo, err := userRepo.NewMongoRepo(context.Background(), db)
		if err != nil {
			log.Fatal("mongo user repo init failed", zap.Error(err))
		}
		users = repo
	}

	var sessions sessionRepo.Store = sessionRepo.NewMemoryStore()
	var messages messageRepo.Log = messageRepo.NewMemoryLog()
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: *redisAddr,
		})
		svc := redisSvc.NewRedis(rdb)
		sessions = sessionRepo.NewRedisStore(svc)
		messages = messageRepo.NewRedisLog(svc)
	}

	credentialService := credential.NewService(users)
	authService := auth.NewService(credentialService, sessions, *sessionTTL)
	directoryService := directory.NewService(users)
	relayService := relay.NewService(users, messages)

	srv := server.NewHttpServer(*addr, credentialService, authService, directoryService, relayService)
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func initMongo(uri string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client.Database("secure_chat"), nil
}
