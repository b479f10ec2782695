package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"liyu1981.xyz/greenhouse-service/pkg/app"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	ghGrpc "liyu1981.xyz/greenhouse-service/pkg/grpc"
	ghHttp "liyu1981.xyz/greenhouse-service/pkg/http"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := common.GetLogger()
	defer common.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	greenhouseApp, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		logger.Fatal("Failed to create app", zap.Error(err))
	}

	if err := greenhouseApp.Start(); err != nil {
		logger.Fatal("Failed to start control channel", zap.Error(err))
	}

	gin.SetMode(ghHttp.GinMode())
	rs := &ghHttp.RestfulServer{
		Server:           gin.Default(),
		Core:             greenhouseApp.Core,
		RateLimiterStore: greenhouseApp.Limiters,
		CorsOrigins:      cfg.CorsOrigins,
	}
	rs.Setup()

	srv := &http.Server{
		Addr:              cfg.HttpHostPort,
		Handler:           rs.Server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		greenhouseServer := &ghGrpc.GreenhouseServer{
			Core:             greenhouseApp.Core,
			RateLimiterStore: greenhouseApp.Limiters,
		}
		interceptor := greenhouseServer.CreateRateLimitInterceptor([]string{
			ghGrpc.MethodGetStatus,
			ghGrpc.MethodGetSetpoint,
			ghGrpc.MethodUpdateSetpoint,
			ghGrpc.MethodGetHistory,
		})
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
		ghGrpc.RegisterGreenhouseServiceServer(grpcServer, greenhouseServer)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			logger.Fatal("failed to listen", zap.String("addr", cfg.GrpcHostPort), zap.Error(err))
		}

		go func() {
			logger.Info("Starting gRPC server on: " + cfg.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				errCh <- err
			}
		}()
	}

	go func() {
		logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Error("server failed to serve", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		_ = srv.Close()
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	if err := greenhouseApp.Close(); err != nil {
		logger.Error("Failed to close app", zap.Error(err))
	}
}
