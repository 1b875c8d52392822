package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joao-fontenele/part-order-service/internal/suppliersim"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var outOfStock []string
	if v := os.Getenv("OUT_OF_STOCK_PARTS"); v != "" {
		outOfStock = strings.Split(v, ",")
	}

	handler := suppliersim.NewHandler(logger, outOfStock, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", handler.HandleRequestOrder)
	mux.HandleFunc("POST /confirmations", handler.HandleConfirmOrder)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting supplier simulator", "port", port, "out_of_stock", outOfStock)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
