// Command ordersctl browses and edits a customer's tailoring orders from the
// terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kendall-kelly/tailoring-orders-portal/config"
	"github.com/kendall-kelly/tailoring-orders-portal/services"
	"github.com/kendall-kelly/tailoring-orders-portal/views"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ordersctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	token := flag.String("token", "", "bearer token for the order service (defaults to ORDER_API_TOKEN)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *token == "" {
		*token = cfg.OrderAPIToken
	}
	if *token == "" {
		return errors.New("a bearer token is required: pass -token or set ORDER_API_TOKEN")
	}

	logger := config.NewLoggerTo(os.Stderr, cfg.LogLevel)
	api, err := services.NewHTTPOrderAPI(cfg.OrderAPIURL, cfg.RequestTimeout, logger)
	if err != nil {
		return err
	}

	list := views.NewOrderList(views.ListOptions{
		API:            api,
		Token:          *token,
		NoticeTTL:      cfg.NoticeTTL,
		FormCloseDelay: cfg.FormCloseDelay,
		Location:       cfg.Location(),
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newApp(list, newSurveyDriver(os.Stdout), os.Stdout).Run(ctx)
}
