package main

import (
	"context"
	"time"

	"github.com/trolleyhk/trolley/config"
	"github.com/trolleyhk/trolley/internal/app"
	"github.com/trolleyhk/trolley/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	trolleyService := app.New(sigCtx, cfg)

	trolleyService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	trolleyService.Close(ctx)
}
