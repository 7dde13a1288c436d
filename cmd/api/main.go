package main

// @title           vCard Directory API
// @version         1.0
// @description     Business card profiles with vCard export, sharing, saved contacts and analytics.
// @termsOfService  http://example.com/terms/

// @contact.name   API Support
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8888
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/vcard/internal/app"
)

func main() {
	os.Exit(run())
}

// run starts the directory service and blocks until fx receives SIGINT or SIGTERM.
func run() int {
	// the app logger may not exist yet when startup fails
	bootLog := zap.NewExample().Sugar()

	a := fx.New(app.Module)

	startCtx, cancelStart := context.WithTimeout(context.Background(), app.DefaultStartTimeout)
	defer cancelStart()
	if err := a.Start(startCtx); err != nil {
		bootLog.Errorf("failed to start vcard api: %v", err)
		return 1
	}

	sig := <-a.Done()
	bootLog.Infof("received %s, shutting down", sig)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer cancelStop()
	if err := a.Stop(stopCtx); err != nil {
		bootLog.Errorf("failed to stop vcard api: %v", err)
		return 1
	}
	return 0
}
