package main

import (
	"net/http"
	"os"
	"time"

	"github.com/fiffu/matchwatch/app"
	"github.com/fiffu/matchwatch/config"
	"github.com/fiffu/matchwatch/lib"
	"github.com/fiffu/matchwatch/lib/deadlock"
	"github.com/fiffu/matchwatch/lib/poller"
	"github.com/fiffu/matchwatch/lib/predict"
	"github.com/fiffu/matchwatch/lib/steam"
	"github.com/fiffu/matchwatch/lib/store"
	"github.com/fiffu/matchwatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(senders.NewSenderRegistry),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(store.NewStore),
		fx.Provide(deadlock.NewClient),
		fx.Provide(func(c *deadlock.Client) poller.Feed { return c }),
		fx.Provide(steam.NewResolver),
		fx.Provide(predict.NewPredictor),
		fx.Provide(poller.NewPoller),
		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*http.Server) {}),
		fx.Invoke(func(*poller.Poller) {}),
	).Run()
}
