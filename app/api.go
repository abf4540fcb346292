package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fiffu/matchwatch/config"
	"github.com/fiffu/matchwatch/lib"
	"github.com/fiffu/matchwatch/lib/poller"
	"github.com/fiffu/matchwatch/lib/steam"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	if !cfg.APIEnabled {
		log.Sugar().Info("API is disabled")
		return srv
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if creds := cfg.GetCreds(); len(creds) > 0 {
			r.Use(middleware.BasicAuth("matchwatch", creds))
		} else {
			log.Sugar().Info("Auth is disabled since no credentials are defined")
		}

		r.Route("/users/{user_id}/subscriptions", func(r chi.Router) {
			r.Post("/", ctrl.linkAccount)
			r.Get("/", ctrl.listSubscriptions)
			r.Delete("/", ctrl.unlinkAll)
			r.Delete("/{account_id}", ctrl.unlinkAccount)
		})
	})

	return r
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Errorw("Request failed", "err", err)
		return
	} else {
		w.WriteHeader(status)
		if b != nil {
			w.Write(b)
		}
	}
}

func (ctrl *controller) linkAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := parseUserID(r)
	if err != nil {
		ctrl.reject(w, 400, err)
		return
	}
	profileURL := r.FormValue("profile_url")
	platform := r.FormValue("platform")
	identifier := r.FormValue("identifier")

	if profileURL == "" {
		ctrl.reject(w, 400, errors.New("profile_url is required"))
		return
	}

	sub, outcome, err := ctrl.svc.LinkAccount(ctx, userID, profileURL, platform, identifier)
	if errors.Is(err, steam.ErrInvalidProfileURL) {
		ctrl.reject(w, 400, err)
		return
	} else if err != nil {
		ctrl.reject(w, 500, err)
		return
	}

	ctrl.resolve(w, http.StatusOK, map[string]any{
		"subscription": SubscriptionView{}.From(sub),
		"match_live":   outcome == poller.OutcomeSent || outcome == poller.OutcomeEdited,
	})
}

func (ctrl *controller) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := parseUserID(r)
	if err != nil {
		ctrl.reject(w, 400, err)
		return
	}

	subs, err := ctrl.svc.ListSubscriptions(ctx, userID)
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	views := make([]SubscriptionView, len(subs))
	for i := range subs {
		views[i] = SubscriptionView{}.From(&subs[i])
	}
	ctrl.resolve(w, 200, views)
}

func (ctrl *controller) unlinkAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := parseUserID(r)
	if err != nil {
		ctrl.reject(w, 400, err)
		return
	}
	accountID, err := strconv.ParseUint(chi.URLParam(r, "account_id"), 10, 32)
	if err != nil {
		ctrl.reject(w, 400, errors.New("account_id must be numeric"))
		return
	}

	if err := ctrl.svc.UnlinkAccount(ctx, userID, uint32(accountID)); err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, map[string]any{"deleted": true})
}

func (ctrl *controller) unlinkAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := parseUserID(r)
	if err != nil {
		ctrl.reject(w, 400, err)
		return
	}

	deleted, err := ctrl.svc.UnlinkAll(ctx, userID)
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, map[string]any{"deleted": deleted})
}

func parseUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		return 0, errors.New("user_id must be numeric")
	}
	return id, nil
}
