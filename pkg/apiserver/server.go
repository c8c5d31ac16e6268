package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dadas-io/dadas/pkg/health"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/dadas-io/dadas/pkg/version"
	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type apiServer struct {
	ctx      context.Context
	log      *logrus.Entry
	port     int
	pageSize int
}

func NewAPIServer(ctx context.Context, log *logrus.Entry, port, pageSize int) *apiServer {
	return &apiServer{
		ctx:      ctx,
		log:      log,
		port:     port,
		pageSize: pageSize,
	}
}

func newRouter(log *logrus.Entry, h *handler) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(loggingMiddleware(log))

	router.Path("/healthz").Methods("GET").HandlerFunc(h.healthz)
	router.Path("/readyz").Methods("GET").HandlerFunc(h.readyz)

	// Server rendered dashboard
	router.Path("/").Methods("GET").HandlerFunc(h.index)
	router.Path("/report.pdf").Methods("GET").HandlerFunc(h.reportPDF)
	router.Path("/vps/new").Methods("GET").HandlerFunc(h.newForm)
	router.Path("/vps").Methods("POST").HandlerFunc(h.create)
	router.Path("/vps/{id}/edit").Methods("GET").HandlerFunc(h.editForm)
	router.Path("/vps/{id}").Methods("POST").HandlerFunc(h.update)
	router.Path("/vps/{id}/delete").Methods("GET").HandlerFunc(h.confirmDelete)
	router.Path("/vps/{id}/delete").Methods("POST").HandlerFunc(h.delete)

	api := router.PathPrefix("/v1").Subrouter()
	api.Path("/vps").Methods("GET").HandlerFunc(h.listVPS)
	api.Path("/vps").Methods("POST").HandlerFunc(h.createVPS)
	api.Path("/vps/{id}").Methods("GET").HandlerFunc(h.getVPS)
	api.Path("/vps/{id}").Methods("PUT").HandlerFunc(h.updateVPS)
	api.Path("/vps/{id}").Methods("DELETE").HandlerFunc(h.deleteVPS)
	api.Path("/stats").Methods("GET").HandlerFunc(h.stats)
	api.Path("/report").Methods("GET").HandlerFunc(h.reportJSONErrors)

	// Note: this allows not found urls to be logged via the middleware
	// It **HAS** to be defined after all other paths are defined.
	router.NotFoundHandler = router.NewRoute().HandlerFunc(http.NotFound).GetHandler()

	return ghandlers.CORS(
		ghandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		ghandlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
}

// Start serves until the server context is done, then shuts down gracefully.
// The prober runs alongside the server and stops with it.
func (a *apiServer) Start(client store.Client, prober *health.Prober) error {
	logrus.Infof("Version: %s", version.Get())

	h := newHandler(client, prober, a.pageSize)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.port),
		Handler:           newRouter(a.log, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.WithField("port", a.port).Info("starting api server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatalf("listen: %s\n", err)
		}
	}()

	if prober != nil {
		go prober.Start(a.ctx.Done())
	}

	<-a.ctx.Done()

	a.log.Info("shutting down the api server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.WithError(err).Error("unable to shutdown the api server gracefully")
		return err
	}

	return nil
}
