// Package api exposes the voting client over HTTP so front-ends and
// operator tooling can list proposals, cast encrypted ballots, resolve voter
// profiles and run the admin operations.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/store"
	"github.com/daovote/fhevote/web3"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host     string
	Port     int
	Client   *web3.Client
	Receipts *store.Receipts
	Network  string
}

// API type represents the API HTTP server.
type API struct {
	router   *chi.Mux
	client   *web3.Client
	receipts *store.Receipts
	network  string
}

// New creates a new API instance with the given configuration and starts the
// HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Client == nil {
		return nil, fmt.Errorf("missing voting client instance")
	}
	if conf.Receipts == nil {
		return nil, fmt.Errorf("missing receipt store instance")
	}
	a := &API{
		client:   conf.Client,
		receipts: conf.Receipts,
		network:  conf.Network,
	}
	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.Timeout(120 * time.Second))

	a.registerHandlers()
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", InfoEndpoint, "method", "GET")
	a.router.Get(InfoEndpoint, a.info)
	// proposal endpoints
	log.Infow("register handler", "endpoint", ProposalsEndpoint, "method", "GET")
	a.router.Get(ProposalsEndpoint, a.activeProposals)
	log.Infow("register handler", "endpoint", ProposalsEndpoint, "method", "POST")
	a.router.Post(ProposalsEndpoint, a.createProposal)
	log.Infow("register handler", "endpoint", ProposalEndpoint, "method", "GET")
	a.router.Get(ProposalEndpoint, a.proposal)
	// vote endpoints
	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
	a.router.Post(VotesEndpoint, a.castVote)
	log.Infow("register handler", "endpoint", VoteReceiptsEndpoint, "method", "GET")
	a.router.Get(VoteReceiptsEndpoint, a.voteReceipts)
	// profile endpoint
	log.Infow("register handler", "endpoint", ProfileEndpoint, "method", "GET")
	a.router.Get(ProfileEndpoint, a.profile)
	// voter administration
	log.Infow("register handler", "endpoint", VotersEndpoint, "method", "POST")
	a.router.Post(VotersEndpoint, a.authorizeVoters)
}
