package router

import (
	"go-ledger/handler"
	"net/http"

	_ "go-ledger/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Account     *handler.AccountHandler
	Transaction *handler.TransactionHandler
	Tokens      handler.TokenVerifier
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if h.Auth != nil {
		mux.Handle("POST /login", handler.ErrorHandlingMiddleware(h.Auth.Login))
	}

	if h.Tokens != nil {
		auth := handler.AuthMiddleware(h.Tokens)
		if h.Auth != nil {
			mux.Handle("POST /logout", auth(handler.ErrorHandlingMiddleware(h.Auth.Logout)))
		}
		if h.Account != nil {
			mux.Handle("GET /api/accounts", auth(handler.ErrorHandlingMiddleware(h.Account.ListAccounts)))
		}
		if h.Transaction != nil {
			mux.Handle("POST /api/transfers", auth(handler.ErrorHandlingMiddleware(h.Transaction.CreateTransfer)))
			mux.Handle("GET /api/activity", auth(handler.ErrorHandlingMiddleware(h.Transaction.ListActivity)))
		}
	}

	return handler.RequestLogger(mux)
}
