package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Yong0-sa/weconnect-sub000/internal/api/auth"
	"github.com/Yong0-sa/weconnect-sub000/internal/api/handlers"
	"github.com/Yong0-sa/weconnect-sub000/internal/api/middleware"
)

// Router holds the development API handlers
type Router struct {
	mux     *mux.Router
	handler *handlers.Handler
	authn   *middleware.Authenticator
}

// NewRouter creates a new router
func NewRouter(handler *handlers.Handler, authn *middleware.Authenticator) *Router {
	return &Router{
		mux:     mux.NewRouter(),
		handler: handler,
		authn:   authn,
	}
}

// SetupRoutes configures every endpoint under /api
func (r *Router) SetupRoutes() http.Handler {
	h := r.handler
	protected := r.authn.Require

	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := r.mux.PathPrefix("/api").Subrouter()

	// Auth endpoints
	api.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	// Profile endpoints
	api.Handle("/profile/me", protected(h.GetProfile)).Methods(http.MethodGet)
	api.Handle("/profile/me", protected(h.UpdateProfile)).Methods(http.MethodPut)
	api.Handle("/profile/me", protected(h.DeleteProfile)).Methods(http.MethodDelete)
	api.Handle("/profile/check-nickname", protected(h.CheckNickname)).Methods(http.MethodGet)
	api.Handle("/profile/verify-password", protected(h.VerifyPassword)).Methods(http.MethodPost)

	// Farm endpoints; the directory is public
	api.HandleFunc("/farms", h.ListFarms).Methods(http.MethodGet)
	api.Handle("/farms", protected(h.CreateFarm)).Methods(http.MethodPost)
	api.HandleFunc("/farms/{id:[0-9]+}", h.GetFarm).Methods(http.MethodGet)

	// Farm contract endpoints
	api.Handle("/farm-contracts", protected(h.ApplyContract)).Methods(http.MethodPost)
	api.Handle("/farm-contracts/me", protected(h.ListMyContracts)).Methods(http.MethodGet)
	api.Handle("/farm-contracts/owner", protected(h.ListOwnerContracts)).Methods(http.MethodGet)
	api.Handle("/farm-contracts/{id:[0-9]+}/approve", protected(h.ApproveContract)).Methods(http.MethodPut)
	api.Handle("/farm-contracts/{id:[0-9]+}/reject", protected(h.RejectContract)).Methods(http.MethodPut)

	// Chat endpoints
	api.Handle("/chat/rooms", protected(h.ListRooms)).Methods(http.MethodGet)
	api.Handle("/chat/rooms", protected(h.CreateRoom)).Methods(http.MethodPost)
	api.Handle("/chat/rooms/{id:[0-9]+}/messages", protected(h.ListMessages)).Methods(http.MethodGet)
	api.Handle("/chat/rooms/{id:[0-9]+}/messages", protected(h.SendMessage)).Methods(http.MethodPost)

	// Diary endpoints
	api.Handle("/diary", protected(h.ListDiaries)).Methods(http.MethodGet)
	api.Handle("/diary", protected(h.CreateDiary)).Methods(http.MethodPost)
	api.Handle("/diary/search", protected(h.SearchDiaries)).Methods(http.MethodGet)
	api.Handle("/diary/{id:[0-9]+}", protected(h.GetDiary)).Methods(http.MethodGet)
	api.Handle("/diary/{id:[0-9]+}", protected(h.UpdateDiary)).Methods(http.MethodPut)
	api.Handle("/diary/{id:[0-9]+}", protected(h.DeleteDiary)).Methods(http.MethodDelete)

	// Coin endpoints
	api.Handle("/coins/me", protected(h.GetCoins)).Methods(http.MethodGet)
	api.Handle("/coins/add", protected(h.AddCoins)).Methods(http.MethodPost)
	api.Handle("/coins/purchase", protected(h.PurchaseCoins)).Methods(http.MethodPost)

	// Shop endpoints
	api.Handle("/shop-items", protected(h.ListShopItems)).Methods(http.MethodGet)
	api.Handle("/user-items/me", protected(h.ListMyItems)).Methods(http.MethodGet)
	api.Handle("/user-items/purchase", protected(h.PurchaseItem)).Methods(http.MethodPost)
	api.Handle("/user-items/equip", protected(h.EquipItem)).Methods(http.MethodPost)

	// AI endpoints
	api.Handle("/ai/chat", protected(h.AIChat)).Methods(http.MethodPost)
	api.Handle("/ai/chat/history", protected(h.AIChatHistory)).Methods(http.MethodGet)
	api.Handle("/ai/text-suggestions", protected(h.TextSuggestions)).Methods(http.MethodPost)
	api.Handle("/ai/diagnosis", protected(h.Diagnose)).Methods(http.MethodPost)

	// Community endpoints
	api.Handle("/posts", protected(h.ListPosts)).Methods(http.MethodGet)
	api.Handle("/posts", protected(h.CreatePost)).Methods(http.MethodPost)
	api.Handle("/posts/{id:[0-9]+}", protected(h.GetPost)).Methods(http.MethodGet)
	api.Handle("/posts/{id:[0-9]+}", protected(h.UpdatePost)).Methods(http.MethodPut)
	api.Handle("/posts/{id:[0-9]+}", protected(h.DeletePost)).Methods(http.MethodDelete)
	api.Handle("/comments", protected(h.ListComments)).Methods(http.MethodGet)
	api.Handle("/comments", protected(h.CreateComment)).Methods(http.MethodPost)
	api.Handle("/comments/{id:[0-9]+}", protected(h.DeleteComment)).Methods(http.MethodDelete)

	r.mux.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"요청한 주소를 찾을 수 없습니다."}`))
	})

	// Router-level middleware runs after route matching, so spans carry the route template
	r.mux.Use(middleware.ObservabilityMiddleware, middleware.LoggingMiddleware)

	// CORS wraps everything so preflight requests are answered before routing
	return middleware.CORSMiddleware(r.mux)
}

// New wires handlers, the authenticator and the routes over state
func New(state *handlers.State, jwtSecret string) http.Handler {
	tokens := auth.NewTokens(jwtSecret, auth.DefaultTTL)
	return NewRouter(
		handlers.NewHandler(state, tokens),
		middleware.NewAuthenticator(state, tokens),
	).SetupRoutes()
}
