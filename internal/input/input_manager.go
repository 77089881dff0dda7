package input

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"geochat/internal"
	"geochat/internal/handler"
	"geochat/internal/middleware"
	"geochat/internal/realtime"
	"geochat/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// InputManager owns the HTTP gateway: route assembly, pause switch, and
// graceful shutdown. Store connectivity is established before Run is called,
// so a request never races the bootstrap.
type InputManager struct {
	running atomic.Bool
	paused  atomic.Bool

	logger *zap.SugaredLogger
	server *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	authService     service.AuthService
	userService     service.UserService
	presenceService service.PresenceService
	messageService  service.MessageService
	friendService   service.FriendService
	hub             *realtime.Hub
}

func NewInputManager() *InputManager {
	return &InputManager{
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) SetLogger(l *zap.SugaredLogger) { i.logger = l }
func (i *InputManager) SetHub(h *realtime.Hub)         { i.hub = h }

func (i *InputManager) SetServices(
	auth service.AuthService,
	users service.UserService,
	presence service.PresenceService,
	messages service.MessageService,
	friends service.FriendService,
) {
	i.authService = auth
	i.userService = users
	i.presenceService = presence
	i.messageService = messages
	i.friendService = friends
}

func (i *InputManager) IsReady() bool {
	return i.logger != nil && i.hub != nil &&
		i.authService != nil && i.userService != nil && i.presenceService != nil &&
		i.messageService != nil && i.friendService != nil
}

func (i *InputManager) IsRunning() bool { return i.running.Load() }

func (i *InputManager) SetPause(paused bool) { i.paused.Store(paused) }
func (i *InputManager) IsPaused() bool       { return i.paused.Load() }

// PauseMiddleware rejects every request while the gateway is paused.
func (i *InputManager) PauseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.paused.Load() {
			http.Error(w, "Service is paused", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (i *InputManager) Run(ctx context.Context, cfg *internal.Config) error {
	if !i.IsReady() {
		return fmt.Errorf("the input manager is not ready, missing components")
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	authHandler := handler.NewAuthHandler(i.authService, cookieStore)
	userHandler := handler.NewUserHandler(i.userService, i.logger)
	locationHandler := handler.NewLocationHandler(i.presenceService, i.logger)
	messageHandler := handler.NewMessageHandler(i.messageService, i.logger)
	friendHandler := handler.NewFriendHandler(i.friendService, i.logger)

	r := mux.NewRouter()

	r.HandleFunc("/user-register", authHandler.Register).Methods("POST")
	r.HandleFunc("/user-login", authHandler.Login).Methods("POST")
	r.HandleFunc("/user-logout", authHandler.Logout).Methods("POST")

	r.HandleFunc("/user-avatar", userHandler.SetAvatar).Methods("POST")
	r.HandleFunc("/user-game-tags", userHandler.SetGameTags).Methods("POST")
	r.HandleFunc("/user-friends", userHandler.ListFriends).Methods("GET")
	r.HandleFunc("/user-info-batch", userHandler.BatchInfo).Methods("POST")

	r.HandleFunc("/user-location", locationHandler.Report).Methods("POST")
	r.HandleFunc("/user-location", locationHandler.ListAll).Methods("GET")
	r.HandleFunc("/nearby-users", locationHandler.Nearby).Methods("GET")

	r.HandleFunc("/messages", messageHandler.Send).Methods("POST")
	r.HandleFunc("/messages", messageHandler.History).Methods("GET")
	r.HandleFunc("/unread-messages", messageHandler.Unread).Methods("GET")
	r.HandleFunc("/clear-chat-history", messageHandler.ClearHistory).Methods("POST")

	r.HandleFunc("/friend-request", friendHandler.SendRequest).Methods("POST")
	r.HandleFunc("/pending-friend-requests", friendHandler.OutgoingPending).Methods("GET")
	r.HandleFunc("/received-friend-requests", friendHandler.IncomingPending).Methods("GET")
	r.HandleFunc("/rejected-friend-requests", friendHandler.Rejected).Methods("GET")
	r.HandleFunc("/handle-friend-request", friendHandler.Handle).Methods("POST")
	r.HandleFunc("/delete-friend", friendHandler.DeleteFriend).Methods("POST")
	r.HandleFunc("/friend-list-events", friendHandler.FriendListEvents).Methods("GET")
	r.HandleFunc("/friend-list-events/read", friendHandler.FriendListEventsRead).Methods("POST")

	r.HandleFunc("/ws", realtime.ServeWS(i.hub, i.friendService, i.messageService, []byte(cfg.SecretKey), i.logger))

	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	root := i.PauseMiddleware(middleware.SessionIdentity(cookieStore, r))

	i.server = &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        root,
		ReadTimeout:    time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		select {
		case <-ctx.Done():
			i.logger.Info("received stop signal, shutting down")
		case <-i.stopFromOutsideChan:
			i.logger.Info("server was asked to stop, shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := i.server.Shutdown(shutdownCtx); err != nil {
			i.logger.Errorw("error during shutdown", "error", err)
		}
		close(i.doneFromInsideChan)
	}()

	i.running.Store(true)
	i.logger.Infow("http gateway listening", "addr", cfg.HTTPAddr)

	if err := i.server.ListenAndServe(); err != http.ErrServerClosed {
		i.logger.Errorw("http server error", "error", err)
		return err
	}
	return nil
}

func (i *InputManager) Stop() {
	close(i.stopFromOutsideChan)
	<-i.doneFromInsideChan
	i.running.Store(false)
}
