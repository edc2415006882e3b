package server

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/grocerymate/internal/account"
	"github.com/dukerupert/grocerymate/internal/backup"
	"github.com/dukerupert/grocerymate/internal/chat"
	"github.com/dukerupert/grocerymate/internal/completion"
	"github.com/dukerupert/grocerymate/internal/config"
	"github.com/dukerupert/grocerymate/internal/grocery"
	"github.com/dukerupert/grocerymate/internal/handler"
	"github.com/dukerupert/grocerymate/internal/knowledge"
	"github.com/dukerupert/grocerymate/internal/local"
	"github.com/dukerupert/grocerymate/internal/middleware"
	"github.com/dukerupert/grocerymate/internal/notify"
	"github.com/dukerupert/grocerymate/internal/remote"
	"github.com/dukerupert/grocerymate/internal/store"
	ws "github.com/dukerupert/grocerymate/internal/websocket"
)

type Server struct {
	cfg           *config.Config
	hub           *ws.Hub
	adapter       *local.Adapter
	accounts      *account.Store
	groceries     *grocery.Store
	assistant     *chat.Assistant
	authH         *handler.AuthHandler
	groceryH      *handler.GroceryHandler
	friendH       *handler.FriendHandler
	chatH         *handler.ChatHandler
	logH          *handler.LogHandler
	backupH       *handler.BackupHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

// Option customizes a Server. Tests use these to swap the remote facade.
type Option func(*options)

type options struct {
	facade   remote.Facade
	hashCost int
}

// WithFacade replaces the facade New would build from configuration.
func WithFacade(f remote.Facade) Option {
	return func(o *options) { o.facade = f }
}

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	hub := ws.NewHub(logger)
	notifier := notify.Fanout{hub, notify.Log{Logger: logger.With("component", "notify")}}

	kv := store.NewKVStore(db)
	adapter := local.NewAdapter(kv)

	facade := o.facade
	if facade == nil {
		facade = NewFacade(cfg, adapter, logger)
	}
	client := remote.NewClient(facade)

	accountOpts := []account.Option{
		account.WithNotifier(notifier),
		account.WithLogger(logger.With("component", "account")),
	}
	if o.hashCost > 0 {
		accountOpts = append(accountOpts, account.WithHashCost(o.hashCost))
	}
	accounts, err := account.NewStore(adapter, client, accountOpts...)
	if err != nil {
		return nil, fmt.Errorf("account store: %w", err)
	}

	groceryOpts := []grocery.Option{
		grocery.WithNotifier(notifier),
		grocery.WithLogger(logger.With("component", "grocery")),
	}
	if cfg.KnowledgeAPIKey != "" {
		svc := knowledge.NewService(cfg.KnowledgeAPIKey, knowledge.WithLogger(logger.With("component", "knowledge")))
		groceryOpts = append(groceryOpts, grocery.WithNameChecker(svc))
	}
	groceries := grocery.NewStore(adapter, client, accounts, groceryOpts...)

	assistant := NewAssistant(cfg, notifier, logger)

	backupMgr := backup.NewManager(BackupConfig(cfg.Backup), kv,
		backup.WithLogger(logger.With("component", "backup")),
		backup.WithStatusCallback(func(s backup.Status) {
			hub.Broadcast(ws.NewMessage("backup", string(s.State), s.LastKey, map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			}))
		}),
	)

	return &Server{
		cfg:           cfg,
		hub:           hub,
		adapter:       adapter,
		accounts:      accounts,
		groceries:     groceries,
		assistant:     assistant,
		authH:         handler.NewAuthHandler(accounts, logger),
		groceryH:      handler.NewGroceryHandler(groceries, logger),
		friendH:       handler.NewFriendHandler(groceries, logger),
		chatH:         handler.NewChatHandler(assistant, groceries, logger),
		logH:          handler.NewLogHandler(adapter, logger),
		backupH:       handler.NewBackupHandler(backupMgr, logger),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}, nil
}

// NewFacade picks the HTTP backend when a URL is configured and the
// simulated one otherwise. Both journal to the local API log.
func NewFacade(cfg *config.Config, adapter *local.Adapter, logger *slog.Logger) remote.Facade {
	remoteLogger := logger.With("component", "remote")
	var f remote.Facade
	if cfg.RemoteURL != "" {
		f = remote.NewHTTP(cfg.RemoteURL, cfg.RemoteToken,
			remote.WithHTTPJournal(adapter),
			remote.WithHTTPLogger(remoteLogger),
		)
	} else {
		f = remote.NewSimulated(
			remote.WithDelay(cfg.RemoteMinDelay, cfg.RemoteMaxDelay),
			remote.WithFailureRate(cfg.RemoteFailureRate),
			remote.WithJournal(adapter),
			remote.WithLogger(remoteLogger),
		)
	}
	if cfg.RemoteRetries > 0 {
		f = remote.NewRetrying(f, cfg.RemoteRetries, 0)
	}
	return f
}

// BackupConfig converts the loaded settings for backup.NewManager.
func BackupConfig(c config.BackupConfig) backup.Config {
	return backup.Config{
		S3: backup.S3Config{
			Endpoint:  c.Endpoint,
			Bucket:    c.Bucket,
			Region:    c.Region,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
		},
		Prefix:     c.Prefix,
		Passphrase: c.Passphrase,
		Interval:   c.Interval,
		Keep:       c.Keep,
	}
}

// Groceries returns the grocery store so shutdown can wait on its
// background remote calls.
func (s *Server) Groceries() *grocery.Store {
	return s.groceries
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// NewAssistant builds the chat assistant. Without an API key it only uses
// local answers.
func NewAssistant(cfg *config.Config, n notify.Notifier, logger *slog.Logger) *chat.Assistant {
	var completer chat.Completer
	if cfg.CompletionAPIKey != "" {
		completer = &completion.Client{
			APIKey:  cfg.CompletionAPIKey,
			BaseURL: cfg.CompletionBaseURL,
			Model:   cfg.CompletionModel,
		}
	}
	return chat.NewAssistant(completer, n, logger.With("component", "chat"))
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/signup", s.rateLimitedHandler(s.authH.SignUp))
	mux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.SignIn))
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("GET /api/users", s.authH.Users)
	mux.HandleFunc("POST /api/chat", s.chatH.Ask)
	mux.HandleFunc("GET /api/chat/phrases", s.chatH.Phrases)
	mux.HandleFunc("GET /api/backup", s.backupH.Status)
	mux.HandleFunc("GET /health", handler.Health)

	s.registerProtectedRoutes(mux)

	// Upgraded connections bypass the request logger.
	outerMux := http.NewServeMux()
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.greeting, s.logger.With("component", "websocket")))
	outerMux.Handle("/", middleware.RequestLogger(s.logger.With("component", "http"))(middleware.LoadUser(s.accounts)(mux)))
	return outerMux
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	limit, window := s.cfg.LoginRateLimit, s.cfg.LoginRateWindow
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return middleware.RateLimit(s.rateLimiter, middleware.ByIPAndPath, limit, window)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireUser(h))
	}

	protect("POST /api/logout", s.authH.Logout)

	protect("GET /api/items", s.groceryH.ListItems)
	protect("PUT /api/items/filter", s.groceryH.SetFilter)
	protect("POST /api/items", s.groceryH.CreateItem)
	protect("PUT /api/items/{id}", s.groceryH.UpdateItem)
	protect("DELETE /api/items/{id}", s.groceryH.DeleteItem)
	protect("POST /api/items/{id}/toggle", s.groceryH.ToggleItem)
	protect("POST /api/items/clear-completed", s.groceryH.ClearCompleted)
	protect("POST /api/sync", s.groceryH.Sync)

	protect("GET /api/friends", s.friendH.List)
	protect("POST /api/friends", s.friendH.Add)
	protect("DELETE /api/friends/{id}", s.friendH.Remove)

	protect("GET /api/logs", s.logH.List)
	protect("POST /api/backup", s.backupH.Run)
	protect("GET /api/backups", s.backupH.List)
}

// greeting sends a new connection the signed-in user and their list.
func (s *Server) greeting(r *http.Request) *ws.Message {
	extra := map[string]any{"user": s.accounts.CurrentUser()}
	if view, err := s.groceries.View(); err == nil {
		extra["view"] = view
	}
	return &ws.Message{Type: "snapshot", Extra: extra}
}
