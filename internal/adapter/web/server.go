package web

import (
	"AnimalPics/internal/ai"
	"AnimalPics/internal/config"
	"AnimalPics/internal/service/animal"
	"AnimalPics/internal/service/media"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ImageFetcher — то, что UI вызывает по выбору пользователя.
type ImageFetcher interface {
	Fetch(ctx context.Context, category string) animal.Result
}

// Server — HTTP UI поверх ImageFetcher: страница с выбором животного, JSON API и websocket.
// Сам сервер состояния между запросами не хранит.
type Server struct {
	cfg       config.ServerConfig
	skipVideo bool
	providers []animal.ProviderConfig
	labels    map[string]string
	fetcher   ImageFetcher
	captioner ai.Captioner
	srv       *http.Server
	logger    *zap.SugaredLogger
	running   atomic.Bool

	mu sync.Mutex
	ln net.Listener

	pagePath string
	apiPath  string
	wsPath   string
}

func New(cfg *config.Config, providers []animal.ProviderConfig, fetcher ImageFetcher, captioner ai.Captioner, logger *zap.SugaredLogger) *Server {
	sc := cfg.Server
	if sc.BindAddr == "" {
		sc.BindAddr = "127.0.0.1:8080"
	}
	if sc.Path == "" {
		sc.Path = "/"
	}
	if captioner == nil {
		captioner = ai.NewStubCaptioner()
	}
	base := strings.TrimSuffix(sc.Path, "/")

	s := &Server{
		cfg:       sc,
		skipVideo: cfg.SkipVideo,
		providers: providers,
		labels:    make(map[string]string, len(providers)),
		fetcher:   fetcher,
		captioner: captioner,
		logger:    logger,
		pagePath:  base + "/",
		apiPath:   base + "/api/image",
		wsPath:    base + "/ws",
	}
	for _, p := range providers {
		s.labels[p.Category] = p.Label
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.pagePath, s.handlePage)
	mux.HandleFunc(s.apiPath, s.handleAPI)
	mux.HandleFunc(s.wsPath, s.handleWS)

	s.srv = &http.Server{
		Addr:              sc.BindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler возвращает роутер сервера (удобно для httptest).
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start занимает адрес синхронно: ошибка bind возвращается вызывающему,
// обслуживание запросов идёт в отдельной горутине.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	ln, err := net.Listen("tcp", s.cfg.BindAddr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("animal ui: listen %s: %w", s.cfg.BindAddr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		s.logger.Infow("Animal UI listening", "addr", ln.Addr().String(), "path", s.pagePath)
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("Animal UI stopped with error", "error", err)
		} else {
			s.logger.Infow("Animal UI stopped")
		}
	}()

	// Watch for context cancellation to stop the server
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("animal-ui shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

// Addr возвращает фактический адрес слушателя (с реальным портом для ":0"),
// до Start — адрес из конфигурации.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.BindAddr
}

// imageResponse — общий ответ для страницы, JSON API и websocket.
type imageResponse struct {
	Category string `json:"category"`
	URL      string `json:"url,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Video    bool   `json:"video,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Error    string `json:"error,omitempty"`

	kind animal.ErrorKind
}

func (s *Server) label(category string) string {
	if l, ok := s.labels[category]; ok && l != "" {
		return l
	}
	return category
}

// resolve выполняет один Fetch и готовит ответ для показа.
func (s *Server) resolve(ctx context.Context, category string) imageResponse {
	res := s.fetcher.Fetch(ctx, category)
	if !res.OK() {
		out := imageResponse{
			Category: category,
			Kind:     animal.MalformedResponse.String(),
			Error:    "failed to load the picture, please try again",
			kind:     animal.MalformedResponse,
		}
		if res.Err != nil {
			out.kind = res.Err.Kind
			out.Kind = res.Err.Kind.String()
			out.Error = res.Message()
		}
		return out
	}

	out := imageResponse{Category: category, URL: res.ImageURL, Video: media.IsVideo(res.ImageURL)}
	if out.Video && s.skipVideo {
		return out
	}

	label := s.label(category)
	caption, err := s.captioner.Caption(ctx, label, res.ImageURL)
	if err != nil {
		s.logger.Warnw("Caption failed, using default", "category", category, "error", err)
		caption = ai.DefaultCaption(label)
	}
	out.Caption = caption
	return out
}

func statusFor(kind animal.ErrorKind) int {
	switch kind {
	case 0:
		return http.StatusOK
	case animal.UnknownCategory:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
	http.Error(w, "method not allowed; use GET", http.StatusMethodNotAllowed)
	return false
}
