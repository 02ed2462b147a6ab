package server

import (
	"cinequiz/internal/analytics"
	"cinequiz/internal/cache"
	"cinequiz/internal/db"
	"cinequiz/internal/metrics"
	"cinequiz/internal/rooms"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrSize           = 320
	defaultBoardSize = 10
	maxBoardSize     = 100
	healthTimeout    = 2 * time.Second
)

type Server struct {
	Rooms   *rooms.Registry
	Hub     http.Handler
	Metrics *metrics.Metrics   // nil disables /metrics
	DB      *db.DB             // nil if no database configured
	Queries *analytics.Queries // nil if no database configured
	Cache   *cache.Cache       // nil if no redis configured
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	mux := httprouter.New()
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.Log.Error("handler panic", zap.String("path", r.URL.Path), zap.Any("panic", v))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}

	mux.Handler(http.MethodGet, "/ws", s.Hub)
	mux.GET("/rooms", s.handleRooms)
	mux.GET("/rooms/:name", s.handleRoomUsers)
	mux.GET("/rooms/:name/qr", s.handleRoomQR)
	mux.GET("/leaderboard", s.handleLeaderboard)
	mux.GET("/players/:name/stats", s.handlePlayerStats)
	mux.GET("/health", s.handleHealth)
	if s.Metrics != nil {
		mux.Handler(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Debug("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, s.Rooms.List())
}

func (s *Server) handleRoomUsers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	users := s.Rooms.Users(ps.ByName("name"))
	if users == nil {
		s.writeError(w, http.StatusNotFound, rooms.ErrRoomNotFound.Message)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

// handleRoomQR serves a PNG QR code of the link that joins the room.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	link := scheme + "://" + r.Host + "/?room=" + url.QueryEscape(name)

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		s.Log.Warn("qr generation failed", zap.String("room", name), zap.Error(err))
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := defaultBoardSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxBoardSize {
			s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}
	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "score"
	}
	if !analytics.ValidCategory(category) {
		s.writeError(w, http.StatusBadRequest, "Unknown leaderboard category")
		return
	}

	switch {
	case s.Queries != nil:
		entries, err := s.Queries.GetLeaderboard(r.Context(), category, limit)
		if err != nil {
			s.Log.Warn("leaderboard query failed", zap.String("category", category), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Error loading leaderboard")
			return
		}
		s.writeJSON(w, http.StatusOK, entries)
	case s.Cache != nil && category == "score":
		entries, err := s.Cache.Top(r.Context(), limit)
		if err != nil {
			s.Log.Warn("leaderboard cache failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Error loading leaderboard")
			return
		}
		s.writeJSON(w, http.StatusOK, entries)
	default:
		s.writeError(w, http.StatusServiceUnavailable, "Leaderboard requires a database connection")
	}
}

type playerStatsResponse struct {
	Name        string            `json:"name"`
	GamesPlayed int               `json:"gamesPlayed"`
	TotalScore  int               `json:"totalScore"`
	BestGame    int               `json:"bestGame"`
	WinCount    int               `json:"winCount"`
	WinStreak   int               `json:"winStreak"`
	Badges      []analytics.Badge `json:"badges"`
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if s.Queries == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Player stats require a database connection")
		return
	}
	name := ps.ByName("name")
	stats, err := s.Queries.GetPlayerLifetimeStats(r.Context(), name)
	if errors.Is(err, analytics.ErrPlayerNotFound) {
		s.writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		s.Log.Warn("player stats failed", zap.String("player", name), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error loading player stats")
		return
	}

	badges := stats.Badges
	if stored, err := s.DB.GetPlayerBadges(r.Context(), name); err == nil {
		badges = badges[:0:0]
		for _, id := range stored {
			if b, ok := analytics.AllBadges[analytics.BadgeID(id)]; ok {
				badges = append(badges, b)
			}
		}
	}
	if badges == nil {
		badges = []analytics.Badge{}
	}

	s.writeJSON(w, http.StatusOK, playerStatsResponse{
		Name:        stats.Name,
		GamesPlayed: stats.GamesPlayed,
		TotalScore:  stats.TotalScore,
		BestGame:    stats.BestGame,
		WinCount:    stats.WinCount,
		WinStreak:   stats.WinStreak,
		Badges:      badges,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if s.DB != nil {
		if err := s.DB.Ping(ctx); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Ping(ctx); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "cache_error", "error": err.Error()})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
