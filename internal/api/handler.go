package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/service"
	"github.com/Itoshi-web/idksan/internal/storage"
	"github.com/Itoshi-web/idksan/internal/ws"
)

// Handler groups all HTTP handlers of the backend.
type Handler struct {
	svc        *service.GameService
	repo       storage.Repository
	hub        *ws.Hub
	sessionTTL time.Duration
}

// NewHandler creates a Handler. repo may be nil when running without a
// database (guest sessions still work, stats endpoints return 503).
func NewHandler(svc *service.GameService, repo storage.Repository, hub *ws.Hub, sessionTTL time.Duration) *Handler {
	return &Handler{svc: svc, repo: repo, hub: hub, sessionTTL: sessionTTL}
}

// RegisterRoutes mounts every endpoint under the API prefix.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	apiGroup := r.Group(constants.RouteAPIPrefix)

	apiGroup.GET(constants.RouteVersion, Version)
	apiGroup.POST(constants.RouteGuestLogin, h.GuestLogin)
	apiGroup.GET(constants.RoutePublicRooms, h.PublicRooms)
	apiGroup.GET(constants.RouteLeaderboard, h.Leaderboard)

	auth := apiGroup.Group("", AuthRequired())
	auth.GET(constants.RoutePlayerStats, h.PlayerStats)
	auth.POST(constants.RouteRooms, h.CreateRoom)
	auth.POST(constants.RouteRoomsJoin, h.JoinRoom)
	auth.GET(constants.RouteRoomByCode, h.GetRoom)
	auth.POST(constants.RouteRoomReady, h.SetReady)
	auth.POST(constants.RouteRoomLeave, h.LeaveRoom)
	auth.POST(constants.RouteRoomStart, h.StartRoom)
	auth.POST(constants.RouteRoomBots, h.AddBot)
	auth.DELETE(constants.RouteRoomBots, h.RemoveBot)
	auth.POST(constants.RouteRoomAction, h.SubmitAction)

	// The websocket endpoint authenticates via query token because browsers
	// cannot set headers on upgrade requests.
	apiGroup.GET(constants.RouteRoomWS, h.RoomWS)
}
