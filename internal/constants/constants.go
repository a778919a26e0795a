package constants

// Centralized constants for headers, env keys, routes and error messages.
const (
	// Environment variable keys
	EnvSessionSecret = "SESSION_SECRET"
	EnvConfigPath    = "IDKSAN_CONFIG"
	EnvDBPath        = "IDKSAN_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix   = "/api"
	RouteVersion     = "/version"
	RouteGuestLogin  = "/auth/guest"
	RoutePublicRooms = "/public-rooms"
	RouteLeaderboard = "/leaderboard"
	RoutePlayerStats = "/player-stats"
	RouteRooms       = "/rooms"
	RouteRoomsJoin   = "/rooms/join"
	RouteRoomByCode  = "/rooms/:roomCode"
	RouteRoomReady   = "/rooms/:roomCode/ready"
	RouteRoomLeave   = "/rooms/:roomCode/leave"
	RouteRoomStart   = "/rooms/:roomCode/start"
	RouteRoomBots    = "/rooms/:roomCode/bots"
	RouteRoomAction  = "/rooms/:roomCode/action"
	RouteRoomWS      = "/rooms/:roomCode/ws"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrInvalidRoomCode  = "Invalid room code"
	ErrRoomNotFound     = "Room not found"
	ErrRoomFull         = "Room is full"
	ErrWrongPassword    = "Wrong room password"
	ErrRoomStarted      = "Room has already started"
	ErrRoomNotStarted   = "Room has not started yet"
	ErrNotYourTurn      = "Not your turn"
	ErrNotRoomLeader    = "Only the room leader can do that"
	ErrNotInRoom        = "You are not in this room"
	ErrPlayersNotReady  = "All players must be ready to start"
	ErrNotEnoughPlayers = "Not enough players to start"
	ErrUnknownAction    = "Unknown action"

	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldRoomCode = "room_code"
	LogFieldPlayerID = "player_id"
	LogFieldUsername = "username"
	LogFieldAction   = "action"
	LogFieldTurn     = "turn"
	LogFieldAddr     = "addr"
)
