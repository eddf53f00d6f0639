package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeJoin  MessageType = "join"
	MessageTypeReady MessageType = "ready"
	MessageTypePlay  MessageType = "play"
	MessageTypePass  MessageType = "pass"
	MessageTypeChat  MessageType = "chat"

	// Server to client messages
	MessageTypeWelcome      MessageType = "welcome"
	MessageTypeFull         MessageType = "full"
	MessageTypePlayerJoined MessageType = "player_joined"
	MessageTypePlayerLeft   MessageType = "player_left"
	MessageTypePlayerReady  MessageType = "player_ready"
	MessageTypeGameStarted  MessageType = "game_started"
	MessageTypeState        MessageType = "state"
	MessageTypeMove         MessageType = "move"
	MessageTypeMoveRejected MessageType = "move_rejected"
	MessageTypeGameOver     MessageType = "game_over"
	MessageTypeGameAborted  MessageType = "game_aborted"
	MessageTypeTurnTimeout  MessageType = "turn_timeout"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
