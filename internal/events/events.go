// Package events defines the outbound events pushed to connections.
package events

const (
	RoomsList     = "rooms-list"
	RoomJoined    = "room-joined"
	UsersList     = "users-list"
	Message       = "message"
	HostPromoted  = "host-promoted"
	Error         = "error"
	GameStarted   = "game-started"
	Question      = "question"
	QuestionEnded = "question-ended"
	GameEnded     = "game-ended"
)

// Event is one outbound frame. It is encoded as {"event": ..., "data": ...}.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type RoomInfo struct {
	Name     string `json:"name"`
	NbUsers  int    `json:"nbUsers"`
	MaxUsers int    `json:"maxUsers"`
}

type RoomJoinedPayload struct {
	RoomName string `json:"roomName"`
	User     string `json:"user"`
	Host     bool   `json:"host"`
}

type UserInfo struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Ready bool   `json:"ready"`
	Host  bool   `json:"host"`
}

type ChatMessage struct {
	Time int64  `json:"time"` // unix milliseconds
	User string `json:"user"`
	Msg  string `json:"msg"`
}

type HostPromotedPayload struct {
	RoomName string `json:"roomName"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type GameStartedPayload struct {
	RoomName       string `json:"roomName"`
	TotalQuestions int    `json:"totalQuestions"`
}

type QuestionView struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type QuestionPayload struct {
	Question    QuestionView `json:"question"`
	TimeLimitMs int64        `json:"timeLimitMs"`
}

type QuestionResult struct {
	ID                 string `json:"id"`
	User               string `json:"user"`
	Correct            bool   `json:"correct"`
	Bonus              int    `json:"bonus"`
	Points             int    `json:"points"`
	TotalAfterQuestion int    `json:"totalAfterQuestion"`
}

type ScoreEntry struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Score int    `json:"score"`
}

type QuestionEndedPayload struct {
	QuestionIndex int              `json:"questionIndex"`
	Results       []QuestionResult `json:"results"`
	Scores        []ScoreEntry     `json:"scores"`
}

type PlayerBadges struct {
	ID     string   `json:"id"`
	User   string   `json:"user"`
	Badges []string `json:"badges"`
}

type GameEndedPayload struct {
	RoomName string         `json:"roomName"`
	Scores   []ScoreEntry   `json:"scores"`
	Badges   []PlayerBadges `json:"badges,omitempty"`
}

func NewError(msg string) Event {
	return Event{Name: Error, Data: ErrorPayload{Message: msg}}
}
