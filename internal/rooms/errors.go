package rooms

// Error is a request error reported to the requesting connection only.
// Message is user facing.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrEmptyRoomName        = &Error{Code: "EmptyRoomName", Message: "Room name cannot be empty"}
	ErrRoomFull             = &Error{Code: "RoomFull", Message: "Room is full"}
	ErrRoomNotFound         = &Error{Code: "RoomNotFound", Message: "Room not found"}
	ErrUserNotFound         = &Error{Code: "UserNotFound", Message: "User not found in room"}
	ErrNotInRoom            = &Error{Code: "NotInRoom", Message: "You are not in this room"}
	ErrNotHost              = &Error{Code: "NotHost", Message: "Only host can start the game"}
	ErrGameAlreadyRunning   = &Error{Code: "GameAlreadyRunning", Message: "A game is already running in this room"}
	ErrNoQuestionsAvailable = &Error{Code: "NoQuestionsAvailable", Message: "No questions available"}
)
