package domain

// UserState represents what kind of text input the bot expects from a user
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingWord        UserState = "waiting_word"
	StateWaitingTranslation UserState = "waiting_translation"
)

// StateData holds temporary data for user's current input state
type StateData struct {
	State       UserState
	CurrentWord string
	Example     string
}
