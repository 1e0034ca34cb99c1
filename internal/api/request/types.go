package request

// CreateGameRequest is the request body for creating a game.
// Zero dimensions select the beginner board.
type CreateGameRequest struct {
	Width       int   `json:"width,omitempty"`
	Height      int   `json:"height,omitempty"`
	Mines       int   `json:"mines,omitempty"`
	SafeOpening *bool `json:"safe_opening,omitempty"`
}

// MoveRequest is the request body for revealing or flagging a cell
type MoveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
