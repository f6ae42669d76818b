package request

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// ChangeScoreRequest is the request body for changing a player's score
type ChangeScoreRequest struct {
	Delta int `json:"delta"`
}
