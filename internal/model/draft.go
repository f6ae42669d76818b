package model

// ViewerID identifies one browser looking at a board
type ViewerID string

// Draft is the unsaved text held by one viewer's add-player form
type Draft struct {
	BoardCode BoardCode
	ViewerID  ViewerID
	Name      string
}
