package pages

import (
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/web/templates/components"
	"github.com/mcoot/scoreboard/internal/web/templates/layout"
)

// HomeData is rendered by Home
type HomeData struct {
	layout.PageData
}

// BoardData is rendered by Board
type BoardData struct {
	layout.PageData
	Code model.BoardCode
	View components.ScoreboardView
}
