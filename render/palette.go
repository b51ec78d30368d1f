package render

import "github.com/gdamore/tcell/v2"

// Team jerseys, cycled by team ID
var teamColors = []tcell.Color{
	tcell.NewRGBColor(230, 57, 70),
	tcell.NewRGBColor(69, 123, 157),
	tcell.NewRGBColor(255, 209, 102),
	tcell.NewRGBColor(6, 214, 160),
	tcell.NewRGBColor(239, 131, 84),
	tcell.NewRGBColor(155, 93, 229),
	tcell.NewRGBColor(241, 91, 181),
	tcell.NewRGBColor(0, 187, 249),
}

var (
	colorBackground = tcell.NewRGBColor(18, 20, 24)
	colorRoad       = tcell.NewRGBColor(90, 94, 102)
	colorText       = tcell.NewRGBColor(210, 214, 220)
	colorDim        = tcell.NewRGBColor(120, 124, 132)
	colorHeader     = tcell.NewRGBColor(255, 255, 255)
	colorBreakaway  = tcell.NewRGBColor(120, 80, 0)
	colorWarn       = tcell.NewRGBColor(255, 99, 71)
)

// TeamColor returns the jersey colour of a team
func TeamColor(team int) tcell.Color {
	if team < 0 {
		team = -team
	}
	return teamColors[team%len(teamColors)]
}

func baseStyle() tcell.Style {
	return tcell.StyleDefault.Background(colorBackground).Foreground(colorText)
}
