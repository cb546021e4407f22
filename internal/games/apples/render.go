package apples

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/apple-arcade/internal/core"
)

const (
	cellWidth  = 3 // " 7 "
	hudHeight  = 2 // title + score/clock
	footHeight = 2 // blank + controls
)

// layout places the board on screen and maps screen cells back to grid cells.
type layout struct {
	board core.Rect // board including its border
	cols  int
	rows  int
	fits  bool
}

func newLayout(cols, rows, screenW, screenH int) layout {
	boardW := cols*cellWidth + 2
	boardH := rows + 2

	l := layout{
		cols: cols,
		rows: rows,
		fits: screenW >= boardW && screenH >= boardH+hudHeight+footHeight,
	}
	l.board = core.NewRect((screenW-boardW)/2, hudHeight, boardW, boardH)
	return l
}

// cellRect returns the screen area of grid cell (row, col).
func (l layout) cellRect(row, col int) core.Rect {
	return core.NewRect(l.board.X+1+col*cellWidth, l.board.Y+1+row, cellWidth, 1)
}

// cellAt maps a screen position to a grid cell.
func (l layout) cellAt(x, y int) (row, col int, ok bool) {
	inner := core.NewRect(l.board.X+1, l.board.Y+1, l.cols*cellWidth, l.rows)
	if !l.fits || !inner.Contains(x, y) {
		return 0, 0, false
	}
	return y - inner.Y, (x - inner.X) / cellWidth, true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	g.renderBoard(dst)
	g.renderFooter(dst)
	g.renderOverlays(dst)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	need := fmt.Sprintf("Need %dx%d", g.layout.board.W, g.layout.board.H+hudHeight+footHeight)
	dst.DrawTextCentered(y+1, need)
}

// renderHUD draws the title, score and clock above the board.
func (g *Game) renderHUD(dst *core.Screen) {
	board := g.layout.board
	snap := g.session.Snapshot()

	title := "APPLE GAME"
	dst.DrawTextColored(board.X+(board.W-len(title))/2, 0, title, core.ColorBrightRed)

	if g.variant == VariantZen {
		dst.DrawText(board.X, 1, fmt.Sprintf("Apples left: %d", snap.TilesLeft))
		mode := "Zen"
		dst.DrawText(board.Right()-len(mode), 1, mode)
		return
	}

	dst.DrawText(board.X, 1, fmt.Sprintf("Score: %d / %d", snap.Score, snap.TotalTiles))

	clock := "Time " + snap.Clock
	dst.DrawTextColored(board.Right()-len(clock), 1, clock, urgencyColor(snap.Urgency))
}

// renderBoard draws the border, the tiles, the selection and the cursor.
func (g *Game) renderBoard(dst *core.Screen) {
	dst.DrawBox(g.layout.board)

	grid := g.session.Grid()
	sel := g.session.Selection()
	showHint := g.hintTicks > 0

	for row := range grid.Height() {
		for col := range grid.Width() {
			r := g.layout.cellRect(row, col)
			v := grid.At(row, col)

			glyph := "·"
			color := core.ColorGray
			if v != Empty {
				glyph = strconv.Itoa(v)
				color = core.ColorRed
			}
			if showHint && g.hint.Contains(col, row) {
				color = core.ColorBrightGreen
			}

			dst.DrawTextColored(r.X+1, r.Y, glyph, color)

			if sel.Contains(row, col) {
				dst.Highlight(r, true)
			}
		}
	}

	if !g.session.Finished() {
		r := g.layout.cellRect(g.cursor.Row, g.cursor.Col)
		dst.SetColored(r.X, r.Y, '[', core.ColorBrightYellow)
		dst.SetColored(r.Right()-1, r.Y, ']', core.ColorBrightYellow)
	}
}

// renderFooter draws the running sum of the selection or the controls.
func (g *Game) renderFooter(dst *core.Screen) {
	y := g.layout.board.Bottom() + 1
	sel := g.session.Selection()

	switch {
	case sel.Active():
		sum := g.session.Grid().Sum(sel.Rect())
		color := core.ColorDefault
		if sum == g.cfg.Rules.TargetSum {
			color = core.ColorBrightGreen
		} else if sum > g.cfg.Rules.TargetSum {
			color = core.ColorBrightRed
		}
		line := fmt.Sprintf("Sum: %d / %d", sum, g.cfg.Rules.TargetSum)
		dst.DrawTextColored((g.screenW-len(line))/2, y, line, color)
	case g.session.State() == StatePlaying && !g.session.MovesLeft():
		dst.DrawTextCentered(y, "No moves left - press R for a new board")
	default:
		dst.DrawTextCentered(y, g.Controls())
	}
}

// renderOverlays draws pause and end-of-round boxes.
func (g *Game) renderOverlays(dst *core.Screen) {
	cx, cy := g.layout.board.Center()
	score := fmt.Sprintf("Final score: %d", g.session.Score())

	switch {
	case g.paused:
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.session.State() == StateCompleted:
		g.drawOverlay(dst, cx, cy, "ALL APPLES PICKED!", score, "R: Restart  B: Menu")
	case g.session.State() == StateTimedOut:
		g.drawOverlay(dst, cx, cy, "TIME'S UP!", score, "R: Restart  B: Menu")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.Highlight(box, false)
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Drag or Arrows+Space | ?: Hint | P: Pause | R: Restart | Q: Quit"
}

func urgencyColor(u Urgency) core.Color {
	switch u {
	case UrgencyDanger:
		return core.ColorBrightRed
	case UrgencyWarning:
		return core.ColorYellow
	default:
		return core.ColorDefault
	}
}
