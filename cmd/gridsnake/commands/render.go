package commands

import (
	"fmt"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	headColor    = termbox.ColorYellow
	snakeColor   = termbox.ColorGreen
	foodColor    = termbox.ColorRed
)

// screen draws a board on the terminal. Only the cells named by a frame are
// redrawn; termbox keeps the rest of the back buffer.
type screen struct {
	title  string
	width  int
	height int
	left   int
	top    int
	turn   uint64
	score  uint32
}

func newScreen(title string, width, height uint32) *screen {
	return &screen{
		title:  title,
		width:  int(width),
		height: int(height),
		left:   2,
		top:    2,
	}
}

// fits reports whether the whole board fits on the terminal.
func (s *screen) fits() bool {
	w, h := termbox.Size()
	return s.left+s.width+1 <= w && s.top+s.height+3 <= h
}

func (s *screen) drawBoard() error {
	if err := termbox.Clear(defaultColor, bgColor); err != nil {
		return err
	}
	var (
		left   = s.left
		top    = s.top
		right  = s.left + s.width
		bottom = s.top + s.height + 1
	)
	for i := top + 1; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(right, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(right, top, '┐', defaultColor, bgColor)
	termbox.SetCell(right, bottom, '┘', defaultColor, bgColor)

	fill(left, top, s.width, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, s.width, 1, termbox.Cell{Ch: '─'})
	s.drawTitle()
	return nil
}

// apply paints the frame's changes. A snapshot frame repaints the whole
// board first.
func (s *screen) apply(f *pb.Frame) error {
	if f.Snapshot {
		fill(s.left, s.top+1, s.width, s.height, termbox.Cell{Ch: ' '})
	}
	for i := 0; i < int(f.Len); i++ {
		row, col := int(f.Rows[i]), int(f.Cols[i])
		if row >= s.height || col >= s.width {
			continue
		}
		c := rules.Cell(f.Cells[i])
		ch, fg, bg := cellStyle(c)
		termbox.SetCell(s.left+col, s.top+1+row, ch, fg, bg)
	}
	if !f.Halted {
		s.turn = f.Turn
	}
	s.score = f.Score
	s.drawTitle()
	if f.Halted {
		s.message(fmt.Sprintf("Game over: %s", f.HaltCause))
	}
	return termbox.Flush()
}

func (s *screen) drawTitle() {
	fill(s.left-1, s.top-1, s.width+2, 1, termbox.Cell{Ch: ' '})
	tbprint(s.left-1, s.top-1, defaultColor, defaultColor,
		fmt.Sprintf("%s - Turn %d - Score %d", s.title, s.turn, s.score))
}

// message writes a line below the board.
func (s *screen) message(msg string) {
	y := s.top + s.height + 2
	fill(s.left-1, y, s.width+2, 1, termbox.Cell{Ch: ' '})
	tbprint(s.left-1, y, defaultColor, defaultColor, msg)
}

func cellStyle(c rules.Cell) (rune, termbox.Attribute, termbox.Attribute) {
	switch c {
	case rules.CellHead:
		return ' ', headColor, headColor
	case rules.CellTail:
		return ' ', snakeColor, snakeColor
	case rules.CellFood:
		return '●', foodColor, bgColor
	}
	return ' ', defaultColor, bgColor
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}
