package areaview

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/areasim/internal/area"
	"github.com/udisondev/areasim/internal/model"
)

const (
	// keyHold is how long a movement key counts as held after its last
	// press. Terminals report repeats but never releases.
	keyHold = 500 * time.Millisecond

	tickInterval = 100 * time.Millisecond
)

// Module is the part of *game.Module the viewer drives.
type Module interface {
	WithArea(fn func(a *area.Area)) bool
	Handle(ev area.InputEvent) bool
}

var (
	floorStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// Viewer draws the current area of a module on a terminal screen and
// forwards terminal input to it.
type Viewer struct {
	screen tcell.Screen
	module Module
	camera *Camera

	buttons tcell.ButtonMask
	held    map[area.Key]time.Time
	redraw  chan struct{}
}

// New creates a viewer over an initialized screen. The caller owns the
// screen and calls Fini after Run returns.
func New(screen tcell.Screen, module Module) *Viewer {
	w, h := screen.Size()
	return &Viewer{
		screen: screen,
		module: module,
		camera: NewCamera(w, max(h-1, 0)),
		held:   make(map[area.Key]time.Time),
		redraw: make(chan struct{}, 1),
	}
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *Camera {
	return v.camera
}

// Invalidate requests a redraw. Safe to call from any goroutine.
func (v *Viewer) Invalidate() {
	select {
	case v.redraw <- struct{}{}:
	default:
	}
}

// Run draws and handles input until ctx is canceled or the user quits
// (q, Esc or Ctrl-C). A user quit returns nil.
func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	v.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if isQuit(ev) {
				slog.Info("viewer closed by user")
				return nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				v.screen.Sync()
			}
			v.handle(ev, time.Now())
			v.Draw()

		case <-v.redraw:
			v.Draw()

		case now := <-ticker.C:
			v.releaseKeys(now)
		}
	}
}

func isQuit(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return key.Rune() == 'q'
	}
	return false
}

func (v *Viewer) handle(ev tcell.Event, now time.Time) {
	in, ok := v.Translate(ev)
	if !ok {
		return
	}
	if in.Type == area.InputKeyDown && isMovementKey(in.Key) {
		v.held[in.Key] = now
	}
	v.module.Handle(in)
}

// releaseKeys sends a key up for every movement key not repeated within
// keyHold.
func (v *Viewer) releaseKeys(now time.Time) {
	for key, last := range v.held {
		if now.Sub(last) < keyHold {
			continue
		}
		delete(v.held, key)
		v.module.Handle(area.InputEvent{Type: area.InputKeyUp, Key: key})
	}
}

func isMovementKey(k area.Key) bool {
	switch k {
	case area.KeyW, area.KeyA, area.KeyS, area.KeyD:
		return true
	}
	return false
}

// Translate converts a terminal event into an area input event. Mouse
// events over the status line and keys the area does not know are
// dropped.
func (v *Viewer) Translate(ev tcell.Event) (area.InputEvent, bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0
		v.buttons = buttons
		if y >= v.camera.height {
			return area.InputEvent{}, false
		}
		if pressed {
			return area.InputEvent{Type: area.InputMouseClick, X: x, Y: y}, true
		}
		return area.InputEvent{Type: area.InputMouseMove, X: x, Y: y}, true

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyTab:
			return area.InputEvent{Type: area.InputKeyDown, Key: area.KeyTab}, true
		case tcell.KeyBacktab:
			return area.InputEvent{Type: area.InputKeyDown, Key: area.KeyTab, Shift: true}, true
		case tcell.KeyRune:
			key := runeKey(ev.Rune())
			if key == area.KeyNone {
				return area.InputEvent{}, false
			}
			return area.InputEvent{Type: area.InputKeyDown, Key: key, Shift: unicode.IsUpper(ev.Rune())}, true
		}
	}
	return area.InputEvent{}, false
}

func runeKey(r rune) area.Key {
	switch unicode.ToLower(r) {
	case 'w':
		return area.KeyW
	case 'a':
		return area.KeyA
	case 's':
		return area.KeyS
	case 'd':
		return area.KeyD
	case ' ', 'p':
		return area.KeyPause
	}
	return area.KeyNone
}

// Draw renders one frame: the area map centered on the party leader and
// a status line on the last row.
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	v.camera.Resize(w, max(h-1, 0))
	v.screen.Clear()

	drawn := v.module.WithArea(func(a *area.Area) {
		a.SetCamera(v.camera, true)
		if leader := a.Leader(); leader != nil {
			v.camera.Center = leader.Position()
		}
		v.drawRooms(a)
		v.drawObjects(a)
		v.drawStatus(a, h-1)
	})
	if !drawn {
		v.drawText(0, 0, "no area loaded", tcell.StyleDefault)
	}
	v.screen.Show()
}

// drawRooms casts one ray per cell into the walkmeshes of visible rooms.
func (v *Viewer) drawRooms(a *area.Area) {
	rooms := a.Rooms()
	for y := range v.camera.height {
		for x := range v.camera.width {
			origin, dir := v.camera.Unproject(x, y)
			for _, room := range rooms {
				wm := room.Walkmesh()
				if wm == nil || !room.Visible() {
					continue
				}
				b := room.WorldBounds()
				if origin.X < b.Min.X || origin.X > b.Max.X || origin.Y < b.Min.Y || origin.Y > b.Max.Y {
					continue
				}
				lo := room.Transform().ToLocal(origin)
				if _, _, ok := wm.RaycastWalkableFirst(lo, dir); ok {
					v.screen.SetContent(x, y, '.', nil, floorStyle)
					break
				}
				if _, _, ok := wm.RaycastNonWalkableFirst(lo, dir); ok {
					v.screen.SetContent(x, y, '#', nil, wallStyle)
					break
				}
			}
		}
	}
}

func (v *Viewer) drawObjects(a *area.Area) {
	leader := a.Leader()
	sel := a.Selector()
	for _, obj := range a.Objects() {
		if leader != nil && obj.ObjectID() == leader.ObjectID() {
			continue
		}
		v.drawObject(obj, leader, sel.Highlighted(), sel.Selected())
	}
	if leader != nil {
		v.drawObject(leader, leader, 0, 0)
	}
}

func (v *Viewer) drawObject(obj model.Object, leader *model.Creature, highlighted, selected uint32) {
	base := obj.Base()
	if !base.Visible() {
		return
	}
	glyph, style, ok := glyphFor(obj, leader)
	if !ok {
		return
	}
	x, y, ok := v.camera.Project(base.Position())
	if !ok {
		return
	}
	if obj.ObjectID() == highlighted {
		style = style.Underline(true)
	}
	if obj.ObjectID() == selected {
		style = style.Reverse(true)
	}
	v.screen.SetContent(x, y, glyph, nil, style)
}

// glyphFor returns the cell for objects that have a presence on the map.
func glyphFor(obj model.Object, leader *model.Creature) (rune, tcell.Style, bool) {
	switch o := obj.(type) {
	case *model.Creature:
		switch {
		case o == leader:
			return '@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true), true
		case o.IsDead():
			return '%', tcell.StyleDefault.Foreground(tcell.ColorGray), true
		case leader != nil && o.IsEnemy(leader):
			return 'M', tcell.StyleDefault.Foreground(tcell.ColorRed), true
		default:
			return 'n', tcell.StyleDefault.Foreground(tcell.ColorGreen), true
		}
	case *model.Door:
		if o.IsOpen() {
			return '\'', tcell.StyleDefault.Foreground(tcell.ColorOlive), true
		}
		return '+', tcell.StyleDefault.Foreground(tcell.ColorOlive), true
	case *model.Placeable:
		return '&', tcell.StyleDefault.Foreground(tcell.ColorBlue), true
	}
	return 0, tcell.StyleDefault, false
}

func (v *Viewer) drawStatus(a *area.Area, row int) {
	if row < 0 {
		return
	}
	status := fmt.Sprintf(" %s  t=%.1fs  objects=%d", a.Name(), a.Time(), a.ObjectCount())
	if a.Paused() {
		status += "  PAUSED"
	}
	if obj, ok := a.Object(a.Selector().Selected()); ok {
		status += "  [" + obj.Base().Name() + "]"
	}
	v.drawText(0, row, status, statusStyle)
}

func (v *Viewer) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
