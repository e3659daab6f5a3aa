// Package input turns SDL2 events into the viewer's camera and toggle controls.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // Relative motion, or wheel ticks for EventMouseWheel
	DeltaY int
	Button uint8
}

// Input collects one frame of events and tracks held keys and buttons.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			i.Push(e)
			quit = quit || e.Type == EventQuit
		}
	}
	return quit
}

// Push records an event as if it had been polled.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseDown:
		i.buttons[e.Button] = true
	case EventMouseUp:
		delete(i.buttons, e.Button)
	}
	i.events = append(i.events, e)
}

// Reset drops the events of the current frame, keeping held state.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		typ := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			typ = EventMouseDown
		}
		return Event{Type: typ, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, DeltaX: int(e.X), DeltaY: int(e.Y)}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether the key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether the key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsButtonDown reports whether the mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// Drag returns the summed mouse motion of this frame while button is held.
func (i *Input) Drag(button uint8) (dx, dy float32) {
	if !i.buttons[button] {
		return 0, 0
	}
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += float32(e.DeltaX)
			dy += float32(e.DeltaY)
		}
	}
	return dx, dy
}

// Wheel returns the summed vertical wheel ticks of this frame.
func (i *Input) Wheel() float32 {
	var total float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			total += float32(e.DeltaY)
		}
	}
	return total
}

// Axis returns +1, -1 or 0 from a pair of held keys.
func (i *Input) Axis(positive, negative sdl.Scancode) float32 {
	var v float32
	if i.held[positive] {
		v++
	}
	if i.held[negative] {
		v--
	}
	return v
}
