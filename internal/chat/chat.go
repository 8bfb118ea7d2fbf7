// Package chat defines the boundary between the bot core and whatever
// transport delivers messages. The core consumes Events and produces
// Responses; it never learns how either is rendered on the wire.
package chat

import "context"

// Event is one incoming interaction. Exactly one of Text or Choice is
// meaningful: Choice carries the data of a tapped button, Text everything
// typed, commands included.
type Event struct {
	UserID uint64
	Text   string
	Choice string
}

// Button is an inline choice offered with a response.
type Button struct {
	Label string
	Data  string
}

// Response is what the core wants delivered back: text, optionally with
// choice buttons, or a rendered image with a caption.
type Response struct {
	Text    string
	Buttons []Button
	Photo   []byte
	Caption string
}

// Handler processes one event and returns the response for it. Errors mean
// a collaborator failed; the transport is responsible for showing the user
// something safe.
type Handler interface {
	Handle(ctx context.Context, ev Event) (Response, error)
}
