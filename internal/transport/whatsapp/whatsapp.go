// Package whatsapp adapts the bot core to WhatsApp via whatsmeow. WhatsApp
// has no inline keyboards for regular clients, so choice buttons are sent
// as a numbered list and a later bare-number reply is mapped back to the
// button it named.
package whatsapp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thomasfsr/healthgo/internal/chat"
)

// Client drives one WhatsApp device session and feeds its messages to the
// bot core.
type Client struct {
	wa      *whatsmeow.Client
	handler chat.Handler
	log     zerolog.Logger

	mu      sync.Mutex
	pending map[uint64][]chat.Button // last buttons offered, per user
}

// New opens the device session database and builds a connected-but-idle
// client. Run starts it.
func New(ctx context.Context, dbPath string, handler chat.Handler, log zerolog.Logger) (*Client, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", dbPath)
	container, err := sqlstore.New(ctx, "sqlite3", dsn, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp session store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load whatsapp device: %w", err)
	}

	c := &Client{
		wa:      whatsmeow.NewClient(device, waLog.Noop),
		handler: handler,
		log:     log,
		pending: map[uint64][]chat.Button{},
	}
	c.wa.AddEventHandler(c.onEvent)
	return c, nil
}

// Run connects, prints a QR code when the device has no stored login, and
// blocks until the context is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if c.wa.Store.ID == nil {
		qrChan, _ := c.wa.GetQRChannel(ctx)
		if err := c.wa.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				fmt.Println("Scan to log in:", evt.Code)
			} else {
				c.log.Info().Str("event", evt.Event).Msg("whatsapp login")
			}
		}
	} else {
		if err := c.wa.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
	}

	<-ctx.Done()
	c.wa.Disconnect()
	return ctx.Err()
}

func (c *Client) onEvent(evt any) {
	msg, ok := evt.(*events.Message)
	if !ok {
		return
	}
	text := extractText(msg)
	if text == "" {
		return
	}

	sender := msg.Info.Sender
	userID, err := strconv.ParseUint(sender.User, 10, 64)
	if err != nil {
		c.log.Warn().Str("sender", sender.User).Msg("non-numeric sender, ignoring")
		return
	}

	ctx := context.Background()
	resp, err := c.handler.Handle(ctx, c.toEvent(userID, text))
	if err != nil {
		c.log.Error().Err(err).Uint64("user_id", userID).Msg("handler failed")
		resp = chat.Response{Text: "⚠️ Что-то пошло не так. Попробуйте ещё раз позже."}
	}

	jid := types.JID{User: sender.User, Server: sender.Server}
	if err := c.deliver(ctx, jid, userID, resp); err != nil {
		c.log.Error().Err(err).Uint64("user_id", userID).Msg("failed to send response")
	}
}

// toEvent maps a bare-number reply onto the button it picked, when buttons
// are pending. Anything else passes through as text.
func (c *Client) toEvent(userID uint64, text string) chat.Event {
	c.mu.Lock()
	buttons := c.pending[userID]
	c.mu.Unlock()

	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && n >= 1 && n <= len(buttons) {
		return chat.Event{UserID: userID, Choice: buttons[n-1].Data}
	}
	return chat.Event{UserID: userID, Text: text}
}

func (c *Client) deliver(ctx context.Context, jid types.JID, userID uint64, resp chat.Response) error {
	c.mu.Lock()
	c.pending[userID] = resp.Buttons
	c.mu.Unlock()

	if len(resp.Photo) > 0 {
		if err := c.sendImage(ctx, jid, resp.Photo, resp.Caption); err != nil {
			return err
		}
	}
	if text := renderText(resp); text != "" {
		_, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)})
		return err
	}
	return nil
}

func (c *Client) sendImage(ctx context.Context, jid types.JID, data []byte, caption string) error {
	uploaded, err := c.wa.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	img := &waE2E.ImageMessage{
		Caption:       proto.String(caption),
		Mimetype:      proto.String("image/png"),
		URL:           proto.String(uploaded.URL),
		DirectPath:    proto.String(uploaded.DirectPath),
		MediaKey:      uploaded.MediaKey,
		FileEncSHA256: uploaded.FileEncSHA256,
		FileSHA256:    uploaded.FileSHA256,
		FileLength:    proto.Uint64(uploaded.FileLength),
	}
	_, err = c.wa.SendMessage(ctx, jid, &waE2E.Message{ImageMessage: img})
	return err
}

// renderText appends the numbered button list to the response text.
func renderText(resp chat.Response) string {
	if len(resp.Buttons) == 0 {
		return resp.Text
	}
	var sb strings.Builder
	sb.WriteString(resp.Text)
	sb.WriteString("\n")
	for i, b := range resp.Buttons {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, b.Label)
	}
	sb.WriteString("\n\nОтветьте номером варианта.")
	return sb.String()
}

func extractText(msg *events.Message) string {
	if t := msg.Message.GetConversation(); t != "" {
		return t
	}
	if ext := msg.Message.ExtendedTextMessage; ext != nil && ext.Text != nil {
		return *ext.Text
	}
	if img := msg.Message.ImageMessage; img != nil && img.Caption != nil {
		return *img.Caption
	}
	return ""
}
