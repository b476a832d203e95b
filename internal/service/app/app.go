package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"secure_chat/internal/cryptographic/box"
	"secure_chat/internal/model"
	"secure_chat/internal/utils/log"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

type (
	// App is the terminal chat client. All encryption happens here: the
	// server only ever sees the sealed ciphertext and nonce.
	App struct {
		app     *tview.Application
		chatbox *tview.TextView
		input   *tview.InputField

		api *Client

		username string
		peer     string

		identity   *box.Identity
		sessionKey *[32]byte

		// highest message id already rendered, the cursor for catch-up
		// fetches after missed pushes
		sinceID int64

		conn *websocket.Conn
	}
)

func NewApp(api *Client) *App {
	return &App{
		app: tview.NewApplication(),
		api: api,
	}
}

// Run registers (or reuses) the account, logs in, derives the session key
// with the peer, replays the backlog and then hands over to the UI.
//
// The identity keypair is generated per run and re-registration is a
// no-op, so an account keeps the key it was first registered with; a peer
// talking to a re-run client re-resolves the key through the directory.
func (c *App) Run(ctx context.Context, username, password, peer string) {
	c.username = username
	c.peer = peer

	identity, err := box.NewIdentity()
	if err != nil {
		log.Fatal("generate identity failed", zap.Error(err))
	}
	c.identity = identity

	err = c.api.Register(ctx, username, password, identity.Public[:])
	if err != nil && !errors.Is(err, ErrUserExists) {
		log.Fatal("register failed", zap.Error(err))
	}

	if err := c.api.Login(ctx, username, password); err != nil {
		log.Fatal("login failed", zap.Error(err))
	}

	peerKey, err := c.api.GetPublicKey(ctx, peer)
	if err != nil {
		log.Fatal("peer key lookup failed", zap.String("peer", peer), zap.Error(err))
	}

	c.sessionKey, err = c.identity.SessionKey(peerKey)
	if err != nil {
		log.Fatal("derive session key failed", zap.Error(err))
	}

	c.conn, err = c.api.DialStream()
	if err != nil {
		log.Fatal("dial stream failed", zap.Error(err))
	}

	go c.listenOnStream()
	c.renderUI(ctx)
}

func (c *App) Stop() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.app.Stop()
}

// blocking
func (c *App) renderUI(ctx context.Context) {
	c.chatbox = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	c.chatbox.SetBorder(true).SetTitle(fmt.Sprintf(" Chat with %s ", c.peer))

	c.input = tview.NewInputField().
		SetLabel("Message: ").
		SetFieldWidth(0)
	c.input.SetBorder(true).SetTitle(" New Message ")

	c.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			text := c.input.GetText()
			if text == "" {
				return
			}

			go func(msg string) {
				if err := c.SendMessage(ctx, msg); err != nil {
					c.app.Suspend(func() {
						log.Error("send message failed", zap.Error(err))
					})
				}
			}(text)
		}
	})

	// Replay whatever arrived while offline before the UI takes over.
	if err := c.catchUp(ctx); err != nil {
		log.Error("backlog fetch failed", zap.Error(err))
	}

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(c.chatbox, 0, 1, false).
		AddItem(c.input, 3, 0, true)

	if err := c.app.SetRoot(layout, true).SetFocus(c.input).Run(); err != nil {
		log.Fatal("cannot init app", zap.Error(err))
	}
}

func (c *App) listenOnStream() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug("stream closed", zap.Error(err))
			c.conn.Close()
			break
		}

		var env model.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Error("unmarshal envelope failed", zap.Error(err))
			continue
		}

		if err := c.ReceiveMessage(&env); err != nil {
			c.app.Suspend(func() {
				log.Error("receive message failed", zap.Error(err))
			})
		}
	}
}

func (c *App) SendMessage(ctx context.Context, msg string) error {
	ciphertext, nonce, err := box.Seal(c.sessionKey, []byte(msg))
	if err != nil {
		return err
	}

	if _, err := c.api.SendMessage(ctx, c.peer, ciphertext, nonce); err != nil {
		return err
	}

	c.app.QueueUpdateDraw(func() {
		fmt.Fprintf(c.chatbox, "[yellow]You:[-] %s\n", msg)
		c.input.SetText("")
		c.chatbox.ScrollToEnd()
	})
	return nil
}

func (c *App) ReceiveMessage(env *model.Envelope) error {
	// Pushes can replay what a catch-up fetch already rendered.
	if env.ID <= c.sinceID {
		return nil
	}

	plaintext, err := box.Open(c.sessionKey, env.Ciphertext, env.Nonce)
	if err != nil {
		// Sealed by someone other than the current peer; leave it in the
		// log for a session that holds the right key.
		return fmt.Errorf("message %d from %s: %w", env.ID, env.From, err)
	}

	c.sinceID = env.ID
	c.app.QueueUpdateDraw(func() {
		fmt.Fprintf(c.chatbox, "[green]%s:[-] %s\n", env.From, string(plaintext))
		c.chatbox.ScrollToEnd()
	})
	return nil
}

func (c *App) catchUp(ctx context.Context) error {
	envs, err := c.api.FetchMessages(ctx, c.sinceID)
	if err != nil {
		return err
	}

	for _, env := range envs {
		if env.ID > c.sinceID {
			c.sinceID = env.ID
		}
		plaintext, err := box.Open(c.sessionKey, env.Ciphertext, env.Nonce)
		if err != nil {
			log.Debug("skipping undecryptable backlog message",
				zap.Int64("id", env.ID), zap.String("from", env.From))
			continue
		}
		fmt.Fprintf(c.chatbox, "[green]%s:[-] %s\n", env.From, string(plaintext))
	}
	return nil
}
