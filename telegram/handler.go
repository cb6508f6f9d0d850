package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/chatwarden/warden/automod/engine"
)

// Handler routes bot updates into the moderation engine.
type Handler struct {
	Logger *slog.Logger
	Engine *engine.Engine
	Client *Client

	// how long freshly joined members are muted; zero disables the mute
	NewMemberMute time.Duration
}

// HandleUpdate is the bot's default handler: every group message and channel
// post goes through moderation.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil {
		return
	}
	if len(msg.NewChatMembers) > 0 {
		h.muteNewMembers(ctx, msg)
		return
	}
	if msg.From == nil || msg.Text == "" {
		return
	}

	evt := &engine.MessageEvent{
		Identity: engine.Identity{
			ID:        msg.From.ID,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Username:  msg.From.Username,
		},
		ChatID:       msg.Chat.ID,
		ChatTitle:    msg.Chat.Title,
		ChatUsername: msg.Chat.Username,
		MessageID:    msg.ID,
		Text:         msg.Text,
	}
	if err := h.Engine.ProcessMessage(ctx, evt); err != nil {
		h.Logger.Error("processing message failed", "chatID", msg.Chat.ID, "messageID", msg.ID, "err", err)
	}
}

// muteNewMembers restricts freshly joined members from posting for a short
// window and removes the join service message. Best-effort.
func (h *Handler) muteNewMembers(ctx context.Context, msg *models.Message) {
	if h.NewMemberMute == 0 {
		return
	}
	until := int(time.Now().Add(h.NewMemberMute).Unix())
	for _, member := range msg.NewChatMembers {
		_, err := h.Client.Bot.RestrictChatMember(ctx, &bot.RestrictChatMemberParams{
			ChatID:      msg.Chat.ID,
			UserID:      member.ID,
			Permissions: &models.ChatPermissions{CanSendMessages: false},
			UntilDate:   until,
		})
		if err != nil {
			h.Logger.Warn("restricting new member failed", "chatID", msg.Chat.ID, "userID", member.ID, "err", err)
		}
	}
	if err := h.Client.DeleteMessage(ctx, msg.Chat.ID, msg.ID); err != nil {
		h.Logger.Warn("deleting join message failed", "err", err)
	}
}
