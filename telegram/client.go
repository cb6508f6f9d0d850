package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-telegram/bot"

	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/engine"
	"github.com/chatwarden/warden/util"
)

// avatars larger than this are cut off rather than buffered whole
const maxPhotoBytes = 10 << 20

// Client adapts the Telegram Bot API to the engine's transport interfaces:
// action executor, admin notifier, and profile photo fetcher.
type Client struct {
	Logger      *slog.Logger
	Bot         *bot.Bot
	AdminChatID int64
	HTTP        *http.Client
}

var (
	_ engine.ActionExecutor = (*Client)(nil)
	_ engine.Notifier       = (*Client)(nil)
	_ avatar.PhotoFetcher   = (*Client)(nil)
)

func NewClient(logger *slog.Logger, b *bot.Bot, adminChatID int64) *Client {
	return &Client{
		Logger:      logger,
		Bot:         b,
		AdminChatID: adminChatID,
		HTTP:        util.RobustHTTPClient(),
	}
}

func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := c.Bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("deleting message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (c *Client) BanUser(ctx context.Context, chatID int64, userID int64) error {
	_, err := c.Bot.BanChatMember(ctx, &bot.BanChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		return fmt.Errorf("banning user %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

func (c *Client) SendVerdict(ctx context.Context, evt *engine.MessageEvent, verdict engine.Verdict) error {
	_, err := c.Bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: c.AdminChatID,
		Text:   verdict.NotifyText,
	})
	if err != nil {
		return fmt.Errorf("sending admin notification: %w", err)
	}
	return nil
}

// FetchProfilePhoto downloads the largest size of the user's current profile
// photo. Users without a photo return ErrNoPhoto.
func (c *Client) FetchProfilePhoto(ctx context.Context, userID int64) ([]byte, error) {
	photos, err := c.Bot.GetUserProfilePhotos(ctx, &bot.GetUserProfilePhotosParams{
		UserID: userID,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("listing profile photos: %w", err)
	}
	if photos == nil || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return nil, avatar.ErrNoPhoto
	}

	largest := photos.Photos[0][0]
	for _, size := range photos.Photos[0][1:] {
		if size.Width*size.Height > largest.Width*largest.Height {
			largest = size
		}
	}

	file, err := c.Bot.GetFile(ctx, &bot.GetFileParams{FileID: largest.FileID})
	if err != nil {
		return nil, fmt.Errorf("resolving photo file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Bot.FileDownloadLink(file), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading photo: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading photo: status=%d", res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, maxPhotoBytes))
}
