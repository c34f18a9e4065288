package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"github.com/Kusa331/ORBIT/internal/config"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
	"github.com/Kusa331/ORBIT/internal/utils"
)

// telegramLimiter is the global rate limiter shared by all Telegram sends.
var telegramLimiter *rate.Limiter

func initTelegramLimiter(ratePerSecond int) {
	telegramLimiter = rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond)
}

// SendTelegram posts an admin-scope task to the staff chat.
func SendTelegram(ctx context.Context, task models.Task, cfg config.Config, logger *logging.Logger) error {
	if telegramLimiter == nil {
		initTelegramLimiter(cfg.Telegram.RatePerSecond)
	}
	if err := telegramLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("missing Telegram bot token")
	}
	if cfg.Telegram.AdminChatID == 0 {
		return fmt.Errorf("missing Telegram admin chat id")
	}

	text := fmt.Sprintf("*%s*\n%s", task.Title, task.Body)

	return utils.Retry(ctx, logger, 3, time.Second, func() error {
		b, err := bot.New(cfg.Telegram.BotToken)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}

		params := &bot.SendMessageParams{
			ChatID:    cfg.Telegram.AdminChatID,
			Text:      text,
			ParseMode: "Markdown",
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", cfg.Telegram.AdminChatID, err)
		}
		return nil
	})
}
