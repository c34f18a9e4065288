package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/Kusa331/ORBIT/internal/config"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
	"github.com/Kusa331/ORBIT/internal/utils"
	"github.com/Kusa331/ORBIT/pkg/email"
)

// SendEmail delivers a user-scope task to the requester's mailbox.
func SendEmail(ctx context.Context, task models.Task, cfg config.Config, logger *logging.Logger) error {
	if task.UserEmail == "" {
		return fmt.Errorf("no recipient email for alert %s", task.AlertID)
	}

	sender := email.Sender{
		Server:   cfg.Email.SMTPServer,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		FromName: cfg.Email.FromName,
	}

	return utils.Retry(ctx, logger, 3, time.Second, func() error {
		return sender.Send(task.UserEmail, task.Title, task.Body)
	})
}
