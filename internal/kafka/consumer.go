package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Kusa331/ORBIT/internal/config"
	"github.com/Kusa331/ORBIT/internal/db"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
	"github.com/Kusa331/ORBIT/internal/notification"
)

// alertMessage is the wire shape other campus services publish. An empty
// user_id files the alert into the admin-scope feed.
type alertMessage struct {
	UserID         string         `json:"user_id,omitempty"`
	UserEmail      string         `json:"user_email,omitempty"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Details        string         `json:"details,omitempty"`
	StructuredNote map[string]any `json:"structured_note,omitempty"`
}

// Consumer ingests alerts published by other services, persists them, and
// hands them to the dispatch pool.
type Consumer struct {
	reader *kafka.Reader
	db     *db.DB
	svc    *notification.Service
	logger *logging.Logger
}

func NewConsumer(cfg config.Config, database *db.DB, svc *notification.Service) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	return &Consumer{reader: reader, db: database, svc: svc, logger: svc.Logger()}
}

// Start consumes until the context is cancelled.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Info("Kafka consumer started")

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			var alert alertMessage
			if err := json.Unmarshal(msg.Value, &alert); err != nil {
				c.logger.Errorf("Unmarshal message failed: %v", err)
				continue
			}
			if alert.Title == "" || alert.Message == "" {
				c.logger.Error("Invalid message: missing title or message")
				continue
			}

			record := models.AlertRecord{
				ID:             uuid.NewString(),
				Title:          alert.Title,
				Message:        alert.Message,
				Details:        alert.Details,
				StructuredNote: alert.StructuredNote,
				UserID:         alert.UserID,
				CreatedAt:      time.Now(),
			}
			if err := c.db.CreateAlert(ctx, record); err != nil {
				c.logger.Errorf("Persist alert failed: %v", err)
				continue
			}

			c.svc.QueueTask(models.Task{
				AlertID:   record.ID,
				UserID:    alert.UserID,
				UserEmail: alert.UserEmail,
				Title:     alert.Title,
				Body:      alert.Message,
			})
			c.logger.Infof("Processed Kafka message for alert %s", record.ID)
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Close Kafka reader failed: %v", err)
	}
}
