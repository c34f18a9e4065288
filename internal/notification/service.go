package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Kusa331/ORBIT/internal/config"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
	"github.com/Kusa331/ORBIT/internal/providers"
)

// Service fans alert Tasks out to their delivery channels. Admin-scope tasks
// go to the staff Telegram chat, user-scope tasks to the requester's email;
// both nudge any open bell over WebSocket.
type Service struct {
	logger        *logging.Logger
	config        config.Config
	tasks         chan models.Task
	ctx           context.Context
	cancel        context.CancelFunc
	wg            *sync.WaitGroup
	providerFuncs map[string]func(context.Context, models.Task) error
	wsManager     *WebSocketManager
}

func New(logger *logging.Logger, cfg config.Config) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &Service{
		logger:    logger,
		config:    cfg,
		tasks:     make(chan models.Task, cfg.Notification.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		wsManager: NewWebSocketManager(logger),
	}
	svc.providerFuncs = map[string]func(context.Context, models.Task) error{
		"email": func(ctx context.Context, task models.Task) error {
			return providers.SendEmail(ctx, task, svc.config, logger)
		},
		"telegram": func(ctx context.Context, task models.Task) error {
			return providers.SendTelegram(ctx, task, svc.config, logger)
		},
	}
	return svc
}

// Logger exposes the Service's logger to the Kafka consumer or caller.
func (s *Service) Logger() *logging.Logger {
	return s.logger
}

// Start launches the worker pool.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.config.Notification.MaxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels the worker context. Workers drain on their next select.
func (s *Service) Stop() {
	s.cancel()
}

// QueueTask enqueues a Task for processing.
func (s *Service) QueueTask(task models.Task) {
	select {
	case s.tasks <- task:
		s.logger.Infof("Queued task: alert_id=%s", task.AlertID)
	default:
		s.logger.Errorf("Queue full, dropping task: alert_id=%s", task.AlertID)
	}
}

// worker processes Tasks until context is cancelled.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Worker %d stopped", id)
			return
		case task := <-s.tasks:
			s.handleTask(task)
		}
	}
}

// handleTask picks the channel by scope, dispatches, and nudges the bell.
func (s *Service) handleTask(task models.Task) {
	channel := "email"
	wsKey := task.UserID
	if task.UserID == "" {
		channel = "telegram"
		wsKey = AdminBroadcastKey
	}

	err := s.providerFuncs[channel](s.ctx, task)

	message := []byte(fmt.Sprintf("New alert: %s", task.AlertID))
	s.wsManager.SendToKey(wsKey, message)

	if err != nil {
		s.logger.Errorf("Dispatch error via %s for alert %s: %v", channel, task.AlertID, err)
		return
	}
	s.logger.Infof("Alert %s dispatched via %s", task.AlertID, channel)
}

// AddWebSocketConnection registers a bell connection under the given key.
func (s *Service) AddWebSocketConnection(key string, conn *websocket.Conn) {
	s.wsManager.AddConnection(key, conn)
}

// RemoveWebSocketConnection drops a bell connection.
func (s *Service) RemoveWebSocketConnection(key string, conn *websocket.Conn) {
	s.wsManager.RemoveConnection(key, conn)
}
