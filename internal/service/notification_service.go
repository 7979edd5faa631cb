package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/directory-client/internal/events"
)

// Notifier receives user-facing messages about session transitions the user
// did not ask for.
type Notifier func(message string)

// NotificationService turns session events into log lines and notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	notify     Notifier
	cancel     []func()
}

// NewNotificationService creates the service. notify may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, notify Notifier) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		notify:     notify,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.cancel = append(n.cancel,
		n.dispatcher.Subscribe(events.EventSessionEstablished, n.handleSessionEstablished),
		n.dispatcher.Subscribe(events.EventSessionCleared, n.handleSessionCleared),
		n.dispatcher.Subscribe(events.EventCredentialDiscarded, n.handleCredentialDiscarded),
	)
}

// Stop detaches the handlers; later events produce no logs or notices.
func (n *NotificationService) Stop() {
	for _, cancel := range n.cancel {
		cancel()
	}
	n.cancel = nil
}

func (n *NotificationService) handleSessionEstablished(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("event_id", event.ID), zap.String("source", string(event.Source))}
	if payload, ok := event.Payload.(events.SessionEstablishedPayload); ok {
		fields = append(fields,
			zap.String("user_id", payload.Identity.ID.String()),
			zap.String("role", payload.Identity.Role.String()))
	}
	n.logger.Info("SessionEstablished", fields...)
	return nil
}

func (n *NotificationService) handleSessionCleared(_ context.Context, event events.Event) error {
	n.logger.Info("SessionCleared", zap.String("event_id", event.ID), zap.String("source", string(event.Source)))
	if event.Source == events.SourceUnauthorized {
		n.send("The directory rejected your session; please log in again.")
	}
	return nil
}

func (n *NotificationService) handleCredentialDiscarded(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("event_id", event.ID), zap.String("source", string(event.Source))}
	if payload, ok := event.Payload.(events.CredentialDiscardedPayload); ok {
		fields = append(fields, zap.String("reason", payload.Reason))
	}
	n.logger.Warn("CredentialDiscarded", fields...)

	switch event.Source {
	case events.SourceHydrate:
		n.send("Your saved session could not be read and was cleared; please log in again.")
	case events.SourceLogin:
		n.send("The directory returned a credential this client cannot read; you are not logged in.")
	}
	return nil
}

func (n *NotificationService) send(message string) {
	if n.notify != nil {
		n.notify(message)
	}
}
