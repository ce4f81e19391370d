package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/models"
	"github.com/hospshop/procurement-api/pkg/jobs"
)

type notificationLogStore interface {
	Create(ctx context.Context, log *models.NotificationLog) error
}

type supplierLister interface {
	GetByID(ctx context.Context, id string) (*models.Supplier, error)
	List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, error)
}

// NotificationServiceParams groups constructor dependencies.
type NotificationServiceParams struct {
	Email     Notifier
	WhatsApp  Notifier
	Logs      notificationLogStore
	Suppliers supplierLister
	Logger    *zap.Logger
	Enabled   bool
	Workers   int
	Retries   int
}

// NotificationService renders workflow messages and dispatches them
// through a background queue so request handling never blocks on SMTP.
type NotificationService struct {
	email     Notifier
	whatsapp  Notifier
	logs      notificationLogStore
	suppliers supplierLister
	logger    *zap.Logger
	enabled   bool
	queue     *jobs.Queue
}

// NewNotificationService constructs a NotificationService with its queue.
func NewNotificationService(params NotificationServiceParams) *NotificationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		email:     params.Email,
		whatsapp:  params.WhatsApp,
		logs:      params.Logs,
		suppliers: params.Suppliers,
		logger:    logger,
		enabled:   params.Enabled,
	}
	s.queue = jobs.NewQueue("notifications", s.dispatch, jobs.QueueConfig{
		Workers:    params.Workers,
		MaxRetries: params.Retries,
		Logger:     logger,
	})
	return s
}

// Start begins queue consumption.
func (s *NotificationService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// QuotationOpened invites every active supplier to respond to a new
// quotation request.
func (s *NotificationService) QuotationOpened(ctx context.Context, request *models.QuotationRequest, items []models.RequestItem) {
	if !s.enabled || request == nil {
		return
	}
	suppliers, err := s.suppliers.List(ctx, models.SupplierFilter{Active: boolPtr(true), Limit: 200})
	if err != nil {
		s.logger.Warn("supplier list failed, invitations skipped", zap.String("request_id", request.ID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Nova solicitação de cotação %s", request.Number)
	body := fmt.Sprintf(
		"Prezado fornecedor,\n\nA hospshop abriu a solicitação de cotação %s (%s).\n%s\n\nItens: %d\nPrazo para resposta: %s\n\nResponda com sua proposta comercial.",
		request.Number, request.TenderReference, request.Description, len(items),
		request.ResponseDeadline.Format("02/01/2006"))

	for _, supplier := range suppliers {
		s.enqueue(models.NotificationMessage{
			Channel:   models.ChannelEmail,
			Recipient: supplier.Email,
			Subject:   subject,
			Body:      body,
		})
		if s.whatsapp != nil && supplier.WhatsApp != nil && *supplier.WhatsApp != "" {
			s.enqueue(models.NotificationMessage{
				Channel:   models.ChannelWhatsApp,
				Recipient: *supplier.WhatsApp,
				Subject:   subject,
				Body:      body,
			})
		}
	}
}

// AwardDecided tells the winning supplier its proposal was selected.
func (s *NotificationService) AwardDecided(ctx context.Context, request *models.QuotationRequest, winner *models.SupplierProposal, decision *models.AwardDecision) {
	if !s.enabled || request == nil || winner == nil || decision == nil {
		return
	}
	supplier, err := s.suppliers.GetByID(ctx, winner.SupplierID)
	if err != nil {
		s.logger.Warn("winner supplier lookup failed, notification skipped",
			zap.String("supplier_id", winner.SupplierID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Proposta vencedora — cotação %s", request.Number)
	body := fmt.Sprintf(
		"Prezado fornecedor,\n\nSua proposta %s foi selecionada como vencedora da cotação %s.\nValor total: R$ %.2f\nCritério: %s\n\nEntraremos em contato para formalizar o contrato de fornecimento.",
		winner.Number, request.Number, winner.TotalValue, decision.Criterion)

	s.enqueue(models.NotificationMessage{
		Channel:   models.ChannelEmail,
		Recipient: supplier.Email,
		Subject:   subject,
		Body:      body,
	})
	if s.whatsapp != nil && supplier.WhatsApp != nil && *supplier.WhatsApp != "" {
		s.enqueue(models.NotificationMessage{
			Channel:   models.ChannelWhatsApp,
			Recipient: *supplier.WhatsApp,
			Subject:   subject,
			Body:      body,
		})
	}
}

func (s *NotificationService) enqueue(msg models.NotificationMessage) {
	job := jobs.Job{ID: uuid.NewString(), Type: "notification", Payload: msg}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("notification enqueue failed", zap.String("recipient", msg.Recipient), zap.Error(err))
	}
}

// dispatch delivers one queued message and records the attempt.
func (s *NotificationService) dispatch(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(models.NotificationMessage)
	if !ok {
		s.logger.Error("notification job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	notifier := s.email
	if msg.Channel == models.ChannelWhatsApp {
		notifier = s.whatsapp
	}
	if notifier == nil {
		s.logger.Warn("no notifier configured for channel", zap.String("channel", string(msg.Channel)))
		return nil
	}

	sendErr := notifier.Send(ctx, msg)
	s.record(ctx, msg, sendErr)
	return sendErr
}

func (s *NotificationService) record(ctx context.Context, msg models.NotificationMessage, sendErr error) {
	if s.logs == nil {
		return
	}
	log := &models.NotificationLog{
		Channel:   msg.Channel,
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Status:    models.NotificationStatusSent,
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		log.Status = models.NotificationStatusFailed
		log.Error = optionalString(sendErr.Error())
	}
	if err := s.logs.Create(ctx, log); err != nil {
		s.logger.Warn("notification log write failed", zap.Error(err))
	}
}

func boolPtr(v bool) *bool {
	return &v
}
