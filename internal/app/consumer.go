package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mujabaralno/qr-absence/internal/events"
	"github.com/mujabaralno/qr-absence/internal/mailer"
	"github.com/mujabaralno/qr-absence/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer processes organization approval events until signalled. Without
// a SENDGRID_API_KEY the mail side channel degrades to log-only.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	var mail mailer.Mailer
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		mail = mailer.NewSendgridMailer(
			key,
			os.Getenv("MAIL_FROM_NAME"),
			os.Getenv("MAIL_FROM_EMAIL"),
		)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, approval mails will be logged only")
		mail = mailer.NewNoopMailer()
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.OrganizationApprovedTopic,
		GroupID:        "qr-absence-approval-mailer",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeOrganizationApproved(ctx, reader, mail, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
