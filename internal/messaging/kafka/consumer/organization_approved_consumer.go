package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mujabaralno/qr-absence/internal/events"
	"github.com/mujabaralno/qr-absence/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeOrganizationApproved mails the requesting admin when their
// organization is provisioned. Decode failures are committed and dropped;
// send failures are retried by leaving the message uncommitted.
func ConsumeOrganizationApproved(
	ctx context.Context,
	reader *kafkago.Reader,
	mail mailer.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.organization_approved")
	log.Info("organization approved consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("organization approved consumer stopped")
				return
			}
			log.Error("fetch organization approved message failed", zap.Error(err))
			continue
		}

		var event events.OrganizationApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode organization approved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = mail.Send(ctx, mailer.Message{
			ToEmail: event.AdminEmail,
			Subject: "Your organization has been approved",
			TextBody: fmt.Sprintf(
				"Good news! %s has been approved and is ready to use. Sign in with this email address to get started.",
				event.OrganizationName,
			),
		})
		if err != nil {
			log.Error("send approval mail failed",
				zap.String("request_id", event.RequestID),
				zap.String("admin_email", event.AdminEmail),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit organization approved message failed", zap.Error(err))
			continue
		}

		log.Info("approval mail sent",
			zap.String("request_id", event.RequestID),
			zap.String("organization_id", event.OrganizationID),
		)
	}
}
