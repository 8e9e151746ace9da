package jobqueue

import (
	"context"

	"github.com/velolab/velolab/internal/pkg/mail"
)

// ProcessMailDelivery sends one queued email via SMTP.
func ProcessMailDelivery(_ context.Context, job *Job) error {
	payload, err := ParseMailDeliveryPayload(job.Payload)
	if err != nil {
		return err
	}
	return mail.SendMail(payload.To, payload.Subject, payload.Body)
}

// EnqueueMail queues an email for background delivery.
func EnqueueMail(to, subject, body string) error {
	payload := &MailDeliveryPayload{To: to, Subject: subject, Body: body}
	_, err := GetManager().GetQueue().EnqueueJob(JobTypeMailDelivery, payload.ToPayload())
	return err
}
