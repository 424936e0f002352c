// package notify carries lifecycle notifications out of the request path.
// The service publishes email jobs onto a durable queue and answers the
// request immediately; a separate worker consumes the queue and delivers the
// mail. Publish failures are logged by the caller and never surfaced to the
// requester.
package notify

import (
	"context"
	"fmt"
)

// EmailJob is the unit published to the notification queue.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Publisher enqueues email jobs for asynchronous delivery.
type Publisher interface {
	PublishEmail(ctx context.Context, job EmailJob) error
}

// Sender delivers one email. Implemented by the mailgun client; the worker
// is the only consumer.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SelfEvaluationComplete is sent to the mentor when their mentee finishes
// the self-evaluation stage.
func SelfEvaluationComplete(subjectName, mentorEmail string) EmailJob {
	return EmailJob{
		To:      mentorEmail,
		Subject: fmt.Sprintf("%s has completed their self-evaluation", subjectName),
		Body: fmt.Sprintf(
			"%s has completed their self-evaluation and it is ready for your review.",
			subjectName),
	}
}

// MentorReviewComplete is sent to the line manager when the mentor finishes
// their review.
func MentorReviewComplete(subjectName, lineManagerEmail string) EmailJob {
	return EmailJob{
		To:      lineManagerEmail,
		Subject: fmt.Sprintf("Mentor review complete for %s", subjectName),
		Body: fmt.Sprintf(
			"The mentor review for %s is complete and the evaluation is ready for your review.",
			subjectName),
	}
}
