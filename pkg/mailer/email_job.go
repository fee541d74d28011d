package mailer

// Job kinds published by the API and consumed by the notification worker.
const (
	KindUserDeactivated = "user_deactivated"
	KindPasswordReset   = "password_reset"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for the
// notification worker. The worker sends plain subject/text mail; rich
// templating is deliberately not part of this service.
type EmailJob struct {
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}
