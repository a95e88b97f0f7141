package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"hireloop/config"
	"hireloop/models"
	"hireloop/utils"

	"firebase.google.com/go/v4/messaging"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DefaultNotifier sends email through the Gmail API and push notifications
// through FCM. Both channels are best-effort; the scheduling engine downgrades
// every failure to a warning.
type DefaultNotifier struct {
	gmail  *gmail.Service
	sender string
}

// NewDefaultNotifier builds the notifier from the configured Google
// credentials. Email is required; push silently no-ops when FCM is not
// configured.
func NewDefaultNotifier(ctx context.Context) (*DefaultNotifier, error) {
	credFile := config.AppConfig.GoogleCredentialsFile
	if credFile == "" {
		return nil, fmt.Errorf("gmail notifier requires GOOGLE_CREDENTIALS_FILE")
	}
	sender := config.AppConfig.GmailSender
	if sender == "" {
		return nil, fmt.Errorf("gmail notifier requires GMAIL_SENDER")
	}

	b, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("reading google credentials: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}
	jwtConfig.Subject = sender

	service, err := gmail.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}

	return &DefaultNotifier{gmail: service, sender: sender}, nil
}

// SendEmail dispatches a plain-text email via the Gmail API.
func (n *DefaultNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", n.sender, to, subject, body)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}

	if _, err := n.gmail.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

// SendPush delivers an FCM push to the participant's registered device.
func (n *DefaultNotifier) SendPush(ctx context.Context, participant *models.Participant, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return nil
	}
	if participant.FCMToken == "" {
		return fmt.Errorf("participant %s has no FCM token", participant.ID)
	}

	msg := &messaging.Message{
		Token: participant.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending push to %s: %w", participant.ID, err)
	}
	return nil
}
