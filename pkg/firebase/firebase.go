package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

func SetUpFireBase(credentialsFile string) (*firebase.App, error) {
	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}
	return app, nil
}

type Sender struct {
	app *firebase.App
}

func NewSender(app *firebase.App) *Sender {
	return &Sender{app: app}
}

// Send pushes one notification to every token and returns how many deliveries succeeded.
func (s *Sender) Send(ctx context.Context, tokens []string, title, body string) (int, error) {

	valid := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token != "" {
			valid = append(valid, token)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	client, err := s.app.Messaging(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "firebase messaging client")
	}

	br, err := client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: valid,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return 0, errors.Wrap(err, "send multicast")
	}

	return br.SuccessCount, nil
}
