package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/pkg/mailer"
	"shiftdesk-be/pkg/intent"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentAlert struct {
	to    []string
	alert mailer.TicketAlert
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentAlert
	err  error
}

func (m *recordingMailer) SendTicketAlert(to []string, alert mailer.TicketAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentAlert{to: to, alert: alert})
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

const testAlertTopic = "TICKET_ALERT"

func TestAlertServiceEndToEnd(t *testing.T) {
	f := newFixture(t)
	org, _, employee := f.team(t, intent.LocaleEnglish)
	svc := f.service(t, org, "Maintenance")

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	mail := &recordingMailer{}
	alerts := NewAlertService(pubSub, testAlertTopic, f.store, f.orgs, mail, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, alerts.Consume(ctx))

	tickets := NewTicketService(f.store, f.orgs, nil, NewPublisherService(testAlertTopic, pubSub), logger.NewNopLogger())
	created, err := tickets.Create(f.ctx, employee, &dto.CreateTicketRequest{
		OrganizationId: org.Id, ServiceId: svc.Id, Description: "Boiler is leaking",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return mail.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	mail.mu.Lock()
	defer mail.mu.Unlock()
	sent := mail.sent[0]
	require.Len(t, sent.to, 1)
	assert.Contains(t, sent.to[0], "admin-")
	assert.Equal(t, created.Id.String(), sent.alert.TicketId)
	assert.Equal(t, org.Name, sent.alert.OrganizationName)
	assert.Equal(t, "Maintenance", sent.alert.ServiceName)
	assert.Equal(t, "Boiler is leaking", sent.alert.Title)
	assert.Equal(t, "form", sent.alert.Source)
	assert.Contains(t, sent.alert.AuthorEmail, "employee-")
}

func acked(msg *message.Message) string {
	select {
	case <-msg.Acked():
		return "ack"
	case <-msg.Nacked():
		return "nack"
	case <-time.After(time.Second):
		return "none"
	}
}

func TestAlertServiceProcessMessage(t *testing.T) {
	f := newFixture(t)
	org, _, employee := f.team(t, intent.LocaleEnglish)
	svc := f.service(t, org, "Maintenance")

	ticket := &entity.Ticket{OrganizationId: org.Id, ServiceId: svc.Id, UserId: employee.UserID, Title: "t", Description: "d"}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).TicketRepository().Create(f.ctx, ticket))

	tests := []struct {
		name     string
		payload  string
		mailErr  error
		want     string
		mailSent int
	}{
		{name: "malformed payload", payload: "{", want: "ack"},
		{name: "ticket gone", payload: `{"ticket_id":"` + uuid.NewString() + `"}`, want: "ack"},
		{name: "delivered", payload: `{"ticket_id":"` + ticket.Id.String() + `"}`, want: "ack", mailSent: 1},
		{name: "mail failure is not retried", payload: `{"ticket_id":"` + ticket.Id.String() + `"}`, mailErr: errors.New("smtp down"), want: "ack", mailSent: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &recordingMailer{err: tt.mailErr}
			svc := NewAlertService(nil, testAlertTopic, f.store, f.orgs, mail, logger.NewNopLogger()).(*alertService)

			msg := message.NewMessage(watermill.NewUUID(), []byte(tt.payload))
			go svc.processMessage(context.Background(), msg)

			assert.Equal(t, tt.want, acked(msg))
			assert.Equal(t, tt.mailSent, mail.count())
		})
	}
}
