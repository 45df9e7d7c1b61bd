package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/roadwatch/internal/email"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/model"
	"github.com/roadwatch/roadwatch/internal/testutil"
)

var testLocation = model.AccidentLocation{Address: "12 Main St", Latitude: "28.7", Longitude: "77.1"}

var testFrom = Identity{Address: "alerts@example.com", Name: "Accident Notifier"}

type panicSender struct{}

func (panicSender) Send(ctx context.Context, msg email.Message) (*email.Receipt, error) {
	panic("smtp client exploded")
}

type silentSender struct{}

func (silentSender) Send(ctx context.Context, msg email.Message) (*email.Receipt, error) {
	return nil, nil
}

func TestDispatch_NoRecipientsSkipsTransport(t *testing.T) {
	sender := testutil.NewStubSender()
	d := NewDispatcher(sender, testFrom, logger.Nop())

	s := newTestSelection(t)
	s.ToggleAll(false)

	res := d.Dispatch(context.Background(), s.Snapshot(), testLocation)

	assert.False(t, res.OK())
	assert.Equal(t, OutcomeNoRecipients, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNoRecipients)
	assert.Equal(t, 0, sender.Calls())
}

func TestDispatch_SendsOnceToSelectedInOrder(t *testing.T) {
	sender := testutil.NewStubSender()
	d := NewDispatcher(sender, testFrom, logger.Nop())

	s := newTestSelection(t)
	s.ToggleOne("firebrigade")

	res := d.Dispatch(context.Background(), s.Snapshot(), testLocation)

	require.True(t, res.OK())
	require.Equal(t, 1, sender.Calls())
	msg := sender.Messages()[0]
	assert.Equal(t, []string{"ambulance@rescue.example.org", "police@rescue.example.org"}, msg.To)
	assert.Equal(t, testFrom.Address, msg.FromAddress)
	assert.Equal(t, testFrom.Name, msg.FromName)
	assert.Equal(t, Subject, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "28.7,77.1")
	assert.Equal(t, msg.To, res.Recipients)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, "stub", res.Receipt.Provider)
}

func TestDispatch_TransportErrorIsConverted(t *testing.T) {
	sender := testutil.NewStubSender()
	sender.Err = errors.New("535 authentication failed")
	d := NewDispatcher(sender, testFrom, logger.Nop())

	res := d.Dispatch(context.Background(), newTestSelection(t).Snapshot(), testLocation)

	assert.False(t, res.OK())
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrDispatchFailed)
	assert.ErrorIs(t, res.Cause, sender.Err)
	assert.Nil(t, res.Receipt)
	assert.Equal(t, 1, sender.Calls(), "failed dispatch must not retry")
}

func TestDispatch_TransportPanicIsConverted(t *testing.T) {
	d := NewDispatcher(panicSender{}, testFrom, logger.Nop())

	var res Result
	assert.NotPanics(t, func() {
		res = d.Dispatch(context.Background(), newTestSelection(t).Snapshot(), testLocation)
	})
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrDispatchFailed)
	assert.Contains(t, res.Cause.Error(), "panicked")
}

func TestDispatch_NilReceiptIsFailure(t *testing.T) {
	d := NewDispatcher(silentSender{}, testFrom, logger.Nop())

	res := d.Dispatch(context.Background(), newTestSelection(t).Snapshot(), testLocation)
	assert.Equal(t, OutcomeFailed, res.Outcome)
}

func TestRecipients(t *testing.T) {
	contacts := []model.RescueTeamContact{
		{ID: "c", Email: "c@example.com", IsSelected: true},
		{ID: "a", Email: "a@example.com"},
		{ID: "b", Email: "b@example.com", IsSelected: true},
	}
	assert.Equal(t, []string{"c@example.com", "b@example.com"}, Recipients(contacts))
	assert.Nil(t, Recipients(nil))
}
