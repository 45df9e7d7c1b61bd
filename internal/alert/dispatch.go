package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roadwatch/roadwatch/internal/email"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/metrics"
	"github.com/roadwatch/roadwatch/internal/model"
)

// Outcome classifies a dispatch result
type Outcome string

// Dispatch outcomes
const (
	OutcomeSent         Outcome = "sent"
	OutcomeNoRecipients Outcome = "no_recipients"
	OutcomeFailed       Outcome = "failed"
)

// Result is the value every Dispatch call returns. Exactly one of Receipt
// (on OutcomeSent) or Err is set.
type Result struct {
	Outcome    Outcome
	Recipients []string
	Receipt    *email.Receipt
	// Err is ErrNoRecipients or ErrDispatchFailed
	Err error
	// Cause is the transport error behind ErrDispatchFailed. Log it, don't show it.
	Cause error
}

// OK reports whether the alert was handed to the transport
func (r Result) OK() bool {
	return r.Outcome == OutcomeSent
}

// Identity is the fixed sender of every alert
type Identity struct {
	Address string
	Name    string
}

// Dispatcher sends composed alerts through a mail transport
type Dispatcher struct {
	sender email.Sender
	from   Identity
	log    *logger.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(sender email.Sender, from Identity, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		from:   from,
		log:    log.WithComponent("dispatch"),
	}
}

// Recipients projects the selected contacts to their addresses, keeping order
func Recipients(selection []model.RescueTeamContact) []string {
	var out []string
	for _, c := range selection {
		if c.IsSelected {
			out = append(out, c.Email)
		}
	}
	return out
}

// Dispatch filters selection to the selected contacts and sends one alert
// about loc to them. It never retries and never returns a transport error
// directly: failures come back as OutcomeFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, selection []model.RescueTeamContact, loc model.AccidentLocation) Result {
	recipients := Recipients(selection)
	if len(recipients) == 0 {
		metrics.AlertDispatches.WithLabelValues(string(OutcomeNoRecipients)).Inc()
		d.log.Warn().Msg("alert not sent: no recipients selected")
		return Result{Outcome: OutcomeNoRecipients, Err: ErrNoRecipients}
	}

	comp := Compose(loc)
	msg := email.Message{
		FromAddress: d.from.Address,
		FromName:    d.from.Name,
		To:          recipients,
		Subject:     comp.Subject,
		HTMLBody:    comp.HTMLBody,
		TextBody:    comp.TextBody,
	}

	d.log.Debug().Strs("recipients", recipients).Msg("sending alert")

	start := time.Now()
	receipt, err := d.send(ctx, msg)
	duration := time.Since(start)
	metrics.AlertDispatchDuration.Observe(duration.Seconds())

	if err == nil && receipt == nil {
		err = errors.New("mail transport returned no response")
	}
	if err != nil {
		metrics.AlertDispatches.WithLabelValues(string(OutcomeFailed)).Inc()
		d.log.DispatchLog(string(OutcomeFailed), len(recipients), duration, err)
		return Result{
			Outcome:    OutcomeFailed,
			Recipients: recipients,
			Err:        ErrDispatchFailed,
			Cause:      err,
		}
	}

	metrics.AlertDispatches.WithLabelValues(string(OutcomeSent)).Inc()
	metrics.AlertRecipients.Observe(float64(len(recipients)))
	d.log.DispatchLog(string(OutcomeSent), len(recipients), duration, nil)

	return Result{
		Outcome:    OutcomeSent,
		Recipients: recipients,
		Receipt:    receipt,
	}
}

// send calls the transport once, turning a panic into an error
func (d *Dispatcher) send(ctx context.Context, msg email.Message) (receipt *email.Receipt, err error) {
	defer func() {
		if r := recover(); r != nil {
			receipt, err = nil, fmt.Errorf("mail transport panicked: %v", r)
		}
	}()
	return d.sender.Send(ctx, msg)
}
