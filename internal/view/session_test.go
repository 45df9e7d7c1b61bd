package view

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/roadwatch/internal/accident"
	"github.com/roadwatch/roadwatch/internal/alert"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/model"
	"github.com/roadwatch/roadwatch/internal/notice"
	"github.com/roadwatch/roadwatch/internal/testutil"
)

type fixture struct {
	sender   *testutil.StubSender
	provider *testutil.StubProvider
	notices  *notice.MemoryStore
	session  *Session
}

func newFixture(t *testing.T, accidents ...*model.Accident) *fixture {
	t.Helper()
	dir, err := alert.NewDirectory(alert.DefaultContacts())
	require.NoError(t, err)

	f := &fixture{
		sender:   testutil.NewStubSender(),
		provider: testutil.NewStubProvider(accidents...),
		notices:  notice.NewMemoryStore(),
	}
	log := logger.Nop()
	f.session = NewSession("sess-1", "acc-1", Deps{
		Directory:  dir,
		Provider:   f.provider,
		Dispatcher: alert.NewDispatcher(f.sender, alert.Identity{Address: "alerts@example.com", Name: "Accident Notifier"}, log),
		Notices:    f.notices,
		Log:        log,
	})
	return f
}

func (f *fixture) latestNotice(t *testing.T) *model.Notice {
	t.Helper()
	n, err := f.notices.Latest(context.Background(), "sess-1")
	require.NoError(t, err)
	return n
}

func TestSession_EndToEnd(t *testing.T) {
	f := newFixture(t, testutil.SampleAccident("acc-1"))
	ctx := context.Background()

	assert.Equal(t, StateLoading, f.session.State())
	require.NoError(t, f.session.Load(ctx))
	assert.Equal(t, StateReady, f.session.State())
	assert.True(t, f.session.View().AllSelected)

	f.session.ToggleOne("firebrigade")
	assert.False(t, f.session.View().AllSelected)

	res, err := f.session.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())

	require.Equal(t, 1, f.sender.Calls())
	assert.Equal(t, []string{"ambulance@rescue.example.org", "police@rescue.example.org"}, f.sender.Messages()[0].To)

	assert.Equal(t, StateReady, f.session.State())
	n := f.latestNotice(t)
	assert.Equal(t, model.NoticeSuccess, n.Level)
	assert.Equal(t, MsgSent, n.Message)
	assert.Equal(t, n, f.session.Notice())

	// still interactive
	f.session.ToggleAll(true)
	assert.True(t, f.session.View().AllSelected)
	assert.True(t, f.session.View().CanSubmit)
}

func TestSession_SubmitWithoutAccidentData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.Load(ctx))
	assert.Equal(t, StateLoading, f.session.State())
	assert.False(t, f.session.View().CanSubmit)

	_, err := f.session.Submit(ctx)
	assert.ErrorIs(t, err, alert.ErrDataUnavailable)
	assert.Equal(t, 0, f.sender.Calls())
	assert.Equal(t, MsgDataUnavailable, f.latestNotice(t).Message)
	assert.Equal(t, StateLoading, f.session.State())

	// record shows up later
	f.provider.Put(testutil.SampleAccident("acc-1"))
	require.NoError(t, f.session.Load(ctx))
	assert.Equal(t, StateReady, f.session.State())
}

func TestSession_SubmitNoRecipients(t *testing.T) {
	f := newFixture(t, testutil.SampleAccident("acc-1"))
	ctx := context.Background()
	require.NoError(t, f.session.Load(ctx))

	f.session.ToggleAll(false)
	res, err := f.session.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, alert.OutcomeNoRecipients, res.Outcome)
	assert.Equal(t, 0, f.sender.Calls())
	assert.Equal(t, StateReady, f.session.State())
	n := f.latestNotice(t)
	assert.Equal(t, model.NoticeError, n.Level)
	assert.Equal(t, MsgNoRecipients, n.Message)
}

func TestSession_SubmitTransportFailure(t *testing.T) {
	f := newFixture(t, testutil.SampleAccident("acc-1"))
	f.sender.Err = errors.New("dial tcp: i/o timeout")
	ctx := context.Background()
	require.NoError(t, f.session.Load(ctx))

	res, err := f.session.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, alert.OutcomeFailed, res.Outcome)
	assert.Equal(t, StateReady, f.session.State())
	n := f.latestNotice(t)
	assert.Equal(t, model.NoticeError, n.Level)
	assert.Equal(t, MsgFailed, n.Message)
	assert.NotContains(t, n.Message, "timeout")
	assert.Equal(t, alert.OutcomeFailed, f.session.View().LastOutcome)
}

func TestSession_InFlightDispatchUsesSubmitSnapshot(t *testing.T) {
	f := newFixture(t, testutil.SampleAccident("acc-1"))
	f.sender.Block = make(chan struct{})
	f.sender.Started = make(chan struct{}, 1)
	ctx := context.Background()
	require.NoError(t, f.session.Load(ctx))

	done := make(chan alert.Result, 1)
	go func() {
		res, err := f.session.Submit(ctx)
		assert.NoError(t, err)
		done <- res
	}()

	<-f.sender.Started
	assert.Equal(t, StateSubmitting, f.session.State())
	assert.False(t, f.session.View().CanSubmit)
	assert.Equal(t, MsgSending, f.latestNotice(t).Message)

	// second submit is refused while the first is in flight
	_, err := f.session.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	// edits during the dispatch do not reach it
	f.session.ToggleAll(false)

	close(f.sender.Block)
	res := <-done

	assert.True(t, res.OK())
	assert.Len(t, f.sender.Messages()[0].To, 3)
	assert.Equal(t, 1, f.sender.Calls())
	assert.Equal(t, StateReady, f.session.State())
	assert.Empty(t, alert.Recipients(f.session.View().Contacts))
}

func TestSession_LoadErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.provider.Err = accident.ErrNotFound
	assert.ErrorIs(t, f.session.Load(ctx), accident.ErrNotFound)
	assert.Equal(t, MsgNotFound, f.latestNotice(t).Message)

	f.provider.Err = errors.New("connection refused")
	assert.Error(t, f.session.Load(ctx))
	assert.Equal(t, MsgLoadFailed, f.latestNotice(t).Message)
	assert.Equal(t, StateLoading, f.session.State())
}

func TestSession_MapMarker(t *testing.T) {
	f := newFixture(t, testutil.SampleAccident("acc-1"))
	assert.Nil(t, f.session.MapMarker())

	require.NoError(t, f.session.Load(context.Background()))
	m := f.session.MapMarker()
	require.NotNil(t, m)
	assert.InDelta(t, 28.7, m.Latitude, 1e-9)
	assert.InDelta(t, 77.1, m.Longitude, 1e-9)
	assert.Equal(t, "12 Main St", m.Address)
	assert.Contains(t, f.session.View().MapLink, "28.7,77.1")

	bad := testutil.SampleAccident("acc-2")
	bad.Longitude = ""
	assert.Nil(t, mapMarker(bad))
	bad.Longitude = "east"
	assert.Nil(t, mapMarker(bad))
}

func TestSession_ToggleUnknownContact(t *testing.T) {
	f := newFixture(t)
	before := f.session.View().Contacts
	assert.False(t, f.session.ToggleOne("stale-id"))
	assert.Equal(t, before, f.session.View().Contacts)
}

func TestSession_ReloadBypassesProviderCache(t *testing.T) {
	var (
		hits    int32
		address atomic.Value
	)
	address.Store("Old Rd")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"id":"acc-1","address":"` + address.Load().(string) + `","latitude":"28.7","longitude":"77.1"}}`))
	}))
	defer srv.Close()

	dir, err := alert.NewDirectory(alert.DefaultContacts())
	require.NoError(t, err)
	log := logger.Nop()
	sess := NewSession("sess-1", "acc-1", Deps{
		Directory:  dir,
		Provider:   accident.NewClient(accident.ClientConfig{BaseURL: srv.URL, CacheTTL: 30 * time.Second}),
		Dispatcher: alert.NewDispatcher(testutil.NewStubSender(), alert.Identity{Address: "alerts@example.com"}, log),
		Notices:    notice.NewMemoryStore(),
		Log:        log,
	})
	ctx := context.Background()

	require.NoError(t, sess.Load(ctx))
	assert.Equal(t, "Old Rd", sess.View().Accident.Address)

	address.Store("New Rd")

	// Plain loads are served from the cache
	require.NoError(t, sess.Load(ctx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	require.NoError(t, sess.Reload(ctx))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, "New Rd", sess.View().Accident.Address)
}

// stateRecorder records the session state seen by each published notice
type stateRecorder struct {
	*notice.MemoryStore
	session *Session

	mu     sync.Mutex
	states map[model.NoticeLevel]State
}

func (r *stateRecorder) Publish(ctx context.Context, n model.Notice) error {
	r.mu.Lock()
	r.states[n.Level] = r.session.State()
	r.mu.Unlock()
	return r.MemoryStore.Publish(ctx, n)
}

func TestSession_ResultNoticePublishedBeforeReady(t *testing.T) {
	dir, err := alert.NewDirectory(alert.DefaultContacts())
	require.NoError(t, err)
	log := logger.Nop()
	rec := &stateRecorder{MemoryStore: notice.NewMemoryStore(), states: make(map[model.NoticeLevel]State)}
	sess := NewSession("sess-1", "acc-1", Deps{
		Directory:  dir,
		Provider:   testutil.NewStubProvider(testutil.SampleAccident("acc-1")),
		Dispatcher: alert.NewDispatcher(testutil.NewStubSender(), alert.Identity{Address: "alerts@example.com"}, log),
		Notices:    rec,
		Log:        log,
	})
	rec.session = sess
	ctx := context.Background()

	require.NoError(t, sess.Load(ctx))
	res, err := sess.Submit(ctx)
	require.NoError(t, err)
	require.True(t, res.OK())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, StateSubmitting, rec.states[model.NoticeLoading])
	assert.Equal(t, StateSubmitting, rec.states[model.NoticeSuccess])
	assert.Equal(t, StateReady, sess.State())
}
