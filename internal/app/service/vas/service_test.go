package vas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/models"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

const (
	testIMSI    = "001010000000001"
	managerIMSI = "001010000000009"
)

type fakeStore struct {
	contacts    map[string]*models.Contact
	services    map[string]*models.Service
	subscribers map[string]map[string]bool // serviceID -> imsi set
	managers    map[string]map[string]bool
	events      []*models.ServiceEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contacts: map[string]*models.Contact{
			testIMSI:    {IMSI: testIMSI, CallerID: "631234567"},
			managerIMSI: {IMSI: managerIMSI, CallerID: "639876543"},
		},
		services:    map[string]*models.Service{},
		subscribers: map[string]map[string]bool{},
		managers:    map[string]map[string]bool{},
	}
}

func (f *fakeStore) ContactByIMSI(_ context.Context, imsi string) (*models.Contact, error) {
	return f.contacts[imsi], nil
}

func (f *fakeStore) ServiceByKeyword(_ context.Context, keyword string, svcType types.ServiceType, publishedOnly bool) (*models.Service, error) {
	svc := f.services[keyword]
	if svc == nil {
		return nil, nil
	}
	if svcType != "" && svc.ServiceType != svcType {
		return nil, nil
	}
	if publishedOnly && !svc.Published() {
		return nil, nil
	}
	return svc, nil
}

func (f *fakeStore) IsServiceSubscriber(_ context.Context, serviceID, imsi string) (bool, error) {
	return f.subscribers[serviceID][imsi], nil
}

func (f *fakeStore) CreateServiceSubscriber(_ context.Context, sub *models.ServiceSubscriber) error {
	if f.subscribers[sub.ServiceID] == nil {
		f.subscribers[sub.ServiceID] = map[string]bool{}
	}
	f.subscribers[sub.ServiceID][sub.IMSI] = true
	return nil
}

func (f *fakeStore) DeleteServiceSubscriber(_ context.Context, serviceID, imsi string) (bool, error) {
	if !f.subscribers[serviceID][imsi] {
		return false, nil
	}
	delete(f.subscribers[serviceID], imsi)
	return true, nil
}

func (f *fakeStore) ServiceSubscribers(_ context.Context, serviceID string) ([]*models.ServiceSubscriber, error) {
	var out []*models.ServiceSubscriber
	for imsi := range f.subscribers[serviceID] {
		out = append(out, &models.ServiceSubscriber{ServiceID: serviceID, IMSI: imsi})
	}
	return out, nil
}

func (f *fakeStore) IsServiceManager(_ context.Context, serviceID, imsi string) (bool, error) {
	return f.managers[serviceID][imsi], nil
}

func (f *fakeStore) CreateServiceEvent(_ context.Context, ev *models.ServiceEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeLedger struct {
	balances map[string]int64
	debits   []int64
}

func (f *fakeLedger) Balance(_ context.Context, imsi string) (int64, error) {
	return f.balances[imsi], nil
}

func (f *fakeLedger) SubtractCredit(_ context.Context, imsi string, amount int64) error {
	f.balances[imsi] -= amount
	f.debits = append(f.debits, amount)
	return nil
}

func (f *fakeLedger) CreateSMSEvent(context.Context, string, int64, int64, string, string) error {
	return nil
}

type fakeNotifier struct{ sent []string }

func (f *fakeNotifier) Send(_ context.Context, callerid, msg string) {
	f.sent = append(f.sent, callerid+": "+msg)
}

type fixture struct {
	store    *fakeStore
	ledger   *fakeLedger
	notifier *fakeNotifier
	svc      *Service
}

func newFixture() *fixture {
	st := newFakeStore()
	st.services["WEATHER"] = &models.Service{
		ID: "svc-1", Name: "Weather Updates", Keyword: "WEATHER",
		Price: 100000, ServiceType: types.ServiceTypePush, Status: types.ServiceStatusPublished,
	}
	st.managers["svc-1"] = map[string]bool{managerIMSI: true}
	led := &fakeLedger{balances: map[string]int64{testIMSI: 1000000}}
	not := &fakeNotifier{}
	cfg := &cfgpkg.Config{EventShortCode: "555"}
	svc := NewService(st, led, not, cfg, zap.NewNop().Sugar())
	return &fixture{store: st, ledger: led, notifier: not, svc: svc}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Subscribe(ctx, testIMSI, "weather"))
	require.True(t, f.store.subscribers["svc-1"][testIMSI])
	// Joining is free
	require.Empty(t, f.ledger.debits)

	require.ErrorIs(t, f.svc.Subscribe(ctx, testIMSI, "WEATHER"), ErrAlreadySubscribed)

	require.NoError(t, f.svc.Unsubscribe(ctx, testIMSI, "WEATHER"))
	require.ErrorIs(t, f.svc.Unsubscribe(ctx, testIMSI, "WEATHER"), ErrNoSubscription)
}

func TestSubscribe_Gates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Subscribe(ctx, "999990000000000", "WEATHER"), ErrNotFound)
	require.ErrorIs(t, f.svc.Subscribe(ctx, testIMSI, "NOPE"), ErrBadKeyword)

	// Unpublished services are invisible to subscribers
	f.store.services["WEATHER"].Status = types.ServiceStatusUnpublished
	require.ErrorIs(t, f.svc.Subscribe(ctx, testIMSI, "WEATHER"), ErrBadKeyword)
}

func TestRecordEvent_ChargesPerUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.RecordEvent(ctx, testIMSI, "WEATHER", "forecast query"))
	require.Equal(t, []int64{100000}, f.ledger.debits)
	require.Len(t, f.store.events, 1)
	require.Equal(t, "forecast query", f.store.events[0].Event)

	// Broke accounts cannot query
	f.ledger.balances[testIMSI] = 0
	require.ErrorIs(t, f.svc.RecordEvent(ctx, testIMSI, "WEATHER", "again"), ErrInsufficientBalance)
}

func TestAnnounce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Subscribe(ctx, testIMSI, "WEATHER"))
	sentBefore := len(f.notifier.sent)

	delivered, err := f.svc.Announce(ctx, managerIMSI, "WEATHER", "Storm warning tonight.")
	require.NoError(t, err)
	require.Equal(t, 1, delivered)
	require.Len(t, f.notifier.sent, sentBefore+1)
	require.Contains(t, f.notifier.sent[sentBefore], "Storm warning")
	// Subscriber paid for the push
	require.Contains(t, f.ledger.debits, int64(100000))

	// Only managers may push
	_, err = f.svc.Announce(ctx, testIMSI, "WEATHER", "hi all")
	require.ErrorIs(t, err, ErrNotManager)
}

func TestAnnounce_SkipsBrokeSubscribers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Subscribe(ctx, testIMSI, "WEATHER"))
	f.ledger.balances[testIMSI] = 0

	delivered, err := f.svc.Announce(ctx, managerIMSI, "WEATHER", "Storm warning.")
	require.NoError(t, err)
	require.Equal(t, 0, delivered)
}
