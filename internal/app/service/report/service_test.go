package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

const testIMSI = "001010000000001"

type fakeStore struct {
	contacts map[string]*models.Contact
	reports  map[string]*models.Report
	managers []*models.ReportManager
	messages []*models.ReportMessage
}

func (f *fakeStore) ContactByIMSI(_ context.Context, imsi string) (*models.Contact, error) {
	return f.contacts[imsi], nil
}

func (f *fakeStore) PublishedReportByKeyword(_ context.Context, keyword string) (*models.Report, error) {
	return f.reports[keyword], nil
}

func (f *fakeStore) ReportManagers(context.Context, string) ([]*models.ReportManager, error) {
	return f.managers, nil
}

func (f *fakeStore) CreateReportMessage(_ context.Context, msg *models.ReportMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

type fakeNotifier struct{ sent []string }

func (f *fakeNotifier) Send(_ context.Context, callerid, msg string) {
	f.sent = append(f.sent, callerid+": "+msg)
}

func newFixture() (*fakeStore, *fakeNotifier, *Service) {
	st := &fakeStore{
		contacts: map[string]*models.Contact{
			testIMSI: {IMSI: testIMSI, CallerID: "631234567"},
		},
		reports: map[string]*models.Report{
			"OUTAGE": {ID: "rep-1", Name: "Outage Reports", Keyword: "OUTAGE", Status: types.ServiceStatusPublished},
		},
		managers: []*models.ReportManager{
			{ReportID: "rep-1", IMSI: "001010000000009", CallerID: "639876543"},
		},
	}
	not := &fakeNotifier{}
	return st, not, NewService(st, not, zap.NewNop().Sugar())
}

func TestSubmit_RelaysToManagersAndAcks(t *testing.T) {
	st, not, svc := newFixture()

	require.NoError(t, svc.Submit(context.Background(), testIMSI, "outage", "No signal in sitio 3"))
	require.Len(t, st.messages, 1)
	require.Equal(t, "No signal in sitio 3", st.messages[0].Message)

	// One relay to the manager plus the sender acknowledgement
	require.Len(t, not.sent, 2)
	require.Contains(t, not.sent[0], "639876543")
	require.Contains(t, not.sent[0], "No signal in sitio 3")
	require.Contains(t, not.sent[1], "631234567")
}

func TestSubmit_Gates(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()

	require.ErrorIs(t, svc.Submit(ctx, "999990000000000", "OUTAGE", "msg"), ErrNotFound)
	require.ErrorIs(t, svc.Submit(ctx, testIMSI, "NOPE", "msg"), ErrBadKeyword)
}
