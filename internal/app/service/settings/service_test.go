package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	values map[string]string
	err    error
}

func (f *fakeStore) ConfigValue(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.values[key], nil
}

func newTestService(values map[string]string, err error) *Service {
	return NewService(&fakeStore{values: values, err: err}, zap.NewNop().Sugar())
}

func TestString_Fallbacks(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(map[string]string{KeyPromoLimitType: "B"}, nil)
	require.Equal(t, "B", svc.String(ctx, KeyPromoLimitType, "A"))
	require.Equal(t, "A", svc.String(ctx, "absent_key", "A"))

	broken := newTestService(nil, errors.New("db down"))
	require.Equal(t, "A", broken.String(ctx, KeyPromoLimitType, "A"))
}

func TestInt64_ParseFallback(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(map[string]string{
		KeyMaxPromoSubscription: "3",
		KeyMinBalanceRequired:   "not-a-number",
	}, nil)
	require.Equal(t, int64(3), svc.Int64(ctx, KeyMaxPromoSubscription, 1))
	require.Equal(t, int64(500), svc.Int64(ctx, KeyMinBalanceRequired, 500))
	require.Equal(t, int64(1), svc.Int64(ctx, "absent_key", 1))
}

func TestMaxCallDuration(t *testing.T) {
	ctx := context.Background()

	require.Equal(t, int64(DefaultMaxCallDuration),
		newTestService(nil, nil).MaxCallDuration(ctx))
	require.Equal(t, int64(3600),
		newTestService(map[string]string{KeyMaxCallDuration: "3600"}, nil).MaxCallDuration(ctx))
	// Non-positive configured values are invalid
	require.Equal(t, int64(DefaultMaxCallDuration),
		newTestService(map[string]string{KeyMaxCallDuration: "0"}, nil).MaxCallDuration(ctx))
	require.Equal(t, int64(DefaultMaxCallDuration),
		newTestService(map[string]string{KeyMaxCallDuration: "-5"}, nil).MaxCallDuration(ctx))
}

func TestLocation(t *testing.T) {
	ctx := context.Background()

	loc := newTestService(nil, nil).Location(ctx, "Asia/Manila")
	require.Equal(t, "Asia/Manila", loc.String())

	// Bad names fall back to UTC
	loc = newTestService(map[string]string{KeyTimezone: "Mars/Olympus"}, nil).Location(ctx, "Asia/Manila")
	require.Equal(t, time.UTC, loc)
}
