package retry

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"

	"github.com/stretchr/testify/assert"
)

type recordedSleep struct {
	delays []time.Duration
}

func (r *recordedSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestPolicy(r *recordedSleep) Policy {
	p := DefaultPolicy()
	p.Sleep = r.sleep
	return p
}

func TestPolicy_Do(t *testing.T) {
	tests := []struct {
		name       string
		failures   []error
		wantErr    bool
		wantCalls  int
		wantDelays []time.Duration
	}{
		{
			name:       "two retryable failures then success",
			failures:   []error{pkgerrors.NewRemoteAPIError(503, "unavailable"), pkgerrors.NewRemoteAPIError(502, "bad gateway")},
			wantCalls:  3,
			wantDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "not found fails immediately",
			failures:   []error{pkgerrors.NewRemoteAPIError(404, "not found")},
			wantErr:    true,
			wantCalls:  1,
			wantDelays: nil,
		},
		{
			name:       "rate limited then success",
			failures:   []error{pkgerrors.NewRemoteAPIError(429, "slow down")},
			wantCalls:  2,
			wantDelays: []time.Duration{time.Second},
		},
		{
			name: "network errors exhaust attempts",
			failures: []error{
				pkgerrors.NewNetworkError("dial", &net.OpError{Op: "dial", Err: fmt.Errorf("refused")}),
				pkgerrors.NewNetworkError("dial", &net.OpError{Op: "dial", Err: fmt.Errorf("refused")}),
				pkgerrors.NewNetworkError("dial", &net.OpError{Op: "dial", Err: fmt.Errorf("refused")}),
			},
			wantErr:    true,
			wantCalls:  3,
			wantDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "plain error is not retried",
			failures:   []error{fmt.Errorf("marshal failed")},
			wantErr:    true,
			wantCalls:  1,
			wantDelays: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordedSleep{}
			calls := 0
			err := newTestPolicy(rec).Do(context.Background(), "test", func(ctx context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.failures[len(tt.failures)-1], err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantDelays, rec.delays)
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for status, want := range map[int]bool{500: true, 502: true, 429: true, 408: true, 400: false, 401: false, 404: false, 409: false} {
		assert.Equal(t, want, IsRetryableStatus(status), "status %d", status)
	}
}

func TestDelay(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
}
