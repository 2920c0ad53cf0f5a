package providers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Verify(ctx context.Context, token string) (*ExternalProfile, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &ExternalProfile{Provider: s.name, ExternalID: "id-" + token}, nil
}

func TestRegistry_EnableAndGet(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("stub", func(cfg ProviderConfig) (Provider, error) {
		return &stubProvider{name: "stub"}, nil
	})
	r.RegisterFactory("broken", func(cfg ProviderConfig) (Provider, error) {
		return nil, errors.New("missing secret")
	})

	require.NoError(t, r.Enable("stub", ProviderConfig{}))
	assert.Error(t, r.Enable("broken", ProviderConfig{}))
	assert.Error(t, r.Enable("nope", ProviderConfig{}))

	p, err := r.Get("stub")
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())

	_, err = r.Get("broken")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Equal(t, []string{"stub"}, r.Enabled())
}

func TestRegistry_Wrap(t *testing.T) {
	r := NewRegistry()
	r.Add(&stubProvider{name: "a"})
	r.Add(&stubProvider{name: "b"})
	r.Wrap(Coalesce)

	for _, name := range []string{"a", "b"} {
		p, err := r.Get(name)
		require.NoError(t, err)
		_, ok := p.(*coalesced)
		assert.True(t, ok, name)
		assert.Equal(t, name, p.Name())
	}
}

func TestCoalesce_SharesOneCall(t *testing.T) {
	stub := &stubProvider{name: "stub", delay: 100 * time.Millisecond}
	p := Coalesce(stub)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*ExternalProfile, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prof, err := p.Verify(context.Background(), "same")
			assert.NoError(t, err)
			results[i] = prof
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), stub.calls.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, "id-same", r.ExternalID)
	}
	// Each caller owns its copy.
	results[0].Name = "changed"
	assert.Empty(t, results[1].Name)
}

func TestCoalesce_CallerCancel(t *testing.T) {
	stub := &stubProvider{name: "stub", delay: 200 * time.Millisecond}
	p := Coalesce(stub)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Verify(ctx, "slow")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCoalesce_PropagatesError(t *testing.T) {
	p := Coalesce(&stubProvider{name: "stub", err: ErrInvalidExternalToken})
	_, err := p.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidExternalToken)
}
