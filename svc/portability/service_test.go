package portability_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portability/pkg/validator"
	"github.com/dmitrymomot/portability/svc/portability"
)

type recorderStub struct {
	mu       sync.Mutex
	outcomes []portability.Outcome
	reloads  []error
}

func (r *recorderStub) ObserveConsultation(o portability.Outcome, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recorderStub) ObserveReload(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads = append(r.reloads, err)
}

func newService(t *testing.T, opts ...portability.ServiceOption) *portability.Service {
	t.Helper()
	svc, err := portability.NewService(portability.MustDefaultRules(), opts...)
	require.NoError(t, err)
	return svc
}

func TestNewService_RejectsInvalidRules(t *testing.T) {
	t.Parallel()

	_, err := portability.NewService(portability.Rules{})
	assert.ErrorIs(t, err, portability.ErrEmptyCatalog)
}

func TestService_Consult(t *testing.T) {
	t.Parallel()

	t.Run("valid submission", func(t *testing.T) {
		t.Parallel()
		rec := &recorderStub{}
		svc := newService(t, portability.WithRecorder(rec))

		c, err := svc.Consult(context.Background(), validSubmission())
		require.NoError(t, err)
		assert.Equal(t, 22, c.Count())
		assert.Equal(t, "Banco do Brasil", c.Results[0].Institution)
		assert.Equal(t, uint64(1), c.Revision)
		assert.False(t, c.Cached)
		assert.Equal(t, []portability.Outcome{portability.OutcomeEligible}, rec.outcomes)
	})

	t.Run("invalid submission", func(t *testing.T) {
		t.Parallel()
		rec := &recorderStub{}
		svc := newService(t, portability.WithRecorder(rec))

		s := validSubmission()
		s.Age = "10"
		_, err := svc.Consult(context.Background(), s)
		require.True(t, validator.IsValidationError(err))
		assert.Equal(t, []portability.Outcome{portability.OutcomeInvalid}, rec.outcomes)
	})

	t.Run("no eligible institution", func(t *testing.T) {
		t.Parallel()
		rec := &recorderStub{}
		svc := newService(t, portability.WithRecorder(rec))

		s := validSubmission()
		s.Age = "90"
		c, err := svc.Consult(context.Background(), s)
		require.NoError(t, err)
		assert.Zero(t, c.Count())
		assert.Equal(t, []portability.Outcome{portability.OutcomeIneligible}, rec.outcomes)
	})

	t.Run("parse options are applied", func(t *testing.T) {
		t.Parallel()
		limits := portability.DefaultLimits()
		limits.MinAge = 21
		svc := newService(t, portability.WithParseOptions(portability.WithLimits(limits)))

		s := validSubmission()
		s.Age = "19"
		_, err := svc.Consult(context.Background(), s)
		assert.True(t, validator.IsValidationError(err))
	})
}

func TestService_ResultCache(t *testing.T) {
	t.Parallel()

	svc := newService(t, portability.WithResultCache(10, time.Minute))

	first, err := svc.Consult(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	s := validSubmission()
	s.FullName = "Outra Pessoa"
	s.NationalID = "98765432100"
	second, err := svc.Consult(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, second.Cached, "same evaluation profile must hit the cache")
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, "Outra Pessoa", second.Applicant.Name)

	s.InstallmentsPaid = "40"
	third, err := svc.Consult(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, third.Cached)

	require.NoError(t, svc.Reload(context.Background(), portability.DefaultSource()))
	afterReload, err := svc.Consult(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, afterReload.Cached, "reload must invalidate cached results")
	assert.Equal(t, uint64(2), afterReload.Revision)
}

func TestService_Reload(t *testing.T) {
	t.Parallel()

	t.Run("swaps rules", func(t *testing.T) {
		t.Parallel()
		rec := &recorderStub{}
		svc := newService(t, portability.WithRecorder(rec))

		next := syntheticRules(t, policy("Only Bank", 12))
		require.NoError(t, svc.Reload(context.Background(), portability.StaticSource(next)))

		assert.Equal(t, uint64(2), svc.Revision())
		assert.Equal(t, []string{"Only Bank"}, svc.Rules().Names())

		c, err := svc.Consult(context.Background(), validSubmission())
		require.NoError(t, err)
		assert.Equal(t, []string{"Only Bank"}, institutions(c.Results))
		assert.Equal(t, []error{nil}, rec.reloads)
	})

	t.Run("keeps rules when source fails", func(t *testing.T) {
		t.Parallel()
		rec := &recorderStub{}
		svc := newService(t, portability.WithRecorder(rec))
		boom := errors.New("boom")

		err := svc.Reload(context.Background(), portability.PolicySourceFunc(func(context.Context) (portability.Rules, error) {
			return portability.Rules{}, boom
		}))
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, portability.ErrLoadRules)
		assert.Equal(t, uint64(1), svc.Revision())
		assert.Len(t, svc.Rules().Catalog, 23)
		require.Len(t, rec.reloads, 1)
		assert.Error(t, rec.reloads[0])
	})

	t.Run("rejects invalid rules", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		err := svc.Reload(context.Background(), portability.StaticSource(portability.Rules{}))
		assert.ErrorIs(t, err, portability.ErrEmptyCatalog)
		assert.Len(t, svc.Rules().Catalog, 23)
	})

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		assert.ErrorIs(t, svc.Reload(context.Background(), nil), portability.ErrNilSource)
	})

	t.Run("rules snapshot is detached", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		r := svc.Rules()
		r.Catalog[0].Name = "mutated"
		assert.Equal(t, "Banco do Brasil", svc.Rules().Catalog[0].Name)
	})
}

func TestService_ConcurrentReloadAndConsult(t *testing.T) {
	t.Parallel()

	svc := newService(t, portability.WithResultCache(100, time.Minute))
	small := syntheticRules(t, policy("A", 12), policy("B", 12))
	full := portability.MustDefaultRules()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := portability.StaticSource(full)
			if i%2 == 0 {
				src = portability.StaticSource(small)
			}
			assert.NoError(t, svc.Reload(context.Background(), src))
		}(i)
	}
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.Consult(context.Background(), validSubmission())
			assert.NoError(t, err)
			// Either table, never a mix of both.
			assert.Contains(t, []int{2, 22}, c.Count())
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(21), svc.Revision())
}
