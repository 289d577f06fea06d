package verifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"email-verifier-service/internal/config"
	"email-verifier-service/internal/constants"
	"email-verifier-service/internal/disposable"
	storageErrors "email-verifier-service/internal/storage/errors"
	"email-verifier-service/internal/verifier/v1/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu     sync.Mutex
	stored map[string]*models.Result
	getErr error
	putErr error
}

func (c *fakeCache) GetCachedVerdict(_ context.Context, email string) (*models.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	if result, ok := c.stored[email]; ok {
		return result, nil
	}
	return nil, &storageErrors.NotFoundError{Err: errors.New("no rows")}
}

func (c *fakeCache) UpsertCachedVerdict(_ context.Context, result *models.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	if c.stored == nil {
		c.stored = make(map[string]*models.Result)
	}
	c.stored[result.Email] = result
	return nil
}

type fakeResolver struct {
	hosts map[string][]string
}

func (r *fakeResolver) LookupMX(_ context.Context, domain string) ([]string, error) {
	hosts, ok := r.hosts[domain]
	if !ok {
		return nil, errors.New("no such host")
	}
	return hosts, nil
}

type fakeProber struct {
	status map[string]string
}

func (p *fakeProber) Probe(_ context.Context, _, email string) string {
	if status, ok := p.status[email]; ok {
		return status
	}
	return constants.ActiveStatusUnknown
}

func newTestVerifier(t *testing.T, cache Cache, resolver Resolver, prober Prober) *Verifier {
	t.Helper()
	cfg := config.NewConfig()
	log := zerolog.Nop()
	v := NewVerifier(cfg, &log, cache, disposable.NewChecker(cfg, &log))
	if resolver != nil {
		v.resolver = resolver
	}
	if prober != nil {
		v.prober = prober
	}
	return v
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		mxHosts      []string
		deep         bool
		probeStatus  string
		verdict      string
		reason       string
		activeStatus string
	}{
		{
			name:         "invalid syntax",
			email:        "not-an-email",
			verdict:      constants.VerdictBad,
			reason:       constants.ReasonInvalid,
			activeStatus: constants.ActiveStatusInactive,
		},
		{
			name:         "disposable domain",
			email:        "joe@mailinator.com",
			mxHosts:      []string{"mx.mailinator.com"},
			verdict:      constants.VerdictRisky,
			reason:       constants.ReasonDisposable,
			activeStatus: constants.ActiveStatusUnknown,
		},
		{
			name:         "disposable subdomain",
			email:        "joe@mail.mailinator.com",
			mxHosts:      []string{"mx.mailinator.com"},
			verdict:      constants.VerdictRisky,
			reason:       constants.ReasonDisposable,
			activeStatus: constants.ActiveStatusUnknown,
		},
		{
			name:         "no MX records",
			email:        "joe@example.com",
			verdict:      constants.VerdictBad,
			reason:       constants.ReasonNoMX,
			activeStatus: constants.ActiveStatusInactive,
		},
		{
			name:         "fast mode with MX",
			email:        "joe@example.com",
			mxHosts:      []string{"mx.example.com"},
			verdict:      constants.VerdictGood,
			reason:       constants.ReasonSyntaxMX,
			activeStatus: constants.ActiveStatusUnknown,
		},
		{
			name:         "deep probe accepted",
			email:        "joe@example.com",
			mxHosts:      []string{"mx.example.com"},
			deep:         true,
			probeStatus:  constants.ActiveStatusActive,
			verdict:      constants.VerdictGood,
			reason:       constants.ReasonSMTPActive,
			activeStatus: constants.ActiveStatusActive,
		},
		{
			name:         "deep probe rejected",
			email:        "gone@example.com",
			mxHosts:      []string{"mx.example.com"},
			deep:         true,
			probeStatus:  constants.ActiveStatusInactive,
			verdict:      constants.VerdictBad,
			reason:       constants.ReasonSMTPReject,
			activeStatus: constants.ActiveStatusInactive,
		},
		{
			name:         "deep probe inconclusive",
			email:        "maybe@example.com",
			mxHosts:      []string{"mx.example.com"},
			deep:         true,
			probeStatus:  constants.ActiveStatusUnknown,
			verdict:      constants.VerdictRisky,
			reason:       constants.ReasonSMTPUnknown,
			activeStatus: constants.ActiveStatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &fakeProber{status: map[string]string{tt.email: tt.probeStatus}}
			v := newTestVerifier(t, &fakeCache{}, nil, prober)

			result := v.Classify(context.Background(), tt.email, tt.mxHosts, tt.deep)
			assert.Equal(t, tt.email, result.Email)
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Equal(t, tt.activeStatus, result.ActiveStatus)
		})
	}
}

func TestClassifyNormalizesInput(t *testing.T) {
	v := newTestVerifier(t, &fakeCache{}, nil, nil)
	result := v.Classify(context.Background(), "  Joe@Example.COM ", []string{"mx.example.com"}, false)
	assert.Equal(t, "joe@example.com", result.Email)
	assert.Equal(t, constants.VerdictGood, result.Verdict)
}

func TestClassifyCacheInteraction(t *testing.T) {
	t.Run("cache hit short-circuits", func(t *testing.T) {
		cached := &models.Result{
			Email:        "joe@example.com",
			Verdict:      constants.VerdictBad,
			Reason:       constants.ReasonSMTPReject,
			ActiveStatus: constants.ActiveStatusInactive,
		}
		cache := &fakeCache{stored: map[string]*models.Result{"joe@example.com": cached}}
		v := newTestVerifier(t, cache, nil, nil)

		result := v.Classify(context.Background(), "joe@example.com", []string{"mx.example.com"}, false)
		assert.Equal(t, cached, result)
	})

	t.Run("fresh verdict is cached", func(t *testing.T) {
		cache := &fakeCache{}
		v := newTestVerifier(t, cache, nil, nil)

		result := v.Classify(context.Background(), "joe@example.com", []string{"mx.example.com"}, false)
		require.NotNil(t, cache.stored["joe@example.com"])
		assert.Equal(t, result, cache.stored["joe@example.com"])
	})

	t.Run("cache failures degrade to fresh check", func(t *testing.T) {
		cache := &fakeCache{getErr: errors.New("db down"), putErr: errors.New("db down")}
		v := newTestVerifier(t, cache, nil, nil)

		result := v.Classify(context.Background(), "joe@example.com", []string{"mx.example.com"}, false)
		assert.Equal(t, constants.VerdictGood, result.Verdict)
		assert.Equal(t, constants.ReasonSyntaxMX, result.Reason)
	})
}

func TestVerifyOne(t *testing.T) {
	resolver := &fakeResolver{hosts: map[string][]string{"example.com": {"mx.example.com"}}}

	t.Run("resolves MX inline", func(t *testing.T) {
		v := newTestVerifier(t, &fakeCache{}, resolver, nil)
		result := v.VerifyOne(context.Background(), "joe@example.com", false)
		assert.Equal(t, constants.VerdictGood, result.Verdict)
		assert.Equal(t, constants.ReasonSyntaxMX, result.Reason)
	})

	t.Run("resolution failure means no MX", func(t *testing.T) {
		v := newTestVerifier(t, &fakeCache{}, resolver, nil)
		result := v.VerifyOne(context.Background(), "joe@unresolvable.example", false)
		assert.Equal(t, constants.VerdictBad, result.Verdict)
		assert.Equal(t, constants.ReasonNoMX, result.Reason)
	})
}

func TestVerifyBatch(t *testing.T) {
	resolver := &fakeResolver{hosts: map[string][]string{
		"example.com": {"mx.example.com"},
		"example.org": {"mx.example.org"},
	}}
	emails := []string{
		"alice@example.com",
		"bob@example.org",
		"broken",
		"carol@unresolvable.example",
	}

	cache := &fakeCache{}
	v := newTestVerifier(t, cache, resolver, nil)

	var mu sync.Mutex
	var done int
	results := v.VerifyBatch(context.Background(), emails, false, 4, func() {
		mu.Lock()
		done++
		mu.Unlock()
	})

	require.Len(t, results, len(emails))
	assert.Equal(t, len(emails), done)

	byEmail := make(map[string]models.Result, len(results))
	for _, result := range results {
		byEmail[result.Email] = result
	}
	assert.Equal(t, constants.VerdictGood, byEmail["alice@example.com"].Verdict)
	assert.Equal(t, constants.VerdictGood, byEmail["bob@example.org"].Verdict)
	assert.Equal(t, constants.ReasonInvalid, byEmail["broken"].Reason)
	assert.Equal(t, constants.ReasonNoMX, byEmail["carol@unresolvable.example"].Reason)

	// results come back sorted regardless of worker completion order
	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i-1].Email, results[i].Email)
	}
}
