// Package verifier implements the email classification engine.

package verifier

import (
	"context"
	"sort"
	"strings"
	"sync"

	"email-verifier-service/internal/config"
	"email-verifier-service/internal/constants"
	"email-verifier-service/internal/disposable"
	storageErrors "email-verifier-service/internal/storage/errors"
	verifierErrors "email-verifier-service/internal/verifier/errors"
	"email-verifier-service/internal/verifier/v1/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Cache abstracts verdict persistence between runs.
type Cache interface {
	GetCachedVerdict(ctx context.Context, email string) (*models.Result, error)
	UpsertCachedVerdict(ctx context.Context, result *models.Result) error
}

// Verifier defines an object and sets its attributes.
type Verifier struct {
	cfg        *config.Config
	log        *zerolog.Logger
	cache      Cache
	disposable *disposable.Checker
	validate   *validator.Validate
	resolver   Resolver
	prober     Prober
}

// NewVerifier initializes a new Verifier instance.
func NewVerifier(cfg *config.Config, logger *zerolog.Logger, cache Cache, checker *disposable.Checker) *Verifier {
	logger.Debug().Msg("calling initializer of verifier service")
	return &Verifier{
		cfg:        cfg,
		log:        logger,
		cache:      cache,
		disposable: checker,
		validate:   validator.New(),
		resolver:   newNetResolver(cfg.Verifier.MXTimeout),
		prober:     newSMTPProber(logger, cfg.Verifier.SMTPPort, cfg.Verifier.SMTPTimeout, cfg.Verifier.HeloDomain, cfg.Verifier.MailFrom),
	}
}

// Classify runs the classification pipeline for one address against an
// already resolved MX host list. Cache failures degrade to a fresh check,
// never to a batch failure.
func (v *Verifier) Classify(ctx context.Context, email string, mxHosts []string, deep bool) *models.Result {
	v.log.Debug().Msg("calling `Classify` method")
	email = strings.ToLower(strings.TrimSpace(email))

	cached, err := v.cache.GetCachedVerdict(ctx, email)
	if err == nil {
		return cached
	}
	if _, ok := err.(*storageErrors.NotFoundError); !ok {
		v.log.Warn().Err(err).Str("email", email).Msg(verifierErrors.CacheLookupError)
	}

	result := v.classify(ctx, email, mxHosts, deep)

	if err := v.cache.UpsertCachedVerdict(ctx, result); err != nil {
		v.log.Warn().Err(err).Str("email", email).Msg(verifierErrors.CacheWriteError)
	}
	return result
}

// classify holds the pipeline proper, free of cache interaction.
func (v *Verifier) classify(ctx context.Context, email string, mxHosts []string, deep bool) *models.Result {
	if err := v.validate.Var(email, "required,email"); err != nil {
		return &models.Result{
			Email:        email,
			Verdict:      constants.VerdictBad,
			Reason:       constants.ReasonInvalid,
			ActiveStatus: constants.ActiveStatusInactive,
		}
	}

	domain := domainOf(email)
	if v.disposable.IsDisposable(domain) {
		return &models.Result{
			Email:        email,
			Verdict:      constants.VerdictRisky,
			Reason:       constants.ReasonDisposable,
			ActiveStatus: constants.ActiveStatusUnknown,
			MXDomain:     domain,
		}
	}

	if len(mxHosts) == 0 {
		return &models.Result{
			Email:        email,
			Verdict:      constants.VerdictBad,
			Reason:       constants.ReasonNoMX,
			ActiveStatus: constants.ActiveStatusInactive,
			MXDomain:     domain,
		}
	}

	if deep {
		switch v.prober.Probe(ctx, mxHosts[0], email) {
		case constants.ActiveStatusActive:
			return &models.Result{
				Email:        email,
				Verdict:      constants.VerdictGood,
				Reason:       constants.ReasonSMTPActive,
				ActiveStatus: constants.ActiveStatusActive,
				MXDomain:     domain,
			}
		case constants.ActiveStatusInactive:
			return &models.Result{
				Email:        email,
				Verdict:      constants.VerdictBad,
				Reason:       constants.ReasonSMTPReject,
				ActiveStatus: constants.ActiveStatusInactive,
				MXDomain:     domain,
			}
		default:
			return &models.Result{
				Email:        email,
				Verdict:      constants.VerdictRisky,
				Reason:       constants.ReasonSMTPUnknown,
				ActiveStatus: constants.ActiveStatusUnknown,
				MXDomain:     domain,
			}
		}
	}

	return &models.Result{
		Email:        email,
		Verdict:      constants.VerdictGood,
		Reason:       constants.ReasonSyntaxMX,
		ActiveStatus: constants.ActiveStatusUnknown,
		MXDomain:     domain,
	}
}

// VerifyOne classifies a single address, resolving its MX hosts inline.
func (v *Verifier) VerifyOne(ctx context.Context, email string, deep bool) *models.Result {
	v.log.Debug().Msg("calling `VerifyOne` method")
	email = strings.ToLower(strings.TrimSpace(email))

	var mxHosts []string
	if domain := domainOf(email); domain != "" {
		hosts, err := v.resolver.LookupMX(ctx, domain)
		if err != nil {
			v.log.Debug().Err(err).Str("domain", domain).Msg(verifierErrors.MXResolutionError)
		} else {
			mxHosts = hosts
		}
	}

	return v.Classify(ctx, email, mxHosts, deep)
}

// VerifyBatch classifies a list of addresses on a bounded worker pool, MX
// hosts prefetched once per unique domain. onDone, when non-nil, is invoked
// after each classified address.
func (v *Verifier) VerifyBatch(ctx context.Context, emails []string, deep bool, workers int, onDone func()) []models.Result {
	v.log.Debug().Msg("calling `VerifyBatch` method")
	if workers < 1 {
		workers = v.cfg.Verifier.Workers
	}

	domainSet := make(map[string]struct{})
	for _, email := range emails {
		if domain := domainOf(email); domain != "" {
			domainSet[domain] = struct{}{}
		}
	}
	domains := make([]string, 0, len(domainSet))
	for domain := range domainSet {
		domains = append(domains, domain)
	}
	v.log.Info().Int("emails", len(emails)).Int("domains", len(domains)).Msg("resolving MX records")
	hostsByDomain := v.resolveMXBulk(ctx, domains, workers)

	var mu sync.Mutex
	results := make([]models.Result, 0, len(emails))

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for _, email := range emails {
		email := email
		g.Go(func() error {
			result := v.Classify(ctx, email, hostsByDomain[domainOf(email)], deep)
			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
			if onDone != nil {
				onDone()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Email < results[j].Email })
	return results
}
