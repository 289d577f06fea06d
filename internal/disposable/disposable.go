// Package disposable provides detection of throwaway email domains.

package disposable

import (
	"bufio"
	"os"
	"strings"

	"email-verifier-service/internal/config"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

var defaultDomains = []string{
	"mailinator.com",
	"10minutemail.com",
	"yopmail.com",
	"guerrillamail.com",
	"trashmail.com",
	"tempmail.com",
	"tempmail.net",
	"getnada.com",
	"dispostable.com",
}

// Checker defines a new object and sets its attributes.
type Checker struct {
	log     *zerolog.Logger
	domains map[string]struct{}
}

// NewChecker initializes a new Checker instance. The built-in domain set may
// be extended with a newline-delimited list file given via configuration.
func NewChecker(cfg *config.Config, logger *zerolog.Logger) *Checker {
	logger.Debug().Msg("calling initializer of disposable checker service")
	domains := make(map[string]struct{}, len(defaultDomains))
	for _, d := range defaultDomains {
		domains[d] = struct{}{}
	}

	if cfg.Verifier.DisposableFile != "" {
		f, err := os.Open(cfg.Verifier.DisposableFile)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Verifier.DisposableFile).Msg("could not open disposable domain list, using built-in set")
		} else {
			defer f.Close()
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				domains[strings.ToLower(line)] = struct{}{}
			}
			if err := scanner.Err(); err != nil {
				logger.Warn().Err(err).Msg("could not read disposable domain list to the end")
			}
		}
	}

	return &Checker{log: logger, domains: domains}
}

// IsDisposable reports whether the registered domain of the given domain
// belongs to a known throwaway provider.
func (c *Checker) IsDisposable(domain string) bool {
	c.log.Debug().Msg("calling `IsDisposable` method")
	base, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(domain))
	if err != nil {
		base = strings.ToLower(domain)
	}
	_, ok := c.domains[base]
	return ok
}
