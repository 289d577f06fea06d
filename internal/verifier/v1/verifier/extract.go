// Package verifier implements the email classification engine.

package verifier

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	verifierErrors "email-verifier-service/internal/verifier/errors"
)

var emailRe = regexp.MustCompile(`([a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

var supportedExtensions = map[string]bool{
	".txt": true,
	".csv": true,
}

// ExtractFromText collects unique lowercased addresses found in a text blob.
func ExtractFromText(text string) []string {
	seen := make(map[string]struct{})
	for _, match := range emailRe.FindAllString(text, -1) {
		seen[strings.ToLower(strings.TrimSpace(match))] = struct{}{}
	}
	emails := make([]string, 0, len(seen))
	for email := range seen {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

// domainOf returns the lowercased domain part of an address.
func domainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// ExtractFromPath collects unique addresses from a file or from all
// supported files directly under a directory.
func (v *Verifier) ExtractFromPath(inputPath string) ([]string, error) {
	v.log.Debug().Msg("calling `ExtractFromPath` method")
	info, err := os.Stat(inputPath)
	if err != nil {
		v.log.Error().Err(err).Str("input", inputPath).Msg(verifierErrors.InputNotFoundError)
		return nil, err
	}

	var paths []string
	if info.IsDir() {
		entries, err := os.ReadDir(inputPath)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				v.log.Info().Str("file", entry.Name()).Msg("skipping unsupported file type")
				continue
			}
			paths = append(paths, filepath.Join(inputPath, entry.Name()))
		}
	} else {
		paths = []string{inputPath}
	}

	seen := make(map[string]struct{})
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			v.log.Error().Err(err).Str("file", path).Msg(verifierErrors.InputReadingError)
			return nil, err
		}
		for _, email := range ExtractFromText(string(data)) {
			seen[email] = struct{}{}
		}
	}

	emails := make([]string, 0, len(seen))
	for email := range seen {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails, nil
}
