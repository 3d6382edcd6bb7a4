// Package enrichment builds company and contact snapshots from external
// data providers. Each provider contributes a partial snapshot; the
// aggregator fans out, merges by field priority and records which
// providers contributed.
package enrichment

import (
	"context"
	"errors"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// RedisPrefix namespaces all enrichment cache and rate limit keys
const RedisPrefix = "outreach"

// ErrNotFound means the provider has no record for the domain or email.
// It is not a failure; the aggregator moves on to the next provider.
var ErrNotFound = errors.New("enrichment: not found")

// ErrDisabled means the provider has no API key configured
var ErrDisabled = errors.New("enrichment: provider disabled")

// CompanyProvider enriches a company by domain
type CompanyProvider interface {
	Name() string
	EnrichCompany(ctx context.Context, domain string) (*contracts.CompanySnapshot, error)
}

// ContactProvider finds the best contact at a company
type ContactProvider interface {
	Name() string
	FindContact(ctx context.Context, domain string) (*contracts.ContactSnapshot, error)
}

// EmailVerifier checks deliverability of a single address
type EmailVerifier interface {
	Name() string
	VerifyEmail(ctx context.Context, email string) (verified bool, confidence float64, err error)
}
