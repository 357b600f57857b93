package core

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicyConfig is returned by PolicyConfig.Validate.
var ErrInvalidPolicyConfig = errors.New("invalid policy config")

// PolicyConfig holds the integer policy parameters. All values must be positive.
// The field names are the keys of the "LibrarySettings" section in the config file.
type PolicyConfig struct {
	MaxDomainsPerBook           int // book registration invariant
	MaxBooksPerReader           int // NMC
	LoanLimitPeriodMonths       int // reserved, no rule consumes it
	MaxBooksPerLoan             int // per request cap of a bulk borrow
	MaxBooksPerDomain           int // D
	DomainCheckIntervalMonths   int // L
	LoanPeriodDays              int
	MaxExtensionDays            int
	ReborrowRestrictedDays      int // DELTA
	MaxBooksPerDay              int // NCZ
	MaxProcessedPerDayLibrarian int // PERSIMP
}

// DefaultPolicyConfig returns the library's default limits.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MaxDomainsPerBook:           3,
		MaxBooksPerReader:           5,
		LoanLimitPeriodMonths:       6,
		MaxBooksPerLoan:             3,
		MaxBooksPerDomain:           3,
		DomainCheckIntervalMonths:   3,
		LoanPeriodDays:              14,
		MaxExtensionDays:            30,
		ReborrowRestrictedDays:      90,
		MaxBooksPerDay:              2,
		MaxProcessedPerDayLibrarian: 20,
	}
}

// Validate returns ErrInvalidPolicyConfig joined with one error per non-positive value.
func (c PolicyConfig) Validate() error {
	var errs []error

	for key, value := range c.Values() {
		if value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", key, value))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidPolicyConfig}, errs...)...)
	}

	return nil
}

// Values returns the parameters keyed by their config name.
func (c PolicyConfig) Values() map[string]int {
	return map[string]int{
		"MaxDomainsPerBook":           c.MaxDomainsPerBook,
		"MaxBooksPerReader":           c.MaxBooksPerReader,
		"LoanLimitPeriodMonths":       c.LoanLimitPeriodMonths,
		"MaxBooksPerLoan":             c.MaxBooksPerLoan,
		"MaxBooksPerDomain":           c.MaxBooksPerDomain,
		"DomainCheckIntervalMonths":   c.DomainCheckIntervalMonths,
		"LoanPeriodDays":              c.LoanPeriodDays,
		"MaxExtensionDays":            c.MaxExtensionDays,
		"ReborrowRestrictedDays":      c.ReborrowRestrictedDays,
		"MaxBooksPerDay":              c.MaxBooksPerDay,
		"MaxProcessedPerDayLibrarian": c.MaxProcessedPerDayLibrarian,
	}
}

// Set assigns the parameter named key. Unknown keys return false.
func (c *PolicyConfig) Set(key string, value int) bool {
	fields := map[string]*int{
		"MaxDomainsPerBook":           &c.MaxDomainsPerBook,
		"MaxBooksPerReader":           &c.MaxBooksPerReader,
		"LoanLimitPeriodMonths":       &c.LoanLimitPeriodMonths,
		"MaxBooksPerLoan":             &c.MaxBooksPerLoan,
		"MaxBooksPerDomain":           &c.MaxBooksPerDomain,
		"DomainCheckIntervalMonths":   &c.DomainCheckIntervalMonths,
		"LoanPeriodDays":              &c.LoanPeriodDays,
		"MaxExtensionDays":            &c.MaxExtensionDays,
		"ReborrowRestrictedDays":      &c.ReborrowRestrictedDays,
		"MaxBooksPerDay":              &c.MaxBooksPerDay,
		"MaxProcessedPerDayLibrarian": &c.MaxProcessedPerDayLibrarian,
	}

	field, ok := fields[key]
	if !ok {
		return false
	}

	*field = value

	return true
}

// ReaderLimits are the limits in effect for one reader after STAFF relaxation.
type ReaderLimits struct {
	MaxOpenLoans           int
	MaxLoansPerDay         int // 0 means unlimited
	MaxBooksPerDomain      int
	DomainWindowMonths     int
	ReborrowRestrictedDays int
	MaxBooksPerLoan        int
	MaxExtensionDays       int
}

// LimitsFor applies STAFF doubling: caps are doubled, windows halved (the domain window floored at 1)
// and the daily cap does not apply.
func (c PolicyConfig) LimitsFor(kind ReaderKind) ReaderLimits {
	if !IsStaff(kind) {
		return ReaderLimits{
			MaxOpenLoans:           c.MaxBooksPerReader,
			MaxLoansPerDay:         c.MaxBooksPerDay,
			MaxBooksPerDomain:      c.MaxBooksPerDomain,
			DomainWindowMonths:     c.DomainCheckIntervalMonths,
			ReborrowRestrictedDays: c.ReborrowRestrictedDays,
			MaxBooksPerLoan:        c.MaxBooksPerLoan,
			MaxExtensionDays:       c.MaxExtensionDays,
		}
	}

	return ReaderLimits{
		MaxOpenLoans:           c.MaxBooksPerReader * 2,
		MaxLoansPerDay:         0,
		MaxBooksPerDomain:      c.MaxBooksPerDomain * 2,
		DomainWindowMonths:     max(1, c.DomainCheckIntervalMonths/2),
		ReborrowRestrictedDays: c.ReborrowRestrictedDays / 2,
		MaxBooksPerLoan:        c.MaxBooksPerLoan * 2,
		MaxExtensionDays:       c.MaxExtensionDays * 2,
	}
}
