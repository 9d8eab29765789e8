// Package format renders durations and money for terminal output.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Minutes renders a minute count as H:MM.
func Minutes(m int64) string {
	sign := ""
	if m < 0 {
		sign, m = "-", -m
	}
	return fmt.Sprintf("%s%d:%02d", sign, m/60, m%60)
}

// Clock renders a running duration as H:MM:SS, dropping fractions of a second.
func Clock(d time.Duration) string {
	s := int64(d / time.Second)
	sign := ""
	if s < 0 {
		sign, s = "-", -s
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, s/3600, s/60%60, s%60)
}

// Money renders minor units as a major amount with two decimals and
// thousands separators, followed by the currency code if one is set.
func Money(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	s := fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(amount/100), amount%100)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// Rate renders an hourly rate.
func Rate(rate int64, currency string) string {
	return Money(rate, currency) + "/h"
}
