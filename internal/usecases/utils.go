package usecases

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

func nullTime(t time.Time) null.Time {
	if t.IsZero() {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

func walletOrPlaceholder(wallet string) string {
	if strings.TrimSpace(wallet) == "" {
		return "(provided at signing)"
	}
	return wallet
}
