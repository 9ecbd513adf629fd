package tracking

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// DefaultTTL is how long a tracking link stays usable after completion.
const DefaultTTL = 30 * time.Minute

// Options configures Issuer.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}

// Issuer produces unguessable tracking tokens and their expiry windows.
type Issuer struct {
	ttl    time.Duration
	now    func() time.Time
	random func() (uuid.UUID, error)
}

// NewIssuer builds Issuer with defaults applied.
func NewIssuer(opts Options) *Issuer {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{ttl: ttl, now: now, random: uuid.NewRandom}
}

// Generate returns a random UUID token, or a timestamp based token when
// the system random source is unavailable.
func (i *Issuer) Generate() string {
	id, err := i.random()
	if err == nil {
		return id.String()
	}
	return strconv.FormatInt(i.now().UnixMilli(), 10) + "-" + base36Segment() + base36Segment()
}

// Expiry returns completedAt+TTL, or now+TTL when completion is unknown.
func (i *Issuer) Expiry(completedAt *time.Time) time.Time {
	if completedAt != nil {
		return completedAt.Add(i.ttl)
	}
	return i.now().Add(i.ttl)
}

// IsValid reports whether the order carries a token whose expiry is strictly in the future.
func (i *Issuer) IsValid(order *model.Order) bool {
	if order == nil || order.TrackingToken == nil || *order.TrackingToken == "" {
		return false
	}
	if order.TrackingTokenExpiresAt == nil {
		return false
	}
	return i.now().Before(*order.TrackingTokenExpiresAt)
}

// TTL exposes the configured validity window.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Now returns the issuer clock reading.
func (i *Issuer) Now() time.Time {
	return i.now()
}

func base36Segment() string {
	s := strconv.FormatUint(rand.Uint64(), 36)
	if len(s) > 11 {
		s = s[:11]
	}
	return s
}
