package providers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// coalesced shares one outbound call among identical concurrent verifications
// in this process. Cross-instance uniqueness still comes from the store.
type coalesced struct {
	Provider
	group singleflight.Group
}

// Coalesce wraps p with in-process request coalescing.
func Coalesce(p Provider) Provider {
	return &coalesced{Provider: p}
}

func (c *coalesced) Verify(ctx context.Context, accessToken string) (*ExternalProfile, error) {
	sum := sha256.Sum256([]byte(accessToken))
	key := hex.EncodeToString(sum[:])

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached from the first caller's cancellation; the provider
		// client still bounds the call with its own timeout.
		return c.Provider.Verify(context.WithoutCancel(ctx), accessToken)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := *res.Val.(*ExternalProfile)
		return &p, nil
	}
}
