package bonus

import (
	"strings"

	"orderflow/internal/pkg/errs"
)

const (
	// DefaultPolicyName names the policy seeded by the migration.
	DefaultPolicyName = "default"
	// DefaultVipThreshold is the points total that grants VIP status under the
	// seeded policy.
	DefaultVipThreshold = 1000
)

// VipProfilePolicy is the single current VIP threshold snapshot.
type VipProfilePolicy struct {
	name         string
	vipThreshold int64
	version      int64
}

// NewVipProfilePolicy validates a snapshot. The name is trimmed, and both
// threshold and version must be positive.
func NewVipProfilePolicy(name string, vipThreshold, version int64) (VipProfilePolicy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return VipProfilePolicy{}, errs.NewValueIsRequiredError("policy name")
	}
	if vipThreshold < 1 {
		return VipProfilePolicy{}, errs.NewValueIsOutOfRangeError("vipThreshold", vipThreshold, 1, "unbounded")
	}
	if version < 1 {
		return VipProfilePolicy{}, errs.NewValueIsOutOfRangeError("policy version", version, 1, "unbounded")
	}
	return VipProfilePolicy{name: name, vipThreshold: vipThreshold, version: version}, nil
}

// DefaultVipProfilePolicy returns version 1 of the seeded policy.
func DefaultVipProfilePolicy() VipProfilePolicy {
	return VipProfilePolicy{name: DefaultPolicyName, vipThreshold: DefaultVipThreshold, version: 1}
}

// Replace returns the next snapshot. Decisions already taken under the
// current snapshot are not revisited.
func (p VipProfilePolicy) Replace(name string, vipThreshold int64) (VipProfilePolicy, error) {
	return NewVipProfilePolicy(name, vipThreshold, p.version+1)
}

// Name identifies the policy in VIP events.
func (p VipProfilePolicy) Name() string {
	return p.name
}

// VipThreshold is the minimum points total for VIP status.
func (p VipProfilePolicy) VipThreshold() int64 {
	return p.vipThreshold
}

// Version grows by one with every Replace.
func (p VipProfilePolicy) Version() int64 {
	return p.version
}

// QualifiesForVip reports whether points reach the threshold.
func (p VipProfilePolicy) QualifiesForVip(points int64) bool {
	return points >= p.vipThreshold
}
