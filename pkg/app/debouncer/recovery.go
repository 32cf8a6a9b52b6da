package debouncer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Recover arms the wake-up schedule from the buckets persisted by previous
// runs. It is safe to call more than once. Buckets of policies this process
// does not know are left untouched.
func (d *Debouncer) Recover(ctx context.Context) (int, error) {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	active, err := d.repo.ListActive(storeCtx)
	if err != nil {
		return 0, storageError("list active buckets", err)
	}

	armed := 0
	unknown := make(map[string]int)
	for _, b := range active {
		if _, ok := d.registry.Lookup(b.PolicyName); !ok {
			unknown[b.PolicyName]++
			continue
		}
		d.Wake(b.PolicyName, b.FireAt)
		armed++
	}
	for policy, count := range unknown {
		d.logger.WithFields(logrus.Fields{
			"policy":  policy,
			"buckets": count,
		}).Warn("active buckets belong to an unregistered policy")
	}

	next, _ := d.NextWake()
	d.logger.WithFields(logrus.Fields{
		"active":   len(active),
		"armed":    armed,
		"nextWake": next,
	}).Info("recovered pending buckets")
	return armed, nil
}
