// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	mints             prometheus.Counter
	burns             prometheus.Counter
	transfers         prometheus.Counter
	approvals         prometheus.Counter
	melts             prometheus.Counter
	accountsCreated   prometheus.Counter
	accountsDestroyed prometheus.Counter
}

func newMetrics(gatherer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		mints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "mints",
			Help:      "number of completed mints",
		}),
		burns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "burns",
			Help:      "number of completed burns",
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "transfers",
			Help:      "number of completed transfers",
		}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "approvals",
			Help:      "number of approvals granted",
		}),
		melts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "melts",
			Help:      "number of frozen balance melts",
		}),
		accountsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "accounts_created",
			Help:      "number of asset accounts created",
		}),
		accountsDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assets",
			Name:      "accounts_destroyed",
			Help:      "number of asset accounts removed",
		}),
	}
	if gatherer == nil {
		return m, nil
	}
	errs := wrappers.Errs{}
	errs.Add(
		gatherer.Register(m.mints),
		gatherer.Register(m.burns),
		gatherer.Register(m.transfers),
		gatherer.Register(m.approvals),
		gatherer.Register(m.melts),
		gatherer.Register(m.accountsCreated),
		gatherer.Register(m.accountsDestroyed),
	)
	return m, errs.Err
}
