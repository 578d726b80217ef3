package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studysync",
			Subsystem: "sync",
			Name:      "remote_failures_total",
			Help:      "Remote store calls that failed and were absorbed.",
		},
		[]string{"op"},
	)

	localIDsAssignedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studysync",
			Subsystem: "sync",
			Name:      "local_ids_assigned_total",
			Help:      "Records stored under a local id pending promotion.",
		},
		[]string{"collection"},
	)

	offlineRecordsSyncedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studysync",
			Subsystem: "sync",
			Name:      "offline_records_synced_total",
			Help:      "Local records promoted to remote ids.",
		},
		[]string{"collection"},
	)

	anonymousRecordsMigratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studysync",
			Subsystem: "sync",
			Name:      "anonymous_records_migrated_total",
			Help:      "Anonymous records moved into an owner partition.",
		},
		[]string{"collection"},
	)
)
