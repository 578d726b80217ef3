package models

import "github.com/dmitrijs2005/studysync/internal/common"

// PartitionKey addresses one (collection, owner scope) slice of the cache.
type PartitionKey struct {
	Collection string
	Scope      string
}

// NewPartitionKey maps an empty or anonymous owner to the anonymous scope.
func NewPartitionKey(collection, ownerID string) PartitionKey {
	return PartitionKey{Collection: collection, Scope: common.OwnerScope(ownerID)}
}

// AnonymousKey is the anonymous partition of collection.
func AnonymousKey(collection string) PartitionKey {
	return PartitionKey{Collection: collection, Scope: common.AnonymousOwner}
}

// IsAnonymous reports whether the key addresses the anonymous scope.
func (k PartitionKey) IsAnonymous() bool {
	return k.Scope == common.AnonymousOwner
}

// String returns the storage key "{collection}_{scope}".
func (k PartitionKey) String() string {
	return k.Collection + "_" + k.Scope
}
