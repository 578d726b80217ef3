// Package common contains shared constants and sentinel errors used across
// studysync components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AnonymousOwner is the owner scope used when no authenticated owner is
// present. Records created in that scope carry it in their ownerId field.
const AnonymousOwner = "anonymous"

// LocalIDPrefix marks ids assigned on the client that the remote store has
// not confirmed yet.
const LocalIDPrefix = "local_"

// IsAnonymous reports whether ownerID denotes the anonymous scope.
func IsAnonymous(ownerID string) bool {
	return ownerID == "" || ownerID == AnonymousOwner
}

// OwnerScope returns the cache scope for ownerID.
func OwnerScope(ownerID string) string {
	if IsAnonymous(ownerID) {
		return AnonymousOwner
	}
	return ownerID
}
