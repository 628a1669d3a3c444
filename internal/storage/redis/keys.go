package redis

import "fmt"

// Key prefix for all registration data
const keyPrefix = "classreg"

// documentKey returns the Redis key holding a document's JSON
func documentKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", keyPrefix, collection, id)
}

// collectionIndexKey returns the Redis key for the SET of document ids in a collection
func collectionIndexKey(collection string) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, collection)
}
