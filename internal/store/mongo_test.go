// server/internal/store/mongo_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRecordListSort_StableTiebreak(t *testing.T) {
	// Newest first, with the ObjectID breaking same-millisecond ties so two
	// reads never disagree on the order.
	want := bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	}
	assert.Equal(t, want, recordListSort)
}
