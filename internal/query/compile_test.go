package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestCompile(t *testing.T) {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		doc   bson.D
		where string
		args  []any
	}{
		{
			name:  "empty",
			doc:   bson.D{},
			where: "1=1",
		},
		{
			name:  "in",
			doc:   bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{"new", "contacted"}}}}},
			where: "status IN (?, ?)",
			args:  []any{"new", "contacted"},
		},
		{
			name:  "equality and bool",
			doc:   bson.D{{Key: "source", Value: "import"}, {Key: "isArchived", Value: false}},
			where: "(source = ? AND is_archived = ?)",
			args:  []any{"import", 0},
		},
		{
			name: "or of empties",
			doc: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "email", Value: bson.D{{Key: "$exists", Value: false}}}},
				bson.D{{Key: "email", Value: nil}},
				bson.D{{Key: "email", Value: ""}},
			}}},
			where: "(email IS NULL OR email IS NULL OR email = ?)",
			args:  []any{""},
		},
		{
			name:  "date range",
			doc:   bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: bson.NewDateTimeFromTime(ts)}, {Key: "$lte", Value: bson.NewDateTimeFromTime(ts.Add(time.Hour))}}}},
			where: "(created_at >= ? AND created_at <= ?)",
			args:  []any{"2024-05-01T00:00:00.000Z", "2024-05-01T01:00:00.000Z"},
		},
		{
			name:  "nested creator",
			doc:   bson.D{{Key: "createdBy.email", Value: bson.M{"$in": []any{"a@b.c"}}}},
			where: "created_by_email IN (?)",
			args:  []any{"a@b.c"},
		},
		{
			name:  "empty in matches nothing",
			doc:   bson.D{{Key: "city", Value: bson.D{{Key: "$in", Value: bson.A{}}}}},
			where: "0=1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := Compile(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.D
	}{
		{"unknown field", bson.D{{Key: "password", Value: "x"}}},
		{"unknown operator", bson.D{{Key: "status", Value: bson.D{{Key: "$regex", Value: "n.*"}}}}},
		{"or not array", bson.D{{Key: "$or", Value: "x"}}},
		{"empty or", bson.D{{Key: "$or", Value: bson.A{}}}},
		{"exists not bool", bson.D{{Key: "email", Value: bson.D{{Key: "$exists", Value: 1}}}}},
		{"unsupported value", bson.D{{Key: "status", Value: []byte("x")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Compile(tt.doc)
			assert.Error(t, err)
		})
	}
}
