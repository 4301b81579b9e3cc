package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Marshal renders a filter document as canonical Extended JSON, the form in
// which segment queries are persisted.
func Marshal(doc bson.D) (string, error) {
	if doc == nil {
		doc = bson.D{}
	}
	b, err := bson.MarshalExtJSON(doc, true, false)
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	return string(b), nil
}

// Parse reads a persisted query back into a filter document.
func Parse(s string) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(s), false, &doc); err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return doc, nil
}
