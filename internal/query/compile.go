package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TimeLayout is the fixed-width timestamp format stored in the leads table.
// Lexical order of formatted values equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Columns maps lead document fields to leads table columns.
var Columns = map[string]string{
	"_id":              "id",
	"leadId":           "lead_id",
	"businessName":     "business_name",
	"businessType":     "business_type",
	"contactPerson":    "contact_person",
	"phoneNumber":      "phone_number",
	"phoneE164":        "phone_e164",
	"email":            "email",
	"businessCategory": "business_category",
	"websiteUrl":       "website_url",
	"city":             "city",
	"state":            "state",
	"country":          "country",
	"notes":            "notes",
	"serviceInterest":  "service_interest",
	"websiteStatus":    "website_status",
	"status":           "status",
	"priority":         "priority",
	"source":           "source",
	"followUpDate":     "follow_up_date",
	"isArchived":       "is_archived",
	"createdBy.email":  "created_by_email",
	"createdBy.name":   "created_by_name",
	"updatedBy.email":  "updated_by_email",
	"updatedBy.name":   "updated_by_name",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

// Compile translates a filter document into a SQL boolean expression over
// the leads table and its positional arguments. An empty document matches
// every row.
func Compile(doc bson.D) (string, []any, error) {
	c := &compiler{}
	where, err := c.document(doc)
	if err != nil {
		return "", nil, err
	}
	return where, c.args, nil
}

type compiler struct {
	args []any
}

func (c *compiler) document(doc bson.D) (string, error) {
	if len(doc) == 0 {
		return "1=1", nil
	}
	parts := make([]string, 0, len(doc))
	for _, e := range doc {
		var (
			part string
			err  error
		)
		switch e.Key {
		case "$or", "$and", "$nor":
			part, err = c.logical(e.Key, e.Value)
		default:
			part, err = c.field(e.Key, e.Value)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func (c *compiler) logical(op string, v any) (string, error) {
	items, ok := asArray(v)
	if !ok {
		return "", fmt.Errorf("%s requires an array", op)
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%s requires a non-empty array", op)
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		sub, ok := asDocument(item)
		if !ok {
			return "", fmt.Errorf("%s entries must be documents", op)
		}
		part, err := c.document(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	switch op {
	case "$or":
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case "$nor":
		return "NOT (" + strings.Join(parts, " OR ") + ")", nil
	default:
		return "(" + strings.Join(parts, " AND ") + ")", nil
	}
}

func (c *compiler) field(name string, v any) (string, error) {
	col, ok := Columns[name]
	if !ok {
		return "", fmt.Errorf("unknown field %q", name)
	}
	if ops, ok := asDocument(v); ok && isOperatorDoc(ops) {
		parts := make([]string, 0, len(ops))
		for _, e := range ops {
			part, err := c.operator(col, e.Key, e.Value)
			if err != nil {
				return "", fmt.Errorf("%s: %w", name, err)
			}
			parts = append(parts, part)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil
	}
	return c.operator(col, "$eq", v)
}

func (c *compiler) operator(col, op string, v any) (string, error) {
	switch op {
	case "$eq":
		if v == nil {
			return col + " IS NULL", nil
		}
		return c.compare(col, "=", v)
	case "$ne":
		if v == nil {
			return col + " IS NOT NULL", nil
		}
		return c.compare(col, "IS NOT", v)
	case "$gt":
		return c.compare(col, ">", v)
	case "$gte":
		return c.compare(col, ">=", v)
	case "$lt":
		return c.compare(col, "<", v)
	case "$lte":
		return c.compare(col, "<=", v)
	case "$exists":
		b, ok := v.(bool)
		if !ok {
			return "", fmt.Errorf("$exists requires a boolean")
		}
		if b {
			return col + " IS NOT NULL", nil
		}
		return col + " IS NULL", nil
	case "$in", "$nin":
		items, ok := asArray(v)
		if !ok {
			return "", fmt.Errorf("%s requires an array", op)
		}
		if len(items) == 0 {
			if op == "$in" {
				return "0=1", nil
			}
			return "1=1", nil
		}
		placeholders := make([]string, len(items))
		for i, item := range items {
			arg, err := sqlValue(item)
			if err != nil {
				return "", err
			}
			placeholders[i] = "?"
			c.args = append(c.args, arg)
		}
		expr := col + " IN (" + strings.Join(placeholders, ", ") + ")"
		if op == "$nin" {
			expr = "(" + col + " IS NULL OR " + col + " NOT IN (" + strings.Join(placeholders, ", ") + "))"
		}
		return expr, nil
	default:
		return "", fmt.Errorf("unsupported operator %q", op)
	}
}

func (c *compiler) compare(col, cmp string, v any) (string, error) {
	arg, err := sqlValue(v)
	if err != nil {
		return "", err
	}
	c.args = append(c.args, arg)
	return col + " " + cmp + " ?", nil
}

func sqlValue(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int32:
		return int64(x), nil
	case int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case bson.DateTime:
		return x.Time().UTC().Format(TimeLayout), nil
	case time.Time:
		return x.UTC().Format(TimeLayout), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func isOperatorDoc(d bson.D) bool {
	if len(d) == 0 {
		return false
	}
	for _, e := range d {
		if !strings.HasPrefix(e.Key, "$") {
			return false
		}
	}
	return true
}

func asDocument(v any) (bson.D, bool) {
	switch x := v.(type) {
	case bson.D:
		return x, true
	case bson.M:
		return sortedDoc(x), true
	case map[string]any:
		return sortedDoc(x), true
	}
	return nil, false
}

func sortedDoc(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: m[k]})
	}
	return d
}

func asArray(v any) ([]any, bool) {
	switch x := v.(type) {
	case bson.A:
		return x, true
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
