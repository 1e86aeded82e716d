package repository

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductQuery holds the optional search parameters of GET /products.
// Empty fields impose no constraint; set fields combine with AND.
type ProductQuery struct {
	Name     string
	Category string
	Brand    string
	Tags     []string
}

// BuildProductQuery reads name, category, brand and the comma-separated
// tags parameter. Blank values are treated as absent.
func BuildProductQuery(v url.Values) ProductQuery {
	q := ProductQuery{
		Name:     strings.TrimSpace(v.Get("name")),
		Category: strings.TrimSpace(v.Get("category")),
		Brand:    strings.TrimSpace(v.Get("brand")),
	}
	if raw := v.Get("tags"); raw != "" {
		q.Tags = splitTags(raw)
	}
	return q
}

func splitTags(raw string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// MongoFilter translates the query into a products filter. Text fields are
// case-insensitive substring matches with the input regex-escaped; tags
// match when any embedded tag name is in the set.
func (q ProductQuery) MongoFilter() bson.M {
	filter := bson.M{}
	if q.Name != "" {
		filter["name"] = containsFold(q.Name)
	}
	if q.Category != "" {
		filter["category"] = containsFold(q.Category)
	}
	if q.Brand != "" {
		filter["brand"] = containsFold(q.Brand)
	}
	if len(q.Tags) > 0 {
		filter["tags.name"] = bson.M{"$in": q.Tags}
	}
	return filter
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// sqlWhere renders the query as a WHERE clause with positional arguments
// for the products table.
func (q ProductQuery) sqlWhere(arrayArg func([]string) interface{}) (string, []interface{}) {
	var conds []string
	var args []interface{}

	ilike := func(column, value string) {
		args = append(args, escapeLike(value))
		conds = append(conds, fmt.Sprintf(`%s ILIKE '%%' || $%d || '%%'`, column, len(args)))
	}
	if q.Name != "" {
		ilike("name", q.Name)
	}
	if q.Category != "" {
		ilike("category", q.Category)
	}
	if q.Brand != "" {
		ilike("brand", q.Brand)
	}
	if len(q.Tags) > 0 {
		args = append(args, arrayArg(q.Tags))
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(tags) t WHERE t->>'name' = ANY($%d))`, len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
