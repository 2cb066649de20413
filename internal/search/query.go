// Package search turns catalog listing parameters into an Elasticsearch
// bool query and reconciles the resulting hits with relational rows.
package search

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
)

// Clause is one entry of a filter, must or sort list.
type Clause map[string]interface{}

// Query is the engine-agnostic query document sent to the search index.
type Query struct {
	From   int
	Size   int
	Filter []Clause
	Must   []Clause
	Sort   []Clause
}

// Result is the ordered id list produced by the index plus its total hit count.
type Result struct {
	IDs   []int64
	Total int64
}

// WeightedField is a document field with its relevance boost.
type WeightedField struct {
	Name  string
	Boost int
}

func (f WeightedField) String() string {
	if f.Boost <= 1 {
		return f.Name
	}

	return f.Name + "^" + strconv.Itoa(f.Boost)
}

const (
	OnSaleField       = "on_sale"
	CategoryIDField   = "category_id"
	CategoryPathField = "category_path"
)

const (
	DefaultSize = 16
	// MaxResultWindow mirrors the index.max_result_window default. The engine
	// rejects any request whose from+size goes past it.
	MaxResultWindow = 10000
)

// KeywordFields is the fixed field set every search token is scored against.
var KeywordFields = []WeightedField{
	{Name: "title", Boost: 3},
	{Name: "long_title", Boost: 3},
	{Name: "category", Boost: 3},
	{Name: "skus_title", Boost: 2},
	{Name: "description", Boost: 1},
	{Name: "skus_description", Boost: 1},
	{Name: "properties_value", Boost: 1},
}

var SortableFields = map[string]struct{}{
	"price":      {},
	"sold_count": {},
	"rating":     {},
}

var orderPattern = regexp.MustCompile(`^(.+)_(asc|desc)$`)

// ParseOrder splits "<metric>_<direction>". ok is false for anything that
// is not a sortable metric followed by asc or desc.
func ParseOrder(order string) (field string, direction string, ok bool) {
	matches := orderPattern.FindStringSubmatch(order)
	if matches == nil {
		return "", "", false
	}

	if _, sortable := SortableFields[matches[1]]; !sortable {
		return "", "", false
	}

	return matches[1], matches[2], true
}

// Tokenize splits free text on whitespace, dropping empty tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Body renders the query document in Elasticsearch request syntax.
func (q Query) Body() map[string]interface{} {
	filter := q.Filter
	if filter == nil {
		filter = []Clause{}
	}

	must := q.Must
	if must == nil {
		must = []Clause{}
	}

	body := map[string]interface{}{
		"from": q.From,
		"size": q.Size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filter,
				"must":   must,
			},
		},
		"_source": false,
	}

	if len(q.Sort) > 0 {
		body["sort"] = q.Sort
	}

	return body
}

func (q Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Body())
}

// Builder assembles a Query. Every query it builds is scoped to products
// that are on sale.
type Builder struct {
	query Query
}

func NewBuilder() *Builder {
	return &Builder{
		query: Query{
			Filter: []Clause{
				{"term": map[string]interface{}{OnSaleField: true}},
			},
		},
	}
}

// Paginate selects one page of hits. A page that starts past the result
// window asks only for the hit count, so the caller gets an empty page with
// the real total instead of an engine error.
func (b *Builder) Paginate(page, size int) *Builder {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultSize
	}

	if size > MaxResultWindow || page-1 > (MaxResultWindow-size)/size {
		b.query.From = 0
		b.query.Size = 0
		return b
	}

	b.query.From = (page - 1) * size
	b.query.Size = size

	return b
}

// Category narrows the query to a category. Directories match every
// product below them, leaves only their own products.
func (b *Builder) Category(category domain.Category) *Builder {
	if category.IsDirectory {
		b.query.Filter = append(b.query.Filter, Clause{
			"prefix": map[string]interface{}{CategoryPathField: category.DescendantPathPrefix()},
		})
	} else {
		b.query.Filter = append(b.query.Filter, Clause{
			"term": map[string]interface{}{CategoryIDField: category.ID},
		})
	}

	return b
}

// Keywords adds one must clause per token, so every token has to match
// somewhere in the weighted field set.
func (b *Builder) Keywords(text string) *Builder {
	fields := make([]string, 0, len(KeywordFields))
	for _, field := range KeywordFields {
		fields = append(fields, field.String())
	}

	for _, token := range Tokenize(text) {
		b.query.Must = append(b.query.Must, Clause{
			"multi_match": map[string]interface{}{
				"query":  token,
				"fields": fields,
			},
		})
	}

	return b
}

// OrderBy applies a "<metric>_<direction>" sort. Unparseable values leave
// the relevance order untouched.
func (b *Builder) OrderBy(order string) *Builder {
	field, direction, ok := ParseOrder(order)
	if !ok {
		return b
	}

	b.query.Sort = append(b.query.Sort, Clause{
		field: map[string]interface{}{"order": direction},
	})

	return b
}

func (b *Builder) Query() Query {
	return b.query
}
