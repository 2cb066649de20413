package search

import (
	"encoding/json"
	"testing"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	testCases := []struct {
		Name      string
		Order     string
		Field     string
		Direction string
		OK        bool
	}{
		{Name: "price ascending", Order: "price_asc", Field: "price", Direction: "asc", OK: true},
		{Name: "sold count descending", Order: "sold_count_desc", Field: "sold_count", Direction: "desc", OK: true},
		{Name: "rating descending", Order: "rating_desc", Field: "rating", Direction: "desc", OK: true},
		{Name: "empty", Order: ""},
		{Name: "metric only", Order: "price"},
		{Name: "unknown direction", Order: "price_up"},
		{Name: "unknown metric", Order: "title_asc"},
		{Name: "missing metric", Order: "_asc"},
		{Name: "trailing garbage", Order: "price_asc_x"},
		{Name: "upper case", Order: "PRICE_ASC"},
		{Name: "injection attempt", Order: "price;drop_desc"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			field, direction, ok := ParseOrder(tc.Order)

			assert.Equal(t, tc.OK, ok)
			assert.Equal(t, tc.Field, field)
			assert.Equal(t, tc.Direction, direction)
		})
	}
}

func TestBuilder_MalformedOrderKeepsRelevance(t *testing.T) {
	for _, order := range []string{"price", "price_up", "name_asc", "desc", "rating-desc"} {
		query := NewBuilder().OrderBy(order).Query()

		assert.Empty(t, query.Sort, order)
		_, hasSort := query.Body()["sort"]
		assert.False(t, hasSort, order)
	}
}

func TestBuilder_OrderBy(t *testing.T) {
	query := NewBuilder().OrderBy("sold_count_desc").Query()

	require.Len(t, query.Sort, 1)
	assert.Equal(t, Clause{"sold_count": map[string]interface{}{"order": "desc"}}, query.Sort[0])
}

func TestBuilder_AlwaysScopedToOnSale(t *testing.T) {
	query := NewBuilder().Query()

	require.Len(t, query.Filter, 1)
	assert.Equal(t, Clause{"term": map[string]interface{}{"on_sale": true}}, query.Filter[0])
}

func TestBuilder_Paginate(t *testing.T) {
	query := NewBuilder().Paginate(3, 20).Query()

	assert.Equal(t, 40, query.From)
	assert.Equal(t, 20, query.Size)

	query = NewBuilder().Paginate(0, 20).Query()
	assert.Equal(t, 0, query.From)
}

func TestBuilder_PaginateDefaultsSize(t *testing.T) {
	query := NewBuilder().Paginate(2, 0).Query()

	assert.Equal(t, DefaultSize, query.Size)
	assert.Equal(t, DefaultSize, query.From)

	query = NewBuilder().Paginate(1, -5).Query()
	assert.Equal(t, DefaultSize, query.Size)
	assert.Equal(t, 0, query.From)
}

func TestBuilder_PaginateStaysInsideResultWindow(t *testing.T) {
	// last page that still fits: 624*16 + 16 == 10000
	query := NewBuilder().Paginate(625, 16).Query()
	assert.Equal(t, 9984, query.From)
	assert.Equal(t, 16, query.Size)

	for _, page := range []int{626, 1000, 1 << 30} {
		query = NewBuilder().Paginate(page, 16).Query()
		assert.Equal(t, 0, query.From, "page %d", page)
		assert.Equal(t, 0, query.Size, "page %d", page)
	}

	query = NewBuilder().Paginate(1, MaxResultWindow+1).Query()
	assert.Equal(t, 0, query.Size)
}

func TestBuilder_DirectoryCategoryUsesPathPrefix(t *testing.T) {
	directory := domain.Category{ID: 4, Path: "-1-", IsDirectory: true}

	query := NewBuilder().Category(directory).Query()

	require.Len(t, query.Filter, 2)
	assert.Equal(t, Clause{"prefix": map[string]interface{}{"category_path": "-1-4-"}}, query.Filter[1])
}

func TestBuilder_LeafCategoryUsesExactID(t *testing.T) {
	leaf := domain.Category{ID: 9, Path: "-1-4-", IsDirectory: false}

	query := NewBuilder().Category(leaf).Query()

	require.Len(t, query.Filter, 2)
	assert.Equal(t, Clause{"term": map[string]interface{}{"category_id": int64(9)}}, query.Filter[1])
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"red", "shoes"}, Tokenize("red shoes"))
	assert.Equal(t, []string{"red", "shoes"}, Tokenize("  red   shoes \t"))
	assert.Empty(t, Tokenize("   "))
}

func TestBuilder_KeywordsOneClausePerToken(t *testing.T) {
	query := NewBuilder().Keywords("red   shoes").Query()

	require.Len(t, query.Must, 2)

	expectedFields := []string{
		"title^3", "long_title^3", "category^3", "skus_title^2",
		"description", "skus_description", "properties_value",
	}
	for i, token := range []string{"red", "shoes"} {
		match, ok := query.Must[i]["multi_match"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, token, match["query"])
		assert.Equal(t, expectedFields, match["fields"])
	}
}

func TestBuilder_EmptyKeywordsAddNothing(t *testing.T) {
	query := NewBuilder().Keywords("  ").Query()

	assert.Empty(t, query.Must)
}

func TestQuery_MarshalJSON(t *testing.T) {
	query := NewBuilder().
		Paginate(2, 10).
		Category(domain.Category{ID: 2, Path: "-", IsDirectory: true}).
		Keywords("phone").
		OrderBy("price_asc").
		Query()

	raw, err := json.Marshal(query)
	require.NoError(t, err)

	expected := `{
		"from": 10,
		"size": 10,
		"_source": false,
		"query": {"bool": {
			"filter": [
				{"term": {"on_sale": true}},
				{"prefix": {"category_path": "-2-"}}
			],
			"must": [
				{"multi_match": {"query": "phone", "fields": ["title^3", "long_title^3", "category^3", "skus_title^2", "description", "skus_description", "properties_value"]}}
			]
		}},
		"sort": [{"price": {"order": "asc"}}]
	}`
	assert.JSONEq(t, expected, string(raw))
}
