package query

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	id        uuid.UUID
	branch    string
	total     decimal.Decimal
	active    bool
	items     int64
	date      time.Time
	updatedAt *time.Time
}

var testSchema = NewSchema[*record](
	Field[*record]{Name: "id", Type: Identifier, Get: func(r *record) any { return r.id }},
	Field[*record]{Name: "branch", Type: String, Get: func(r *record) any { return r.branch }},
	Field[*record]{Name: "totalAmount", Type: Decimal, Get: func(r *record) any { return r.total }},
	Field[*record]{Name: "isActive", Type: Bool, Get: func(r *record) any { return r.active }},
	Field[*record]{Name: "itemCount", Type: Integer, Get: func(r *record) any { return r.items }},
	Field[*record]{Name: "saleDate", Type: Date, Get: func(r *record) any { return r.date }},
	Field[*record]{Name: "updatedAt", Type: Date, Get: func(r *record) any {
		if r.updatedAt == nil {
			return nil
		}
		return *r.updatedAt
	}},
)

func rec(branch, total string) *record {
	return &record{
		id:     uuid.New(),
		branch: branch,
		total:  decimal.RequireFromString(total),
		date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func filterAll(t *testing.T, filters map[string]string, items ...*record) []*record {
	t.Helper()
	f, err := BuildFilter(testSchema, filters)
	require.NoError(t, err)
	var out []*record
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

func TestSchema_LookupIgnoresCaseAndUnderscore(t *testing.T) {
	for _, name := range []string{"totalAmount", "TotalAmount", "total_amount", "TOTALAMOUNT"} {
		f, ok := testSchema.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "totalAmount", f.Name)
	}
	_, ok := testSchema.Lookup("nope")
	assert.False(t, ok)
}

func TestNewSchema_PanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema[*record](
			Field[*record]{Name: "branch", Type: String},
			Field[*record]{Name: "Branch", Type: String},
		)
	})
}

func TestBuildFilter_Wildcards(t *testing.T) {
	sp := rec("São Paulo", "10")
	centro := rec("Paulo Centro", "10")
	rio := rec("Rio de Janeiro", "10")

	assert.Equal(t, []*record{sp, centro}, filterAll(t, map[string]string{"branch": "*Paulo*"}, sp, centro, rio))
	assert.Equal(t, []*record{centro}, filterAll(t, map[string]string{"Branch": "paulo*"}, sp, centro, rio))
	assert.Equal(t, []*record{sp}, filterAll(t, map[string]string{"branch": "*PAULO"}, sp, centro, rio))
	assert.Equal(t, []*record{rio}, filterAll(t, map[string]string{"branch": "rio de janeiro"}, sp, centro, rio))
}

func TestBuildFilter_Range(t *testing.T) {
	low, mid, high, edge := rec("a", "49.99"), rec("a", "75"), rec("a", "100.01"), rec("a", "100")

	got := filterAll(t, map[string]string{"_minTotalAmount": "50", "_maxTotalAmount": "100"}, low, mid, high, edge)
	assert.Equal(t, []*record{mid, edge}, got)
}

func TestBuildFilter_DateRangeAndSameDay(t *testing.T) {
	a, b := rec("a", "1"), rec("a", "1")
	a.date = time.Date(2025, 2, 10, 23, 30, 0, 0, time.UTC)
	b.date = time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, []*record{a}, filterAll(t, map[string]string{"saleDate": "2025-02-10"}, a, b))
	assert.Equal(t, []*record{b}, filterAll(t, map[string]string{"_minSaleDate": "2025-02-11"}, a, b))
	assert.Equal(t, []*record{a}, filterAll(t, map[string]string{"_maxSaleDate": "2025-02-11T00:00:00Z"}, a, b))
}

func TestBuildFilter_TypedEquality(t *testing.T) {
	a, b := rec("a", "1"), rec("a", "2")
	a.active = true
	b.items = 3

	assert.Equal(t, []*record{a}, filterAll(t, map[string]string{"isActive": "true"}, a, b))
	assert.Equal(t, []*record{b}, filterAll(t, map[string]string{"itemCount": "3"}, a, b))
	assert.Equal(t, []*record{b}, filterAll(t, map[string]string{"id": b.id.String()}, a, b))
	assert.Equal(t, []*record{b}, filterAll(t, map[string]string{"totalAmount": "2.00"}, a, b))
}

func TestBuildFilter_SkipsUnknownAndReserved(t *testing.T) {
	a := rec("a", "1")

	f, err := BuildFilter(testSchema, map[string]string{
		"unknown":  "x",
		"page":     "2",
		"size":     "10",
		"orderBy":  "branch",
		"_order":   "x",
		"_page":    "1",
		"_size":    "1",
		"branch":   "   ",
		"":         "a",
	})
	require.NoError(t, err)
	assert.True(t, f.Empty())
	assert.True(t, f.Match(a))
}

func TestBuildFilter_Errors(t *testing.T) {
	cases := []map[string]string{
		{"_minTotalAmount": "abc"},
		{"_minNope": "1"},
		{"_maxBranch": "x"},
		{"_minIsActive": "true"},
		{"_minId": uuid.NewString()},
		{"isActive": "talvez"},
		{"itemCount": "1.5"},
		{"id": "not-a-uuid"},
		{"saleDate": "10/02/2025"},
	}
	for _, filters := range cases {
		_, err := BuildFilter(testSchema, filters)
		var filterErr *FilterError
		assert.True(t, errors.As(err, &filterErr), "%v", filters)
	}
}

func TestBuildFilter_NullNeverMatches(t *testing.T) {
	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	touched, untouched := rec("a", "1"), rec("a", "1")
	touched.updatedAt = &ts

	assert.Equal(t, []*record{touched}, filterAll(t, map[string]string{"_minUpdatedAt": "2000-01-01"}, touched, untouched))
	assert.Equal(t, []*record{touched}, filterAll(t, map[string]string{"_maxUpdatedAt": "2100-01-01"}, touched, untouched))
}

func TestParseOrder(t *testing.T) {
	ord, err := ParseOrder(testSchema, "branch asc, totalAmount DESC")
	require.NoError(t, err)
	keys := ord.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, "branch", keys[0].Field.Name)
	assert.False(t, keys[0].Desc)
	assert.Equal(t, "totalAmount", keys[1].Field.Name)
	assert.True(t, keys[1].Desc)

	ord, err = ParseOrder(testSchema, "  ")
	require.NoError(t, err)
	assert.True(t, ord.IsZero())

	for _, clause := range []string{"nope", "branch sideways", "branch asc extra"} {
		_, err = ParseOrder(testSchema, clause)
		var filterErr *FilterError
		require.ErrorAs(t, err, &filterErr, clause)
		assert.Equal(t, "orderBy", filterErr.Key)
	}
}

func TestOrdering_MultiKeyStable(t *testing.T) {
	a, b, c, d := rec("B", "10"), rec("a", "20"), rec("b", "30"), rec("A", "20")

	ord, err := ParseOrder(testSchema, "branch, totalAmount desc")
	require.NoError(t, err)

	items := []*record{a, b, c, d}
	ord.Sort(items)
	assert.Equal(t, []*record{b, d, c, a}, items)
}

func TestOrdering_NullsFirst(t *testing.T) {
	ts := time.Now()
	x, y := rec("a", "1"), rec("a", "1")
	x.updatedAt = &ts

	ord, err := ParseOrder(testSchema, "updatedAt")
	require.NoError(t, err)
	items := []*record{x, y}
	ord.Sort(items)
	assert.Equal(t, []*record{y, x}, items)
}

func TestPaginate(t *testing.T) {
	items := make([]*record, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, rec(fmt.Sprintf("filial %02d", i), "1"))
	}
	ord, err := ParseOrder(testSchema, "branch")
	require.NoError(t, err)

	page := Paginate(items, nil, ord, 3, 10)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, "filial 20", page.Items[0].branch)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	page = Paginate(items, nil, ord, 4, 10)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 25, page.TotalCount)
}

func TestPaginate_PageBeyondRange(t *testing.T) {
	items := []*record{rec("Centro", "1"), rec("Norte", "1")}

	var page *PaginatedList[*record]
	require.NotPanics(t, func() {
		page = Paginate(items, nil, Ordering[*record]{}, math.MaxInt, 10)
	})
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, math.MaxInt, page.CurrentPage)
	assert.False(t, page.HasNext())
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 0, Offset(0, 10))
	assert.Equal(t, 0, Offset(5, 0))
	assert.Equal(t, math.MaxInt, Offset(math.MaxInt, 10))
	assert.Equal(t, math.MaxInt, Offset(math.MaxInt/10+2, 10))
}

func TestPaginate_CountsAfterFilter(t *testing.T) {
	items := []*record{rec("Centro", "1"), rec("Norte", "1"), rec("Centro Sul", "1")}
	f, err := BuildFilter(testSchema, map[string]string{"branch": "centro*"})
	require.NoError(t, err)

	page := Paginate(items, f, Ordering[*record]{}, 1, 1)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []*record{items[0]}, page.Items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
