package query

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "backoffice/pkg/domain-errors"
)

type QuerySuite struct {
	suite.Suite
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(QuerySuite))
}

func (s *QuerySuite) TestParsePageRequest() {
	sortable := []string{"designationFr"}

	s.Run("defaults", func() {
		req, err := ParsePageRequest(url.Values{}, sortable)
		s.Require().NoError(err)
		s.Equal(DefaultPageRequest(), req)
	})

	s.Run("explicit values", func() {
		req, err := ParsePageRequest(url.Values{
			"page":    {"2"},
			"size":    {"5"},
			"sortBy":  {"designationFr"},
			"sortDir": {"DESC"},
		}, sortable)
		s.Require().NoError(err)
		s.Equal(PageRequest{Page: 2, Size: 5, SortBy: "designationFr", SortDir: SortDesc}, req)
		s.Equal(10, req.Offset())
		s.True(req.Descending())
	})

	s.Run("size is clamped", func() {
		req, err := ParsePageRequest(url.Values{"size": {"1000"}}, sortable)
		s.Require().NoError(err)
		s.Equal(MaxPageSize, req.Size)
	})

	for name, values := range map[string]url.Values{
		"negative page":  {"page": {"-1"}},
		"page too large": {"page": {"500000000000000000"}},
		"non numeric":    {"size": {"abc"}},
		"zero size":      {"size": {"0"}},
		"unknown sort":   {"sortBy": {"password"}},
		"bad direction":  {"sortDir": {"sideways"}},
	} {
		s.Run(name, func() {
			_, err := ParsePageRequest(values, sortable)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func (s *QuerySuite) TestNewPage() {
	p := NewPage([]int{1, 2}, PageRequest{Page: 0, Size: 2}, 5)
	s.Equal(3, p.TotalPages)
	s.True(p.First)
	s.False(p.Last)

	last := NewPage([]int{5}, PageRequest{Page: 2, Size: 2}, 5)
	s.True(last.Last)

	empty := NewPage[int](nil, DefaultPageRequest(), 0)
	s.NotNil(empty.Content)
	s.True(empty.Last)

	mapped := MapPage(p, func(v int) string { return string(rune('a' + v)) })
	s.Equal([]string{"b", "c"}, mapped.Content)
	s.Equal(p.TotalElements, mapped.TotalElements)
}

func (s *QuerySuite) TestWindow() {
	start, end := Window(5, PageRequest{Page: 1, Size: 2})
	s.Equal(2, start)
	s.Equal(4, end)

	start, end = Window(5, PageRequest{Page: 4, Size: 2})
	s.Equal(5, start)
	s.Equal(5, end)

	s.Run("huge pages land past the end", func() {
		req := PageRequest{Page: math.MaxInt / 2, Size: 1000}
		s.Equal(math.MaxInt, req.Offset())

		start, end := Window(5, req)
		s.Equal(5, start)
		s.Equal(5, end)
	})

	s.Run("largest accepted page does not wrap", func() {
		req, err := ParsePageRequest(url.Values{"page": {strconv.Itoa(MaxPage)}, "size": {"100"}}, nil)
		s.Require().NoError(err)
		s.Positive(req.Offset())

		start, end := Window(3, req)
		s.Equal(3, start)
		s.Equal(3, end)
	})
}

func TestCatalogClassify(t *testing.T) {
	c := NewCatalog(
		Entry{Category: "investment", Keywords: []string{"investissement", "capital"}},
		Entry{Category: "operating", Keywords: []string{"fonctionnement"}},
	)

	cat, ok := c.Classify("Budget d'INVESTISSEMENT")
	require.True(t, ok)
	assert.Equal(t, Category("investment"), cat)

	cat, ok = c.Classify("", "Fonctionnement courant")
	require.True(t, ok)
	assert.Equal(t, Category("operating"), cat)

	_, ok = c.Classify("autre")
	assert.False(t, ok)

	kw, ok := c.Keywords("operating")
	require.True(t, ok)
	assert.Equal(t, []string{"fonctionnement"}, kw)
	assert.Equal(t, []Category{"investment", "operating"}, c.Categories())
}

func TestPatterns(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
	assert.Equal(t, `EU%`, PrefixPattern("EU"))
	assert.True(t, MatchesAny("Euro", []string{"", "EUR"}))
	assert.False(t, MatchesAny("", []string{"x"}))
}
