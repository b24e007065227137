package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// fakeFinder 依欄位回傳預先準備的集合並記錄收到的查詢範圍。
type fakeFinder struct {
	byField     map[string][]domain.Store
	byDistrict  []domain.Store
	pageItems   []domain.Store
	total       int
	err         error
	rangeCalls  []rangeCall
	pagedCalled bool
}

type rangeCall struct {
	field string
	lower string
	upper string
}

func (f *fakeFinder) FindPage(_ context.Context, _ string, _ bool, _, _ int) ([]domain.Store, error) {
	f.pagedCalled = true
	return f.pageItems, f.err
}

func (f *fakeFinder) Count(context.Context) (int, error) {
	return f.total, f.err
}

func (f *fakeFinder) FindByFieldRange(_ context.Context, field, lower, upper string) ([]domain.Store, error) {
	f.rangeCalls = append(f.rangeCalls, rangeCall{field: field, lower: lower, upper: upper})
	if f.err != nil {
		return nil, f.err
	}
	return f.byField[field], nil
}

func (f *fakeFinder) FindByDistrict(context.Context, string) ([]domain.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDistrict, nil
}

func isTainanDistrict(name string) bool {
	return name == "東區" || name == "安平區"
}

func TestSearchEmptyQueryUsesPaging(t *testing.T) {
	finder := &fakeFinder{
		pageItems: []domain.Store{{ID: "1", Name: "阿堂鹹粥"}},
		total:     42,
	}
	service := NewService(finder, isTainanDistrict)

	resp, err := service.Search(context.Background(), Request{Page: 1, PerPage: 10})

	require.NoError(t, err)
	assert.True(t, finder.pagedCalled)
	assert.Empty(t, finder.rangeCalls)
	assert.Equal(t, 42, resp.Total)
	assert.Len(t, resp.Items, 1)
}

func TestSearchQueriesAllPrefixFields(t *testing.T) {
	finder := &fakeFinder{byField: map[string][]domain.Store{}}
	service := NewService(finder, isTainanDistrict)

	_, err := service.Search(context.Background(), Request{Query: "牛肉"})

	require.NoError(t, err)
	require.Len(t, finder.rangeCalls, 3)
	fields := []string{finder.rangeCalls[0].field, finder.rangeCalls[1].field, finder.rangeCalls[2].field}
	assert.Equal(t, []string{"name", "category", "address"}, fields)
	for _, call := range finder.rangeCalls {
		assert.Equal(t, "牛肉", call.lower)
		assert.Equal(t, nextPrefix("牛肉"), call.upper)
	}
}

func TestSearchAddsDistrictQuery(t *testing.T) {
	finder := &fakeFinder{
		byField:    map[string][]domain.Store{},
		byDistrict: []domain.Store{{ID: "d1", Name: "東區小館", District: "東區"}},
	}
	service := NewService(finder, isTainanDistrict)

	resp, err := service.Search(context.Background(), Request{Query: "東區"})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "d1", resp.Items[0].ID)
}

func TestSearchMergesAndDeduplicates(t *testing.T) {
	shared := domain.Store{ID: "s1", Name: "安平豆花", Category: "甜點"}
	updated := shared
	updated.Address = "台南市安平區"
	finder := &fakeFinder{byField: map[string][]domain.Store{
		"name":     {shared, {ID: "s2", Name: "安平蝦捲"}},
		"category": {updated},
	}}
	service := NewService(finder, isTainanDistrict)

	resp, err := service.Search(context.Background(), Request{Query: "安平"})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	for _, item := range resp.Items {
		if item.ID == "s1" {
			assert.Equal(t, "台南市安平區", item.Address, "重複 ID 應以後到的資料為準")
		}
	}
}

func TestSearchPagination(t *testing.T) {
	finder := &fakeFinder{byField: map[string][]domain.Store{
		"name": {
			{ID: "1", Name: "a"},
			{ID: "2", Name: "b"},
			{ID: "3", Name: "c"},
			{ID: "4", Name: "d"},
			{ID: "5", Name: "e"},
		},
	}}
	service := NewService(finder, isTainanDistrict)

	resp, err := service.Search(context.Background(), Request{Query: "店", Page: 2, PerPage: 2})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total, "Total 是合併後整組的大小，不是單頁件數")
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "3", resp.Items[0].ID)
	assert.Equal(t, "4", resp.Items[1].ID)
}

func TestSearchPageBeyondEnd(t *testing.T) {
	finder := &fakeFinder{byField: map[string][]domain.Store{
		"name": {{ID: "1", Name: "a"}},
	}}
	service := NewService(finder, isTainanDistrict)

	resp, err := service.Search(context.Background(), Request{Query: "店", Page: 9, PerPage: 10})

	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 1, resp.Total)
}

func TestSearchSortOrder(t *testing.T) {
	finder := &fakeFinder{byField: map[string][]domain.Store{
		"name": {
			{ID: "1", Name: "banana"},
			{ID: "2", Name: "apple"},
			{ID: "3", Name: "cherry"},
		},
	}}
	service := NewService(finder, isTainanDistrict)

	asc, err := service.Search(context.Background(), Request{Query: "果", SortField: "name"})
	require.NoError(t, err)
	assert.Equal(t, "apple", asc.Items[0].Name)
	assert.Equal(t, "cherry", asc.Items[2].Name)

	desc, err := service.Search(context.Background(), Request{Query: "果", SortField: "name", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "cherry", desc.Items[0].Name)
	assert.Equal(t, "apple", desc.Items[2].Name)
}

func TestSearchPropagatesErrors(t *testing.T) {
	finder := &fakeFinder{err: errors.New("connection reset")}
	service := NewService(finder, isTainanDistrict)

	_, err := service.Search(context.Background(), Request{Query: "牛肉"})
	assert.Error(t, err, "查詢失敗要以錯誤回報，不可偽裝成空結果")
}

func TestNextPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "一般 ASCII", prefix: "abc", want: "abd"},
		{name: "中文字尾", prefix: "牛肉", want: "牛肊"},
		{name: "最大碼位進位", prefix: "a\U0010FFFF", want: "b"},
		{name: "全部最大碼位時無上界", prefix: "\U0010FFFF\U0010FFFF", want: ""},
		{name: "跳過 surrogate 區", prefix: "x퟿", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPrefix(tt.prefix))
		})
	}
}
