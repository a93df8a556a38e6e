package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentmatch/internal/cache"
	"github.com/yoockh/talentmatch/internal/logger"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
)

type fakeCatalog struct {
	keywords     []models.Keyword
	tags         []models.Tag
	keywordReads int
	tagReads     int
}

func (f *fakeCatalog) ListKeywords(context.Context, int) ([]models.Keyword, error) {
	f.keywordReads++
	return append([]models.Keyword(nil), f.keywords...), nil
}

func (f *fakeCatalog) InsertKeyword(_ context.Context, k *models.Keyword) error {
	for _, x := range f.keywords {
		if x.Keyword == k.Keyword {
			return utils.ErrConflict
		}
	}
	k.ID = int64(len(f.keywords) + 1)
	f.keywords = append(f.keywords, *k)
	return nil
}

func (f *fakeCatalog) ListTags(_ context.Context, category string, _ int) ([]models.Tag, error) {
	f.tagReads++
	out := []models.Tag{}
	for _, t := range f.tags {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Ping(context.Context) error { return nil }

type memCache map[string][]byte

func (m memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	m[key] = b
	return err
}

func (m memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

func TestKeywordsAreCachedAndInvalidated(t *testing.T) {
	repo := &fakeCatalog{keywords: []models.Keyword{{ID: 1, Keyword: "go"}}}
	c := memCache{}
	svc := NewCatalogService(repo, c, time.Minute, logger.Discard())

	for i := 0; i < 3; i++ {
		got, err := svc.Keywords(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, repo.keywordReads)

	_, err := svc.AddKeyword(context.Background(), "  sql ")
	require.NoError(t, err)
	assert.NotContains(t, c, cache.KeyKeywords)

	got, err := svc.Keywords(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "sql", got[1].Keyword)
	assert.Equal(t, 2, repo.keywordReads)
}

func TestAddKeywordValidation(t *testing.T) {
	repo := &fakeCatalog{keywords: []models.Keyword{{ID: 1, Keyword: "go"}}}
	svc := NewCatalogService(repo, nil, time.Minute, logger.Discard())

	_, err := svc.AddKeyword(context.Background(), " ")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.AddKeyword(context.Background(), "go")
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestTagsCachedPerCategory(t *testing.T) {
	repo := &fakeCatalog{tags: []models.Tag{
		{ID: 1, TagName: "985", Category: "education"},
		{ID: 2, TagName: "remote", Category: "work"},
	}}
	c := memCache{}
	svc := NewCatalogService(repo, c, time.Minute, logger.Discard())

	edu, err := svc.Tags(context.Background(), "education")
	require.NoError(t, err)
	assert.Len(t, edu, 1)

	all, err := svc.Tags(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, _ = svc.Tags(context.Background(), "education")
	assert.Equal(t, 2, repo.tagReads)
	assert.Contains(t, c, cache.KeyTagsPrefix+"education")
}
