package memory

import (
	"context"
	"testing"
	"time"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCacheRepo_SetGet(t *testing.T) {
	repo := NewEmbeddingCacheRepo(time.Minute)
	ctx := context.Background()

	embedding := domain.NewEmbedding("p1", []float32{1, 2, 3}, domain.NewPayload("p1", "v1"))
	require.NoError(t, repo.SetEmbedding(ctx, "product:p1", embedding))

	got, ok, err := repo.GetEmbedding(ctx, "product:p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, embedding.Vector, got.Vector)
	assert.Equal(t, "p1", got.ID)
}

func TestEmbeddingCacheRepo_MissIsNotError(t *testing.T) {
	repo := NewEmbeddingCacheRepo(time.Minute)

	got, ok, err := repo.GetEmbedding(context.Background(), "product:ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestEmbeddingCacheRepo_GetEmbeddingsSkipsMisses(t *testing.T) {
	repo := NewEmbeddingCacheRepo(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.SetEmbedding(ctx, "product:p1", domain.NewEmbedding("p1", []float32{1}, nil)))

	result, err := repo.GetEmbeddings(ctx, []string{"product:p1", "product:ghost"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Contains(t, result, "product:p1")
}

func TestEmbeddingCacheRepo_Delete(t *testing.T) {
	repo := NewEmbeddingCacheRepo(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.SetEmbedding(ctx, "user:u1", domain.NewEmbedding("u1", []float32{1}, nil)))
	require.NoError(t, repo.DeleteEmbeddings(ctx, []string{"user:u1"}))

	_, ok, err := repo.GetEmbedding(ctx, "user:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmbeddingCacheRepo_TTLExpires(t *testing.T) {
	repo := NewEmbeddingCacheRepo(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.SetEmbedding(ctx, "user:u1", domain.NewEmbedding("u1", []float32{1}, nil)))
	time.Sleep(40 * time.Millisecond)

	_, ok, err := repo.GetEmbedding(ctx, "user:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
