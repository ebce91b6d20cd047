package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories/repotest"
	"hiringdesk/resume-intake/internal/scoring"
)

func seedResumes(store *repotest.Store, companyID, batchID uuid.UUID, verdicts ...scoring.Verdict) {
	for _, v := range verdicts {
		id := uuid.New()
		store.Resumes[id] = models.Resume{ID: id, CompanyID: companyID, BatchID: batchID, Verdict: v}
	}
}

func TestStatsKey(t *testing.T) {
	companyID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	batchID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "stats:11111111-1111-1111-1111-111111111111:all", statsKey(companyID, nil))
	assert.Equal(t, "stats:11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222", statsKey(companyID, &batchID))
}

func TestStatsService_CountsAndCaches(t *testing.T) {
	store := repotest.NewStore()
	cache := newMemCache()
	service := NewStatsService(store.ResumeRepo(), cache)
	ctx := context.Background()

	companyID, batchA, batchB := uuid.New(), uuid.New(), uuid.New()
	seedResumes(store, companyID, batchA, scoring.VerdictHire, scoring.VerdictMaybe, scoring.VerdictReject, scoring.VerdictReject)
	seedResumes(store, companyID, batchB, scoring.VerdictHire)
	seedResumes(store, uuid.New(), uuid.New(), scoring.VerdictHire)

	stats, err := service.BatchStats(ctx, companyID, batchA)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 4, Hire: 1, Maybe: 1, Reject: 2}, stats)

	all, err := service.CompanyStats(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 5, Hire: 2, Maybe: 1, Reject: 2}, all)

	// A cached value is served even after the store changes.
	seedResumes(store, companyID, batchA, scoring.VerdictHire)
	stats, err = service.BatchStats(ctx, companyID, batchA)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)

	service.Invalidate(ctx, companyID, batchA)
	stats, err = service.BatchStats(ctx, companyID, batchA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	all, err = service.CompanyStats(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), all.Total)
}

func TestStatsService_CacheFailureFallsBackToStore(t *testing.T) {
	store := repotest.NewStore()
	cache := newMemCache()
	cache.getErr = assert.AnError
	service := NewStatsService(store.ResumeRepo(), cache)

	companyID, batchID := uuid.New(), uuid.New()
	seedResumes(store, companyID, batchID, scoring.VerdictMaybe)

	stats, err := service.BatchStats(context.Background(), companyID, batchID)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 1, Maybe: 1}, stats)
}

func TestStatsService_StoreError(t *testing.T) {
	store := repotest.NewStore()
	store.Err = repotest.ErrUnavailable
	service := NewStatsService(store.ResumeRepo(), nil)

	_, err := service.CompanyStats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repotest.ErrUnavailable)
}

func TestNoopStatsCache(t *testing.T) {
	cache := NewNoopStatsCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", models.Stats{Total: 1}))
	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cache.Delete(ctx, "k"))
}
