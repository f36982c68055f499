package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/apperrors"
	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/cache"
	"github.com/openfolio/showcase-engine/pkg/models"
)

// fakeProjectRepo is an in-memory ProjectRepository for service testing.
type fakeProjectRepo struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]models.Project
	listCalls int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]models.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Get(_ context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProjectRepo) List(_ context.Context, owner *uuid.UUID) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if owner != nil && p.OwnerID != *owner {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return apperrors.ErrNotFound
	}
	project.UpdatedAt = time.Now()
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) UpdateTransform(_ context.Context, id uuid.UUID, position, rotation models.Vec3) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.Position = position
	p.Rotation = rotation
	p.UpdatedAt = time.Now()
	r.projects[id] = p
	return &p, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func newTestService(t *testing.T, repo *fakeProjectRepo, ownerScope bool) ProjectService {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	projectCache := cache.NewProjectCache(client, time.Minute, zap.NewNop())
	return NewProjectService(repo, projectCache, ownerScope, zap.NewNop())
}

func seedProject(t *testing.T, repo *fakeProjectRepo, owner uuid.UUID) models.Project {
	t.Helper()
	p := models.Project{
		OwnerID:      owner,
		Title:        "title",
		Description:  "description",
		Image:        "https://example.com/card.png",
		Technologies: []string{"go"},
	}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func TestProjectService_ListReadsThroughCache(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	ctx := context.Background()
	seedProject(t, repo, uuid.New())

	first, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, 1, repo.listCalls, "second read served from cache")
}

func TestProjectService_UpdateTransformReflectedOnNextRead(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	ctx := context.Background()
	project := seedProject(t, repo, uuid.New())

	_, err := svc.List(ctx, nil) // warm the cache
	require.NoError(t, err)

	updated, err := svc.UpdateTransform(ctx, project.ID, models.Vec3{1, 2, 3}, models.Vec3{0, 1.57, 0})
	require.NoError(t, err)
	assert.Equal(t, models.Vec3{1, 2, 3}, updated.Position)

	after, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, models.Vec3{1, 2, 3}, after[0].Position, "read after write observes the new pose")
	assert.Equal(t, models.Vec3{0, 1.57, 0}, after[0].Rotation)
	assert.Equal(t, 2, repo.listCalls, "cache was invalidated by the write")
}

func TestProjectService_UpdateTransformUnknownID(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	ctx := context.Background()
	project := seedProject(t, repo, uuid.New())

	_, err := svc.UpdateTransform(ctx, uuid.New(), models.Vec3{1, 2, 3}, models.ZeroVec3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The miss altered nothing.
	got, err := repo.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, got.Position.IsZero())
}

func TestProjectService_UpdateTransformRejectsNonFinite(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	project := seedProject(t, repo, uuid.New())

	_, err := svc.UpdateTransform(context.Background(), project.ID, models.Vec3{0, math.NaN(), 0}, models.ZeroVec3)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProjectService_ConcurrentTransformUpdatesToDistinctIDs(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	ctx := context.Background()
	a := seedProject(t, repo, uuid.New())
	b := seedProject(t, repo, uuid.New())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.UpdateTransform(ctx, a.ID, models.Vec3{1, 0, 0}, models.ZeroVec3)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.UpdateTransform(ctx, b.ID, models.Vec3{2, 0, 0}, models.ZeroVec3)
		assert.NoError(t, err)
	}()
	wg.Wait()

	gotA, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Vec3{1, 0, 0}, gotA.Position)
	assert.Equal(t, models.Vec3{2, 0, 0}, gotB.Position)
}

func TestProjectService_CreateRequiresViewer(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)

	_, err := svc.Create(context.Background(), nil, CreateProjectInput{
		Title: "t", Description: "d", Image: "i",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestProjectService_CreateValidatesRequiredFields(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	viewer := &auth.Identity{UserID: uuid.New()}

	_, err := svc.Create(context.Background(), viewer, CreateProjectInput{
		Title: "  ", Description: "d", Image: "i",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProjectService_UpdateEnforcesOwnership(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	ctx := context.Background()
	owner := uuid.New()
	project := seedProject(t, repo, owner)

	title := "renamed"
	stranger := &auth.Identity{UserID: uuid.New()}
	_, err := svc.Update(ctx, stranger, project.ID, UpdateProjectInput{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	admin := &auth.Identity{UserID: uuid.New(), Admin: true}
	updated, err := svc.Update(ctx, admin, project.ID, UpdateProjectInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestProjectService_DeleteEnforcesOwnership(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, false)
	ctx := context.Background()
	owner := uuid.New()
	project := seedProject(t, repo, owner)

	stranger := &auth.Identity{UserID: uuid.New()}
	assert.ErrorIs(t, svc.Delete(ctx, stranger, project.ID), apperrors.ErrForbidden)

	assert.NoError(t, svc.Delete(ctx, &auth.Identity{UserID: owner}, project.ID))
	_, err := repo.Get(ctx, project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProjectService_OwnerScopedReads(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := newTestService(t, repo, true)
	ctx := context.Background()
	alice := uuid.New()
	seedProject(t, repo, alice)
	seedProject(t, repo, uuid.New())

	anonymous, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, anonymous, "owner-scoped deployments have no anonymous gallery")

	mine, err := svc.List(ctx, &auth.Identity{UserID: alice})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice, mine[0].OwnerID)

	all, err := svc.List(ctx, &auth.Identity{UserID: uuid.New(), Admin: true})
	require.NoError(t, err)
	assert.Len(t, all, 2, "admins see the full collection")
}
