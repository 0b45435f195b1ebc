package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filmFixture struct {
	svc        FilmService
	films      *fakeFilmRepo
	categories *fakeCategoryRepo
	action     *model.Category
	drama      *model.Category
}

func newFilmFixture(t *testing.T) *filmFixture {
	t.Helper()
	films := newFakeFilmRepo()
	categories := newFakeCategoryRepo()
	svc := NewFilmService(films, categories, websocket.NewHub())

	ctx := context.Background()
	action := &model.Category{Name: "Action"}
	drama := &model.Category{Name: "Drama"}
	require.NoError(t, categories.Create(ctx, action))
	require.NoError(t, categories.Create(ctx, drama))

	return &filmFixture{svc: svc, films: films, categories: categories, action: action, drama: drama}
}

func (f *filmFixture) request(title string) FilmRequest {
	return FilmRequest{
		Title:       title,
		Description: "desc",
		PosterURL:   "https://example.com/" + title + ".jpg",
		TrailerURL:  "https://example.com/" + title + ".mp4",
		ReleaseDate: "1995-12-15",
		CategoryIDs: []uuid.UUID{f.action.ID},
	}
}

func TestFilmCreate(t *testing.T) {
	f := newFilmFixture(t)

	dto, err := f.svc.Create(context.Background(), f.request("Heat"))
	require.NoError(t, err)
	assert.Equal(t, "Heat", dto.Title)
	assert.Equal(t, "1995-12-15", dto.ReleaseDate)
	assert.Equal(t, model.ListingNone, dto.ListingType)
	require.Len(t, dto.Categories, 1)
	assert.Equal(t, "Action", dto.Categories[0].Name)
}

func TestFilmCreateDuplicateFields(t *testing.T) {
	f := newFilmFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.request("Heat"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.request("Heat"))
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateResource))

	// Distinct title but reused poster URL.
	req := f.request("Ronin")
	req.PosterURL = "https://example.com/Heat.jpg"
	_, err = f.svc.Create(ctx, req)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateResource))
}

func TestFilmCreateMissingCategory(t *testing.T) {
	f := newFilmFixture(t)

	req := f.request("Heat")
	req.CategoryIDs = []uuid.UUID{uuid.New()}

	_, err := f.svc.Create(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestFilmCreateBadReleaseDate(t *testing.T) {
	f := newFilmFixture(t)

	req := f.request("Heat")
	req.ReleaseDate = "15/12/1995"

	_, err := f.svc.Create(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestFilmListByListingType(t *testing.T) {
	f := newFilmFixture(t)
	ctx := context.Background()

	trending := f.request("Heat")
	trending.ListingType = model.ListingTrending
	_, err := f.svc.Create(ctx, trending)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.request("Ronin"))
	require.NoError(t, err)

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hot, err := f.svc.List(ctx, model.ListingTrending)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, "Heat", hot[0].Title)
}

func TestFilmSearchMinimumLength(t *testing.T) {
	f := newFilmFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.request("Heat"))
	require.NoError(t, err)

	_, err = f.svc.Search(ctx, "h")
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	_, err = f.svc.Search(ctx, " h ")
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	found, err := f.svc.Search(ctx, "he")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Heat", found[0].Title)
}

func TestFilmUpdateReplacesCategories(t *testing.T) {
	f := newFilmFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.request("Heat"))
	require.NoError(t, err)

	req := f.request("Heat")
	req.CategoryIDs = []uuid.UUID{f.drama.ID}
	req.ListingType = model.ListingComingSoon

	updated, err := f.svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Drama", updated.Categories[0].Name)
	assert.Equal(t, model.ListingComingSoon, updated.ListingType)
}

func TestFilmUpdateUniquenessExcludesSelf(t *testing.T) {
	f := newFilmFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.request("Heat"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.request("Ronin"))
	require.NoError(t, err)

	// Keeping its own title is fine.
	_, err = f.svc.Update(ctx, created.ID, f.request("Heat"))
	require.NoError(t, err)

	// Taking another film's title is not.
	_, err = f.svc.Update(ctx, created.ID, f.request("Ronin"))
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateResource))
}

func TestFilmDeleteReturnsTitle(t *testing.T) {
	f := newFilmFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.request("Heat"))
	require.NoError(t, err)

	title, err := f.svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", title)

	_, err = f.svc.GetByID(ctx, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
