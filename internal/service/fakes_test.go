package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the persistence semantics the
// services rely on: gorm.ErrRecordNotFound for misses and value copies
// on reads so mutations only stick through Update/Save.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// --- refresh tokens ---

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]model.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		copied := t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) MarkAllUsedByUsername(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.Username == username && !t.Used {
			t.Used = true
			r.tokens[k] = t
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) Update(_ context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token.Token]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeRefreshTokenRepo) Delete(_ context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token.Token)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUsername(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.Username == username {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, k)
		}
	}
	return nil
}

// --- password reset tokens ---

type fakeResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]model.PasswordResetToken // keyed by user id
	users  *fakeUserRepo
}

func newFakeResetTokenRepo(users *fakeUserRepo) *fakeResetTokenRepo {
	return &fakeResetTokenRepo{
		tokens: make(map[uuid.UUID]model.PasswordResetToken),
		users:  users,
	}
}

func (r *fakeResetTokenRepo) Create(_ context.Context, token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.UserID] = *token
	return nil
}

func (r *fakeResetTokenRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[userID]; ok {
		copied := t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResetTokenRepo) GetByOTPAndUserID(_ context.Context, otp string, userID uuid.UUID) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[userID]; ok && t.OTP == otp {
		copied := t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResetTokenRepo) GetByResetToken(ctx context.Context, resetToken string) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	var found *model.PasswordResetToken
	for _, t := range r.tokens {
		if t.ResetToken != "" && t.ResetToken == resetToken {
			copied := t
			found = &copied
			break
		}
	}
	r.mu.Unlock()
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	// Preload the owning user like the gorm repository does.
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, found.UserID); err == nil {
			found.User = *u
		}
	}
	return found, nil
}

func (r *fakeResetTokenRepo) Update(_ context.Context, token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.tokens[token.UserID] = *token
	return nil
}

func (r *fakeResetTokenRepo) Delete(_ context.Context, token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token.UserID)
	return nil
}

// --- films ---

type fakeFilmRepo struct {
	mu    sync.Mutex
	films map[uuid.UUID]model.Film
}

func newFakeFilmRepo() *fakeFilmRepo {
	return &fakeFilmRepo{films: make(map[uuid.UUID]model.Film)}
}

func (r *fakeFilmRepo) Create(_ context.Context, film *model.Film) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if film.ID == uuid.Nil {
		film.ID = uuid.New()
	}
	film.CreatedAt = time.Now()
	r.films[film.ID] = *film
	return nil
}

func (r *fakeFilmRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.films[id]; ok {
		copied := f
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFilmRepo) List(_ context.Context, listingType string) ([]model.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Film, 0, len(r.films))
	for _, f := range r.films {
		if listingType == "" || f.ListingType == listingType {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeFilmRepo) SearchByTitle(_ context.Context, query string) ([]model.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Film, 0)
	for _, f := range r.films {
		if strings.Contains(strings.ToLower(f.Title), strings.ToLower(query)) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeFilmRepo) Update(_ context.Context, film *model.Film) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.films[film.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.films[film.ID] = *film
	return nil
}

func (r *fakeFilmRepo) ReplaceCategories(_ context.Context, film *model.Film, categories []model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.films[film.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.Categories = categories
	r.films[film.ID] = f
	return nil
}

func (r *fakeFilmRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.films, id)
	return nil
}

func (r *fakeFilmRepo) existsBy(match func(model.Film) bool, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.films {
		if excludeID != nil && f.ID == *excludeID {
			continue
		}
		if match(f) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFilmRepo) ExistsByTitle(_ context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	return r.existsBy(func(f model.Film) bool { return f.Title == title }, excludeID)
}

func (r *fakeFilmRepo) ExistsByPosterURL(_ context.Context, posterURL string, excludeID *uuid.UUID) (bool, error) {
	return r.existsBy(func(f model.Film) bool { return f.PosterURL == posterURL }, excludeID)
}

func (r *fakeFilmRepo) ExistsByTrailerURL(_ context.Context, trailerURL string, excludeID *uuid.UUID) (bool, error) {
	return r.existsBy(func(f model.Film) bool { return f.TrailerURL == trailerURL }, excludeID)
}

// --- categories ---

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]model.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		copied := c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) ExistsByName(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// --- comments ---

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]model.Comment
	users    *fakeUserRepo
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]model.Comment), users: users}
}

func (r *fakeCommentRepo) attachUser(ctx context.Context, c *model.Comment) {
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, c.UserID); err == nil {
			c.User = *u
		}
	}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	r.mu.Lock()
	c, ok := r.comments[id]
	r.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := c
	r.attachUser(ctx, &copied)
	return &copied, nil
}

func (r *fakeCommentRepo) ListByFilm(ctx context.Context, filmID uuid.UUID) ([]model.Comment, error) {
	r.mu.Lock()
	out := make([]model.Comment, 0)
	for _, c := range r.comments {
		if c.FilmID == filmID {
			out = append(out, c)
		}
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	for i := range out {
		r.attachUser(ctx, &out[i])
	}
	return out, nil
}

func (r *fakeCommentRepo) CountReplies(_ context.Context, parentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *comment
	stored.User = model.User{}
	r.comments[comment.ID] = stored
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.UserID == userID {
			delete(r.comments, id)
		}
	}
	return nil
}

// --- ratings ---

type ratingKey struct {
	userID uuid.UUID
	filmID uuid.UUID
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[ratingKey]model.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[ratingKey]model.Rating)}
}

func (r *fakeRatingRepo) GetByUserAndFilm(_ context.Context, userID, filmID uuid.UUID) (*model.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.ratings[ratingKey{userID, filmID}]; ok {
		copied := rt
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRatingRepo) Save(_ context.Context, rating *model.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	r.ratings[ratingKey{rating.UserID, rating.FilmID}] = *rating
	return nil
}

func (r *fakeRatingRepo) Delete(_ context.Context, userID, filmID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ratings, ratingKey{userID, filmID})
	return nil
}

func (r *fakeRatingRepo) Stats(_ context.Context, filmID uuid.UUID) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int64
	for _, rt := range r.ratings {
		if rt.FilmID == filmID {
			sum += int64(rt.Score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// --- favorites / watched ---

type fakePairRepo struct {
	mu    sync.Mutex
	pairs map[ratingKey]bool
	films *fakeFilmRepo
}

func newFakePairRepo(films *fakeFilmRepo) *fakePairRepo {
	return &fakePairRepo{pairs: make(map[ratingKey]bool), films: films}
}

func (r *fakePairRepo) Exists(_ context.Context, userID, filmID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[ratingKey{userID, filmID}], nil
}

func (r *fakePairRepo) has(userID, filmID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[ratingKey{userID, filmID}]
}

func (r *fakePairRepo) add(userID, filmID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[ratingKey{userID, filmID}] = true
}

func (r *fakePairRepo) Delete(_ context.Context, userID, filmID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs, ratingKey{userID, filmID})
	return nil
}

func (r *fakePairRepo) ListFilmsByUser(ctx context.Context, userID uuid.UUID) ([]model.Film, error) {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0)
	for k := range r.pairs {
		if k.userID == userID {
			ids = append(ids, k.filmID)
		}
	}
	r.mu.Unlock()
	films := make([]model.Film, 0, len(ids))
	for _, id := range ids {
		if f, err := r.films.GetByID(ctx, id); err == nil {
			films = append(films, *f)
		}
	}
	sort.Slice(films, func(i, j int) bool { return films[i].Title < films[j].Title })
	return films, nil
}

type fakeFavoriteRepo struct{ *fakePairRepo }

func newFakeFavoriteRepo(films *fakeFilmRepo) *fakeFavoriteRepo {
	return &fakeFavoriteRepo{newFakePairRepo(films)}
}

func (r *fakeFavoriteRepo) Create(_ context.Context, favorite *model.Favorite) error {
	r.add(favorite.UserID, favorite.FilmID)
	return nil
}

func (r *fakeFavoriteRepo) GetByUserAndFilm(_ context.Context, userID, filmID uuid.UUID) (*model.Favorite, error) {
	if r.has(userID, filmID) {
		return &model.Favorite{UserID: userID, FilmID: filmID}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeWatchedRepo struct{ *fakePairRepo }

func newFakeWatchedRepo(films *fakeFilmRepo) *fakeWatchedRepo {
	return &fakeWatchedRepo{newFakePairRepo(films)}
}

func (r *fakeWatchedRepo) Create(_ context.Context, watched *model.Watched) error {
	r.add(watched.UserID, watched.FilmID)
	return nil
}

func (r *fakeWatchedRepo) GetByUserAndFilm(_ context.Context, userID, filmID uuid.UUID) (*model.Watched, error) {
	if r.has(userID, filmID) {
		return &model.Watched{UserID: userID, FilmID: filmID}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// --- mail + google ---

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string // "to:otp"
	err  error
}

func (f *fakeEmailSender) SendOTPEmail(to, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+":"+otp)
	return nil
}

func (f *fakeEmailSender) lastOTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	last := f.sent[len(f.sent)-1]
	return last[strings.LastIndex(last, ":")+1:]
}

type fakeGoogleVerifier struct {
	claims *GoogleTokenClaims
	err    error
}

func (f *fakeGoogleVerifier) Verify(_ context.Context, _ string) (*GoogleTokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}
