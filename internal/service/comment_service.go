package service

import (
	"context"
	"log"
	"sort"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// Read-time content markers. The stored row keeps its author; only the
// displayed content is masked.
const (
	deletedContentMarker = "[deleted]"
	bannedContentMarker  = "[banned]"
)

type CreateCommentRequest struct {
	FilmID   uuid.UUID  `json:"filmId" binding:"required"`
	Content  string     `json:"content" binding:"required,min=1,max=2000"`
	ParentID *uuid.UUID `json:"parentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type DtoComment struct {
	ID              uuid.UUID    `json:"id"`
	Content         string       `json:"content"`
	Deleted         bool         `json:"deleted"`
	Username        string       `json:"username"`
	ProfileImageURL string       `json:"profileImageUrl"`
	FilmID          uuid.UUID    `json:"filmId"`
	ParentID        *uuid.UUID   `json:"parentId,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	Replies         []DtoComment `json:"replies"`
}

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	Username string
	Roles    []string
}

func (a Actor) IsAdmin() bool {
	for _, role := range a.Roles {
		if role == model.RoleAdmin {
			return true
		}
	}
	return false
}

type CommentService interface {
	Create(ctx context.Context, actor Actor, req CreateCommentRequest) (*DtoComment, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateCommentRequest) (*DtoComment, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	GetByFilm(ctx context.Context, filmID uuid.UUID) ([]DtoComment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	filmRepo    repository.FilmRepository
	txManager   repository.TransactionManager
	hub         *websocket.Hub
}

// NewCommentService returns a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	filmRepo repository.FilmRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		filmRepo:    filmRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

func toDtoComment(c *model.Comment) DtoComment {
	dto := DtoComment{
		ID:        c.ID,
		Content:   c.Content,
		Deleted:   c.Deleted,
		FilmID:    c.FilmID,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		Replies:   []DtoComment{},
	}
	dto.Username = c.User.Username
	dto.ProfileImageURL = c.User.ProfileImageURL
	switch {
	case c.Deleted:
		dto.Content = deletedContentMarker
	case !c.User.Enabled:
		dto.Content = bannedContentMarker
	}
	return dto
}

func (s *commentService) Create(ctx context.Context, actor Actor, req CreateCommentRequest) (*DtoComment, error) {
	user, err := s.userRepo.GetByUsername(ctx, actor.Username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + actor.Username)
	}
	if _, err := s.filmRepo.GetByID(ctx, req.FilmID); err != nil {
		return nil, apperr.NotFound("film not found")
	}
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, apperr.NotFound("parent comment not found")
		}
		if parent.FilmID != req.FilmID {
			return nil, apperr.BusinessRule("parent comment belongs to a different film")
		}
	}

	comment := &model.Comment{
		Content:  req.Content,
		UserID:   user.ID,
		FilmID:   req.FilmID,
		ParentID: req.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to create comment", err)
	}
	comment.User = *user

	dto := toDtoComment(comment)
	s.hub.Publish(websocket.EventCommentCreated, dto)
	return &dto, nil
}

func (s *commentService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateCommentRequest) (*DtoComment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("comment not found")
	}
	if comment.Deleted {
		return nil, apperr.BusinessRule("deleted comments cannot be edited")
	}
	if comment.User.Username != actor.Username {
		return nil, apperr.Forbidden("only the author can edit a comment")
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, apperr.Internal("failed to update comment", err)
	}
	dto := toDtoComment(comment)
	return &dto, nil
}

func (s *commentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return apperr.NotFound("comment not found")
	}
	if comment.User.Username != actor.Username && !actor.IsAdmin() {
		return apperr.Forbidden("only the author or an admin can delete a comment")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		replies, err := s.commentRepo.CountReplies(txCtx, comment.ID)
		if err != nil {
			return apperr.Internal("failed to count replies", err)
		}
		if replies > 0 {
			// Keep the thread structure: blank the comment instead of
			// orphaning its replies.
			comment.Deleted = true
			comment.Content = model.DeletedCommentPlaceholder
			if err := s.commentRepo.Update(txCtx, comment); err != nil {
				return apperr.Internal("failed to soft delete comment", err)
			}
		} else {
			if err := s.commentRepo.Delete(txCtx, comment.ID); err != nil {
				return apperr.Internal("failed to delete comment", err)
			}
		}
		log.Printf("comment deleted: %s soft=%t", comment.ID, replies > 0)
		s.hub.Publish(websocket.EventCommentDeleted, map[string]interface{}{
			"id":     comment.ID,
			"filmId": comment.FilmID,
			"soft":   replies > 0,
		})
		return nil
	})
}

func (s *commentService) GetByFilm(ctx context.Context, filmID uuid.UUID) ([]DtoComment, error) {
	if _, err := s.filmRepo.GetByID(ctx, filmID); err != nil {
		return nil, apperr.NotFound("film not found")
	}
	comments, err := s.commentRepo.ListByFilm(ctx, filmID)
	if err != nil {
		return nil, apperr.Internal("failed to list comments", err)
	}

	byID := make(map[uuid.UUID]*model.Comment, len(comments))
	children := make(map[uuid.UUID][]uuid.UUID)
	rootIDs := make([]uuid.UUID, 0)
	for i := range comments {
		c := &comments[i]
		byID[c.ID] = c
		if c.ParentID == nil {
			rootIDs = append(rootIDs, c.ID)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c.ID)
	}

	// Repo returns oldest first, so every reply list is already in
	// posting order at any depth.
	var build func(id uuid.UUID) DtoComment
	build = func(id uuid.UUID) DtoComment {
		dto := toDtoComment(byID[id])
		for _, childID := range children[id] {
			dto.Replies = append(dto.Replies, build(childID))
		}
		return dto
	}

	roots := make([]DtoComment, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, build(id))
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	return roots, nil
}
