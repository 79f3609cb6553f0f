package post

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
	"github.com/dkarpov/goblog/internal/repository"
)

type PostService struct {
	// Repository to access long term data
	postRepo repository.PostRepo
}

func NewService(postRepo repository.PostRepo) *PostService {
	return &PostService{
		postRepo: postRepo,
	}
}

// Create makes a post owned by author
// Blank title or content is a validation failure
func (s *PostService) Create(ctx context.Context, author models.User, title string, content string) (models.Post, error) {
	if isBlank(title) || isBlank(content) {
		return models.Post{}, apperrors.ErrPostFieldsEmpty
	}

	return s.postRepo.CreatePost(ctx, author.ID, title, content)
}

// Update rewrites title and content of the post
// The caller must have passed the ownership check already
func (s *PostService) Update(ctx context.Context, post models.Post, title string, content string) (models.Post, error) {
	if isBlank(title) || isBlank(content) {
		return models.Post{}, apperrors.ErrPostFieldsEmpty
	}

	return s.postRepo.UpdatePost(ctx, post.ID, title, content)
}

// Delete removes the post permanently
// The caller must have passed the ownership check already
func (s *PostService) Delete(ctx context.Context, post models.Post) error {
	return s.postRepo.DeletePost(ctx, post.ID)
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (models.Post, error) {
	return s.postRepo.GetPost(ctx, id)
}

// List returns all posts newest first
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.ListPosts(ctx)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
