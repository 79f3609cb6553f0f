package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/authz"
	"github.com/dkarpov/goblog/internal/handlers/flash"
	"github.com/dkarpov/goblog/internal/handlers/render"
	"github.com/dkarpov/goblog/internal/handlers/userctx"
	"github.com/dkarpov/goblog/internal/models"
)

type postService interface {
	// Create post owned by author
	// Has to return apperrors.ErrPostFieldsEmpty on blank title or content
	Create(ctx context.Context, author models.User, title string, content string) (models.Post, error)

	// Update title and content, same validation as Create
	Update(ctx context.Context, post models.Post, title string, content string) (models.Post, error)

	// Delete post permanently
	Delete(ctx context.Context, post models.Post) error

	// Get post by id
	// Has to return apperrors.ErrPostNotFound if id is absent
	Get(ctx context.Context, id uuid.UUID) (models.Post, error)

	// List all posts newest first
	List(ctx context.Context) ([]models.Post, error)
}

type PostHandler struct {
	posts postService
	flash *flash.Flash
}

type PostResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPost(posts postService, flash *flash.Flash) *PostHandler {
	return &PostHandler{posts: posts, flash: flash}
}

func toPostResponse(p models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	}
}

// home is readable by everyone, logged in or not
func (h *PostHandler) home(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Posts        []PostResponse `json:"posts"`
		Notification string         `json:"notification,omitempty"`
	}

	posts, err := h.posts.List(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	res := response{
		Posts:        make([]PostResponse, 0, len(posts)),
		Notification: h.flash.Pop(w, r),
	}
	for _, p := range posts {
		res.Posts = append(res.Posts, toPostResponse(p))
	}

	render.JSON(w, res)
}

func (h *PostHandler) view(w http.ResponseWriter, r *http.Request) {
	post, ok := h.locate(w, r)
	if !ok {
		return
	}

	render.JSON(w, toPostResponse(post))
}

func (h *PostHandler) createForm(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Notification string `json:"notification,omitempty"`
	}

	render.JSON(w, response{Notification: h.flash.Pop(w, r)})
}

func (h *PostHandler) create(w http.ResponseWriter, r *http.Request) {
	type PostRequest struct {
		Title   string `json:"title" validate:"required,max=200"`
		Content string `json:"content" validate:"required"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[PostRequest](w, r)
	if err != nil {
		return
	}

	_, err = h.posts.Create(r.Context(), user, data.Title, data.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostFieldsEmpty):
			render.FieldErrors(w, map[string]string{"title": "Title and content must not be blank"})
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) editForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.locateOwned(w, r)
	if !ok {
		return
	}

	type response struct {
		Post PostResponse `json:"post"`
	}

	render.JSON(w, response{Post: toPostResponse(post)})
}

func (h *PostHandler) edit(w http.ResponseWriter, r *http.Request) {
	type PostRequest struct {
		Title   string `json:"title" validate:"required,max=200"`
		Content string `json:"content" validate:"required"`
	}

	post, ok := h.locateOwned(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[PostRequest](w, r)
	if err != nil {
		return
	}

	_, err = h.posts.Update(r.Context(), post, data.Title, data.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostFieldsEmpty):
			render.FieldErrors(w, map[string]string{"title": "Title and content must not be blank"})
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) deleteForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.locateOwned(w, r)
	if !ok {
		return
	}

	type response struct {
		Post PostResponse `json:"post"`
	}

	render.JSON(w, response{Post: toPostResponse(post)})
}

func (h *PostHandler) delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.locateOwned(w, r)
	if !ok {
		return
	}

	err := h.posts.Delete(r.Context(), post)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			// Lost a race with another delete, same outcome for the caller
			render.ServiceError(w, "Post not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// locate fetches the post addressed by the path
// A malformed or unknown id is the same thing to the caller: not found
func (h *PostHandler) locate(w http.ResponseWriter, r *http.Request) (models.Post, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Post not found", http.StatusNotFound)
		return models.Post{}, false
	}

	post, err := h.posts.Get(r.Context(), id)
	switch {
	case err == nil:
		return post, true
	case errors.Is(err, apperrors.ErrPostNotFound):
		render.ServiceError(w, "Post not found", http.StatusNotFound)
		return post, false
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return post, false
	}
}

// locateOwned fetches the post and runs the ownership check
// Order matters: a missing post is 404, an existing foreign one is 403
func (h *PostHandler) locateOwned(w http.ResponseWriter, r *http.Request) (models.Post, bool) {
	post, ok := h.locate(w, r)
	if !ok {
		return post, false
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return post, false
	}

	if !authz.CanModify(user, post) {
		render.ServiceError(w, "Only the author may modify this post", http.StatusForbidden)
		return post, false
	}

	return post, true
}
