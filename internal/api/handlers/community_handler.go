package handlers

import (
	"net/http"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListPosts handles GET /api/posts, optionally filtered by ?farmId=
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	farmID, filtered := queryID(r, "farmId")

	h.state.mu.Lock()
	posts := []entities.Post{}
	for i := len(h.state.posts) - 1; i >= 0; i-- {
		p := h.state.posts[i]
		if filtered && (p.FarmID == nil || *p.FarmID != farmID) {
			continue
		}
		post := *p
		post.CommentCount = h.state.commentCount(p.PostID)
		posts = append(posts, post)
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /api/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if p := h.findPost(w, r); p != nil {
		post := *p
		post.CommentCount = h.state.commentCount(p.PostID)
		respondWithJSON(w, http.StatusOK, post)
	}
}

// CreatePost handles POST /api/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	in, ok := decodePostInput(w, r)
	if !ok {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if in.FarmID != nil && h.state.farm(*in.FarmID) == nil {
		respondWithError(w, http.StatusNotFound, "농장을 찾을 수 없습니다.")
		return
	}
	post := &entities.Post{
		PostID:         h.state.nextID("post"),
		FarmID:         in.FarmID,
		AuthorID:       userID,
		AuthorNickname: h.state.nickname(userID),
		Title:          in.Title,
		Content:        in.Content,
		Tags:           in.Tags,
		CreatedAt:      h.state.timestamp(),
	}
	h.state.posts = append(h.state.posts, post)
	respondWithJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/posts/{id}; only the author may edit
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	in, ok := decodePostInput(w, r)
	if !ok {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	post := h.findPost(w, r)
	if post == nil {
		return
	}
	if post.AuthorID != userID {
		respondWithError(w, http.StatusForbidden, "작성자만 수정할 수 있습니다.")
		return
	}
	post.Title = in.Title
	post.Content = in.Content
	post.Tags = in.Tags
	post.UpdatedAt = h.state.timestamp()
	respondWithJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/{id}; comments go with the post
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	post := h.findPost(w, r)
	if post == nil {
		return
	}
	if post.AuthorID != userID {
		respondWithError(w, http.StatusForbidden, "작성자만 삭제할 수 있습니다.")
		return
	}
	posts := h.state.posts[:0]
	for _, p := range h.state.posts {
		if p != post {
			posts = append(posts, p)
		}
	}
	h.state.posts = posts
	comments := h.state.comments[:0]
	for _, c := range h.state.comments {
		if c.PostID != post.PostID {
			comments = append(comments, c)
		}
	}
	h.state.comments = comments
	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/comments?postId= and answers the flat list in creation order
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	postID, ok := queryID(r, "postId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "게시글을 지정하세요.")
		return
	}
	h.state.mu.Lock()
	comments := []entities.Comment{}
	for _, c := range h.state.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, comments)
}

// CreateComment handles POST /api/comments. A reply's parent must belong to the same post.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in entities.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		respondWithError(w, http.StatusBadRequest, "댓글을 입력하세요.")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if h.state.post(in.PostID) == nil {
		respondWithError(w, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
		return
	}
	if in.ParentID != nil {
		parent := h.state.comment(*in.ParentID)
		if parent == nil || parent.PostID != in.PostID {
			respondWithError(w, http.StatusBadRequest, "답글을 달 댓글을 찾을 수 없습니다.")
			return
		}
	}
	comment := &entities.Comment{
		CommentID:      h.state.nextID("comment"),
		PostID:         in.PostID,
		ParentID:       in.ParentID,
		AuthorID:       userID,
		AuthorNickname: h.state.nickname(userID),
		Content:        in.Content,
		CreatedAt:      h.state.timestamp(),
	}
	h.state.comments = append(h.state.comments, comment)
	respondWithJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/comments/{id}. Replies stay and become orphans.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	comment := h.state.comment(commentID)
	switch {
	case comment == nil:
		respondWithError(w, http.StatusNotFound, "댓글을 찾을 수 없습니다.")
		return
	case comment.AuthorID != userID:
		respondWithError(w, http.StatusForbidden, "작성자만 삭제할 수 있습니다.")
		return
	}
	kept := h.state.comments[:0]
	for _, c := range h.state.comments {
		if c != comment {
			kept = append(kept, c)
		}
	}
	h.state.comments = kept
	w.WriteHeader(http.StatusNoContent)
}

func decodePostInput(w http.ResponseWriter, r *http.Request) (entities.PostInput, bool) {
	var in entities.PostInput
	if !decodeJSON(w, r, &in) {
		return in, false
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		respondWithError(w, http.StatusBadRequest, "제목과 내용을 입력하세요.")
		return in, false
	}
	return in, true
}

// findPost resolves the {id} post. Callers hold state.mu.
func (h *Handler) findPost(w http.ResponseWriter, r *http.Request) *entities.Post {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return nil
	}
	if p := h.state.post(postID); p != nil {
		return p
	}
	respondWithError(w, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
	return nil
}

func (s *State) post(id int64) *entities.Post {
	for _, p := range s.posts {
		if p.PostID == id {
			return p
		}
	}
	return nil
}

func (s *State) comment(id int64) *entities.Comment {
	for _, c := range s.comments {
		if c.CommentID == id {
			return c
		}
	}
	return nil
}

func (s *State) commentCount(postID int64) int {
	n := 0
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}
