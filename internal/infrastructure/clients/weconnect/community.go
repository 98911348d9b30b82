package weconnect

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListPosts returns board posts, scoped to a farm when farmID is set
func (c *HTTPClient) ListPosts(ctx context.Context, farmID *int64) ([]entities.Post, error) {
	var query url.Values
	if farmID != nil {
		query = url.Values{"farmId": []string{strconv.FormatInt(*farmID, 10)}}
	}
	var out []entities.Post
	if err := c.getJSON(ctx, "/posts", query, &out, "게시글을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost returns a single post
func (c *HTTPClient) GetPost(ctx context.Context, postID int64) (*entities.Post, error) {
	out := &entities.Post{}
	if err := c.getJSON(ctx, idPath("/posts/%d", postID), nil, out, "게시글을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost publishes a post
func (c *HTTPClient) CreatePost(ctx context.Context, in entities.PostInput) (*entities.Post, error) {
	out := &entities.Post{}
	if err := c.sendJSON(ctx, http.MethodPost, "/posts", in, out, "게시글을 등록하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePost edits a post
func (c *HTTPClient) UpdatePost(ctx context.Context, postID int64, in entities.PostInput) (*entities.Post, error) {
	out := &entities.Post{}
	if err := c.sendJSON(ctx, http.MethodPut, idPath("/posts/%d", postID), in, out, "게시글을 수정하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePost removes a post
func (c *HTTPClient) DeletePost(ctx context.Context, postID int64) error {
	return c.sendJSON(ctx, http.MethodDelete, idPath("/posts/%d", postID), nil, nil, "게시글을 삭제하지 못했습니다.")
}

// ListComments returns the flat comment list of a post
func (c *HTTPClient) ListComments(ctx context.Context, postID int64) ([]entities.Comment, error) {
	query := url.Values{"postId": []string{strconv.FormatInt(postID, 10)}}
	var out []entities.Comment
	if err := c.getJSON(ctx, "/comments", query, &out, "댓글을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment posts a comment or a reply
func (c *HTTPClient) CreateComment(ctx context.Context, in entities.CommentInput) (*entities.Comment, error) {
	out := &entities.Comment{}
	if err := c.sendJSON(ctx, http.MethodPost, "/comments", in, out, "댓글을 등록하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment removes a comment
func (c *HTTPClient) DeleteComment(ctx context.Context, commentID int64) error {
	return c.sendJSON(ctx, http.MethodDelete, idPath("/comments/%d", commentID), nil, nil, "댓글을 삭제하지 못했습니다.")
}
