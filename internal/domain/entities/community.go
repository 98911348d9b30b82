package entities

// Post is a community board article, optionally scoped to a farm
type Post struct {
	PostID         int64      `json:"postId"`
	FarmID         *int64     `json:"farmId,omitempty"`
	AuthorID       int64      `json:"authorId"`
	AuthorNickname string     `json:"authorNickname,omitempty"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Tags           []string   `json:"tags,omitempty"`
	CommentCount   int        `json:"commentCount,omitempty"`
	CreatedAt      *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt      *Timestamp `json:"updatedAt,omitempty"`
}

// PostInput is the body of POST /posts and PUT /posts/{id}
type PostInput struct {
	FarmID  *int64   `json:"farmId,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Comment is a comment or, when ParentID is set, a reply
type Comment struct {
	CommentID      int64      `json:"commentId"`
	PostID         int64      `json:"postId"`
	ParentID       *int64     `json:"parentId,omitempty"`
	AuthorID       int64      `json:"authorId"`
	AuthorNickname string     `json:"authorNickname,omitempty"`
	Content        string     `json:"content"`
	CreatedAt      *Timestamp `json:"createdAt,omitempty"`
	Replies        []*Comment `json:"replies,omitempty"`
}

// CommentInput is the body of POST /comments
type CommentInput struct {
	PostID   int64  `json:"postId"`
	ParentID *int64 `json:"parentId,omitempty"`
	Content  string `json:"content"`
}
