package entities

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"
	"unicode/utf8"
)

// DiaryDateLayout is the civil-date form of selectAt
const DiaryDateLayout = "2006-01-02"

// SummaryLength is the rune budget of a diary list summary
const SummaryLength = 80

// DiaryEntry is a dated journal record
type DiaryEntry struct {
	DiaryID   int64      `json:"diaryId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Photo     string     `json:"photo,omitempty"`
	SelectAt  string     `json:"selectAt"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
}

// DisplayDate returns the civil date the entry was written for.
// The server may echo selectAt as a date-time; only its date part is used, no zone conversion happens.
func (d *DiaryEntry) DisplayDate() string {
	s := strings.TrimSpace(d.SelectAt)
	if len(s) >= len(DiaryDateLayout) {
		if _, err := time.Parse(DiaryDateLayout, s[:len(DiaryDateLayout)]); err == nil {
			return s[:len(DiaryDateLayout)]
		}
	}
	if d.CreatedAt != nil && !d.CreatedAt.IsZero() {
		return d.CreatedAt.Format(DiaryDateLayout)
	}
	return s
}

// Summary returns the list preview of the content
func (d *DiaryEntry) Summary() string {
	s := strings.TrimSpace(d.Content)
	if utf8.RuneCountInString(s) <= SummaryLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:SummaryLength]) + "…"
}

// HasPhoto reports whether the entry carries an image
func (d *DiaryEntry) HasPhoto() bool {
	return d.Photo != ""
}

// DiaryMetadata is the JSON part of the multipart diary write
type DiaryMetadata struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	SelectAt string `json:"selectAt"`
}

// DiaryInput is what a caller fills in to create or update an entry
type DiaryInput struct {
	Title    string
	Content  string
	SelectAt string
	Photo    *Photo
}

// Validate checks the input before any request is made
func (in DiaryInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if _, err := time.Parse(DiaryDateLayout, in.SelectAt); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %q", in.SelectAt)
	}
	return nil
}

// Metadata returns the JSON part of the write
func (in DiaryInput) Metadata() DiaryMetadata {
	return DiaryMetadata{
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		SelectAt: in.SelectAt,
	}
}

// Photo is an image file attached to a multipart request
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PhotoFromDataURL decodes a "data:image/png;base64,..." URL into a Photo named after filename.
func PhotoFromDataURL(filename, dataURL string) (*Photo, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URL has no payload")
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	if filename == "" {
		filename = "photo"
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			filename += exts[0]
		}
	}
	return &Photo{Filename: filename, ContentType: mediaType, Data: data}, nil
}
