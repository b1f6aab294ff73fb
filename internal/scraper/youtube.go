package scraper

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
)

// MaxPageSize is the largest page commentThreads.list will return.
const MaxPageSize = 100

// Page is one page of comment text.
type Page struct {
	Comments      []string
	NextPageToken string
}

// CommentLister fetches a single page of top-level comments for a video.
// An empty pageToken requests the first page.
type CommentLister interface {
	ListComments(ctx context.Context, videoID, pageToken string, maxResults int64) (*Page, error)
}

// YouTubeLister lists comment threads through the YouTube Data API v3.
type YouTubeLister struct {
	service *youtube.Service
}

// NewYouTubeLister builds a lister authenticated with apiKey. Extra client
// options (for example option.WithEndpoint) are applied after the key.
func NewYouTubeLister(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeLister, error) {
	if apiKey == "" {
		return nil, apperrors.NewConfigError("youtube api key is required", nil)
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create youtube client", err)
	}
	return &YouTubeLister{service: svc}, nil
}

// ListComments calls commentThreads.list with part=snippet in plain text.
func (l *YouTubeLister) ListComments(ctx context.Context, videoID, pageToken string, maxResults int64) (*Page, error) {
	call := l.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(maxResults).
		TextFormat("plainText").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		appErr := apperrors.NewNetworkError(fmt.Sprintf("commentThreads.list failed for video %s", videoID), err).
			WithContext("resource", videoID)
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			appErr.WithContext("status", gErr.Code)
		}
		return nil, appErr
	}

	page := &Page{NextPageToken: resp.NextPageToken}
	for _, thread := range resp.Items {
		if text, ok := commentText(thread); ok {
			page.Comments = append(page.Comments, text)
		}
	}
	return page, nil
}

func commentText(thread *youtube.CommentThread) (string, bool) {
	if thread == nil || thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
		return "", false
	}
	s := thread.Snippet.TopLevelComment.Snippet
	if s == nil {
		return "", false
	}
	if s.TextDisplay != "" {
		return s.TextDisplay, true
	}
	return s.TextOriginal, true
}
