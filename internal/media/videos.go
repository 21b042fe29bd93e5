package media

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

const (
	oneHour     = 60 * 60
	cacheExpire = oneHour
	megabyte    = 1024 * 1024

	maxSearchResults = 10
	maxVideos        = 2
)

type Video struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Channel   string `json:"channel"`
	URL       string `json:"url"`
}

// VideoFinder searches YouTube for tutorial videos. Without an API key it
// finds nothing.
type VideoFinder struct {
	service *youtube.Service
	cache   *freecache.Cache
}

func NewVideoFinder(ctx context.Context, apiKey string, opts ...option.ClientOption) (*VideoFinder, error) {
	finder := &VideoFinder{
		cache: freecache.NewCache(10 * megabyte),
	}
	if apiKey == "" {
		log.Warnln("youtube api key not set, video search disabled")
		return finder, nil
	}

	service, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	finder.service = service
	return finder, nil
}

func (f *VideoFinder) ExerciseVideos(ctx context.Context, exerciseName string) ([]Video, error) {
	return f.search(ctx, exerciseName+" exercise tutorial form")
}

func (f *VideoFinder) RecipeVideos(ctx context.Context, mealName string) ([]Video, error) {
	return f.search(ctx, mealName+" recipe how to cook")
}

func (f *VideoFinder) search(ctx context.Context, query string) (_ []Video, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "media.videos.search")
	defer tracing.EndSpanWithErrCheck(span, &err)

	if f.service == nil {
		return []Video{}, nil
	}

	cacheKey := []byte("videos::" + query)
	if cached, err := f.cache.Get(cacheKey); err == nil {
		var videos []Video
		if err := json.Unmarshal(cached, &videos); err == nil {
			log.Tracef("found videos for [%s] in cache", query)
			return videos, nil
		} else {
			log.Errorf("unmarshal cached videos for [%s]: %s", query, err)
		}
	}

	resp, err := f.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxSearchResults).
		Order("viewCount").
		VideoDuration("medium").
		RelevanceLanguage("en").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	videos := make([]Video, 0, maxVideos)
	for _, item := range resp.Items {
		if len(videos) == maxVideos {
			break
		}
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		video := Video{
			VideoID: item.Id.VideoId,
			Title:   item.Snippet.Title,
			Channel: item.Snippet.ChannelTitle,
			URL:     "https://www.youtube.com/embed/" + item.Id.VideoId,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			video.Thumbnail = item.Snippet.Thumbnails.Medium.Url
		}
		videos = append(videos, video)
	}

	if videosJSON, err := json.Marshal(videos); err == nil {
		if err := f.cache.Set(cacheKey, videosJSON, cacheExpire); err != nil {
			log.Errorf("cache videos for [%s]: %s", query, err)
		}
	}

	return videos, nil
}
