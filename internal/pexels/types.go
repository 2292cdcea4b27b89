package pexels

import "monogrid/internal/assets"

// Photo is a still image as the catalog API returns it.
type Photo struct {
	ID             int64         `json:"id"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	URL            string        `json:"url"`
	Photographer   string        `json:"photographer"`
	PhotographerID int64         `json:"photographer_id"`
	AvgColor       string        `json:"avg_color"`
	Src            assets.SrcSet `json:"src"`
	Alt            string        `json:"alt"`
}

// Asset maps the photo into the shared asset model.
func (p Photo) Asset() assets.Asset {
	return assets.Asset{
		ID:           p.ID,
		Kind:         assets.KindPhoto,
		Photographer: p.Photographer,
		Alt:          p.Alt,
		Width:        p.Width,
		Height:       p.Height,
		Src:          p.Src,
	}
}

// VideoUser identifies the uploader of a video.
type VideoUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Video is a motion asset as the catalog API returns it.
type Video struct {
	ID         int64              `json:"id"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	URL        string             `json:"url"`
	Image      string             `json:"image"`
	Duration   int                `json:"duration"`
	User       VideoUser          `json:"user"`
	VideoFiles []assets.VideoFile `json:"video_files"`
}

// Asset maps the video into the shared asset model. The poster image
// doubles as the tiny tier so grid views have something to render.
func (v Video) Asset() assets.Asset {
	return assets.Asset{
		ID:           v.ID,
		Kind:         assets.KindVideo,
		Photographer: v.User.Name,
		Width:        v.Width,
		Height:       v.Height,
		Src:          assets.SrcSet{Tiny: v.Image},
		VideoFiles:   v.VideoFiles,
	}
}

// PhotoList is a page of photo results.
type PhotoList struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	NextPage     string  `json:"next_page"`
	Photos       []Photo `json:"photos"`
}

// Assets returns the page's photos as shared assets.
func (l *PhotoList) Assets() []assets.Asset {
	out := make([]assets.Asset, 0, len(l.Photos))
	for _, p := range l.Photos {
		out = append(out, p.Asset())
	}
	return out
}

// VideoList is a page of video results.
type VideoList struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	NextPage     string  `json:"next_page"`
	Videos       []Video `json:"videos"`
}

// Assets returns the page's videos as shared assets.
func (l *VideoList) Assets() []assets.Asset {
	out := make([]assets.Asset, 0, len(l.Videos))
	for _, v := range l.Videos {
		out = append(out, v.Asset())
	}
	return out
}

// Collection is a curated thematic set maintained upstream. Collection
// ids are opaque strings, unlike photo and video ids.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	MediaCount  int    `json:"media_count"`
	PhotosCount int    `json:"photos_count"`
	VideosCount int    `json:"videos_count"`
}

// CollectionList is a page of featured collections.
type CollectionList struct {
	Page        int          `json:"page"`
	PerPage     int          `json:"per_page"`
	NextPage    string       `json:"next_page"`
	Collections []Collection `json:"collections"`
}

// Media type tags used by collection media listings.
const (
	mediaTypePhoto = "Photo"
	mediaTypeVideo = "Video"
)

// MediaItem is one entry of a collection media listing. The listing
// mixes photos and videos; Type discriminates which fields are set.
type MediaItem struct {
	Type string `json:"type"`

	ID           int64              `json:"id"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Photographer string             `json:"photographer"`
	Alt          string             `json:"alt"`
	Src          assets.SrcSet      `json:"src"`
	Image        string             `json:"image"`
	Duration     int                `json:"duration"`
	User         VideoUser          `json:"user"`
	VideoFiles   []assets.VideoFile `json:"video_files"`
}

// Asset maps the tagged item into the shared asset model.
func (m MediaItem) Asset() assets.Asset {
	if m.Type == mediaTypeVideo {
		return Video{
			ID:         m.ID,
			Width:      m.Width,
			Height:     m.Height,
			Image:      m.Image,
			Duration:   m.Duration,
			User:       m.User,
			VideoFiles: m.VideoFiles,
		}.Asset()
	}
	return Photo{
		ID:           m.ID,
		Width:        m.Width,
		Height:       m.Height,
		Photographer: m.Photographer,
		Alt:          m.Alt,
		Src:          m.Src,
	}.Asset()
}

// MediaList is a page of mixed collection media.
type MediaList struct {
	ID       string      `json:"id"`
	Page     int         `json:"page"`
	PerPage  int         `json:"per_page"`
	NextPage string      `json:"next_page"`
	Media    []MediaItem `json:"media"`
}

// Assets returns the page's items as shared assets, preserving order.
func (l *MediaList) Assets() []assets.Asset {
	out := make([]assets.Asset, 0, len(l.Media))
	for _, m := range l.Media {
		out = append(out, m.Asset())
	}
	return out
}
