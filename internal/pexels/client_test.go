package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"monogrid/internal/assets"
)

// newTestClient points a client at a test server for both API roots.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURLs(srv.URL, srv.URL))
}

func TestSearchPhotos(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{
			"page": 1, "per_page": 30, "total_results": 1, "next_page": "",
			"photos": [{
				"id": 1181292, "width": 3756, "height": 5627,
				"photographer": "Christina Morillo", "alt": "Woman in office",
				"src": {"original": "https://images.example.com/1181292.jpg",
						"large2x": "https://images.example.com/1181292-2x.jpg"}
			}]
		}`))
	})

	list, err := c.SearchPhotos(context.Background(), SearchOptions{
		Query:       "office",
		Orientation: "portrait",
		Page:        1,
	})
	if err != nil {
		t.Fatalf("SearchPhotos returned error: %v", err)
	}

	if gotPath != "/search" {
		t.Errorf("path = %s, want /search", gotPath)
	}
	if gotAuth != "test-key" {
		t.Errorf("Authorization = %q, want test-key", gotAuth)
	}
	if gotQuery["query"] != "office" || gotQuery["orientation"] != "portrait" {
		t.Errorf("query params = %v", gotQuery)
	}
	if gotQuery["per_page"] != "30" {
		t.Errorf("per_page = %s, want default 30", gotQuery["per_page"])
	}

	if len(list.Photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(list.Photos))
	}
	a := list.Assets()[0]
	if a.Kind != assets.KindPhoto || a.ID != 1181292 || a.Photographer != "Christina Morillo" {
		t.Errorf("mapped asset = %+v", a)
	}
	if a.Src.Original != "https://images.example.com/1181292.jpg" {
		t.Errorf("original tier = %s", a.Src.Original)
	}
}

func TestPerPageClamped(t *testing.T) {
	var gotPerPage string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		w.Write([]byte(`{"photos": []}`))
	})

	if _, err := c.CuratedPhotos(context.Background(), 1, 500); err != nil {
		t.Fatalf("CuratedPhotos returned error: %v", err)
	}
	if gotPerPage != "80" {
		t.Errorf("per_page = %s, want clamped 80", gotPerPage)
	}
}

func TestSearchVideos(t *testing.T) {
	var gotPath string
	var gotColor bool

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, gotColor = r.URL.Query()["color"]
		w.Write([]byte(`{
			"videos": [{
				"id": 857195, "width": 1920, "height": 1080, "duration": 12,
				"image": "https://images.example.com/857195-poster.jpg",
				"user": {"id": 5, "name": "Coverr"},
				"video_files": [
					{"quality": "sd", "link": "https://videos.example.com/857195-sd.mp4"},
					{"quality": "hd", "link": "https://videos.example.com/857195-hd.mp4"}
				]
			}]
		}`))
	})

	list, err := c.SearchVideos(context.Background(), SearchOptions{Query: "ocean", Color: "blue"})
	if err != nil {
		t.Fatalf("SearchVideos returned error: %v", err)
	}

	if gotPath != "/search" {
		t.Errorf("path = %s, want /search", gotPath)
	}
	if gotColor {
		t.Error("color filter should not be sent to the video endpoint")
	}

	a := list.Assets()[0]
	if a.Kind != assets.KindVideo || a.Photographer != "Coverr" {
		t.Errorf("mapped asset = %+v", a)
	}
	if len(a.VideoFiles) != 2 || a.VideoFiles[1].URL != "https://videos.example.com/857195-hd.mp4" {
		t.Errorf("video files = %+v", a.VideoFiles)
	}
}

func TestFeaturedCollections(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/featured" {
			t.Errorf("path = %s, want /collections/featured", r.URL.Path)
		}
		w.Write([]byte(`{
			"page": 1, "per_page": 20, "next_page": "https://api.example.com/next",
			"collections": [{
				"id": "9mp14cx", "title": "Cool Cats",
				"media_count": 88, "photos_count": 80, "videos_count": 8
			}]
		}`))
	})

	list, err := c.FeaturedCollections(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("FeaturedCollections returned error: %v", err)
	}
	if len(list.Collections) != 1 || list.Collections[0].ID != "9mp14cx" {
		t.Errorf("collections = %+v", list.Collections)
	}
	if list.NextPage == "" {
		t.Error("next_page should be preserved")
	}
}

func TestCollectionMediaMixed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/9mp14cx" {
			t.Errorf("path = %s, want /collections/9mp14cx", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": "9mp14cx",
			"media": [
				{"type": "Photo", "id": 12, "photographer": "Ana",
				 "src": {"original": "https://images.example.com/12.jpg"}},
				{"type": "Video", "id": 34, "user": {"name": "Ben"},
				 "video_files": [{"quality": "hd", "link": "https://videos.example.com/34.mp4"}]}
			]
		}`))
	})

	list, err := c.CollectionMedia(context.Background(), "9mp14cx", 1, 30)
	if err != nil {
		t.Fatalf("CollectionMedia returned error: %v", err)
	}

	got := list.Assets()
	if len(got) != 2 {
		t.Fatalf("got %d assets, want 2", len(got))
	}
	if got[0].Kind != assets.KindPhoto || got[0].ID != 12 {
		t.Errorf("first asset = %+v, want photo 12", got[0])
	}
	if got[1].Kind != assets.KindVideo || got[1].Photographer != "Ben" {
		t.Errorf("second asset = %+v, want video by Ben", got[1])
	}
}

func TestCollectionMediaEmptyID(t *testing.T) {
	c := NewClient("test-key")
	if _, err := c.CollectionMedia(context.Background(), "", 1, 30); err == nil {
		t.Fatal("expected error for empty collection id")
	}
}

func TestUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Access to this API has been disallowed"}`, http.StatusForbidden)
	})

	if _, err := c.SearchPhotos(context.Background(), SearchOptions{Query: "x"}); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
