package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"iptv-ranker/internal/candidate"
	"iptv-ranker/internal/database"
)

const playlistA = `#EXTM3U
#EXTINF:-1 tvg-name="CCTV1" group-title="央视",CCTV1
http://streams/u1
#EXTINF:-1 tvg-name="更新日期" group-title="公告",更新日期
http://streams/notice
#EXTINF:-1 tvg-name="湖南卫视" group-title="卫视",湖南卫视
http://streams/hunan
`

const playlistB = `#EXTM3U
#EXTINF:-1 tvg-name="CCTV1 duplicate" group-title="央视",CCTV1
http://streams/u1
#EXTINF:-1 tvg-name="CCTV2" group-title="央视",CCTV2
http://streams/u2
#EXTINF:-1 tvg-name="PHP" group-title="央视",PHP
http://streams/live.php?id=3
`

func newSourceServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/a.m3u", func(w http.ResponseWriter, r *http.Request) {
		// Finish after /b.m3u so completion order differs from list order.
		time.Sleep(30 * time.Millisecond)
		fmt.Fprint(w, playlistA)
	})
	mux.HandleFunc("/b.m3u", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, playlistB)
	})
	mux.HandleFunc("/missing.m3u", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow.m3u", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := newSourceServer(t)

	f := NewFetcher(2, 200*time.Millisecond)
	urls := []string{srv.URL + "/a.m3u", srv.URL + "/missing.m3u", srv.URL + "/slow.m3u", ""}
	results := f.Fetch(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(results), len(urls))
	}

	tests := []struct {
		index   int
		wantErr bool
		status  int
	}{
		{0, false, http.StatusOK},
		{1, true, http.StatusNotFound},
		{2, true, 0},
		{3, true, 0},
	}
	for _, tt := range tests {
		r := results[tt.index]
		if r.URL != urls[tt.index] {
			t.Errorf("result %d URL = %q, want %q", tt.index, r.URL, urls[tt.index])
		}
		if (r.Err != nil) != tt.wantErr {
			t.Errorf("result %d error = %v, wantErr %v", tt.index, r.Err, tt.wantErr)
		}
		if r.Status != tt.status {
			t.Errorf("result %d status = %d, want %d", tt.index, r.Status, tt.status)
		}
	}
	if !strings.Contains(string(results[0].Body), "CCTV1") {
		t.Error("body of /a.m3u not returned")
	}
}

func TestFetchMaxBytes(t *testing.T) {
	srv := newSourceServer(t)

	f := NewFetcher(1, time.Second)
	f.MaxBytes = 10
	results := f.Fetch(context.Background(), []string{srv.URL + "/b.m3u"})
	if results[0].Err == nil {
		t.Error("oversized playlist accepted")
	}
}

func TestIngestKeepsListOrder(t *testing.T) {
	srv := newSourceServer(t)
	store := candidate.NewStore()

	cfg := Config{
		URLs:    []string{srv.URL + "/a.m3u", srv.URL + "/missing.m3u", srv.URL + "/b.m3u"},
		Workers: 3,
		Timeout: time.Second,
	}
	stats, err := Ingest(context.Background(), cfg, store)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	want := Stats{Sources: 3, Failed: 1, Parsed: 6, Filtered: 2, Duplicates: 1, Inserted: 3}
	if stats != want {
		t.Errorf("Ingest() stats = %+v, want %+v", stats, want)
	}

	got, ok := store.Lookup("http://streams/u1")
	if !ok {
		t.Fatal("u1 missing from store")
	}
	if got.Name != "CCTV1" || got.Group != "央视频道" {
		t.Errorf("u1 = %+v, want the entry from the first listed source", got)
	}

	all := store.All()
	order := make([]string, len(all))
	for i, e := range all {
		order[i] = e.Endpoint
	}
	wantOrder := []string{"http://streams/u1", "http://streams/hunan", "http://streams/u2"}
	if strings.Join(order, " ") != strings.Join(wantOrder, " ") {
		t.Errorf("store order = %v, want %v", order, wantOrder)
	}
}

func TestIngestLocalFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "valid_streams.csv")
	m3uPath := filepath.Join(dir, "extra.m3u")

	csvData := "tvg-name,tvg-id,tvg-logo,group-title,link,speed\nCCTV1,,,央视频道,http://streams/u1,0.2\n"
	if err := os.WriteFile(csvPath, []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m3uPath, []byte(playlistB), 0o644); err != nil {
		t.Fatal(err)
	}

	store := candidate.NewStore()
	stats, err := Ingest(context.Background(), Config{Files: []string{csvPath, m3uPath}}, store)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if stats.Inserted != 2 || stats.Duplicates != 1 || stats.Filtered != 1 {
		t.Errorf("Ingest() stats = %+v", stats)
	}
}

func TestIngestSQLiteExport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ranked.db")

	previous := candidate.New("CCTV1", "", "", "央视频道", "http://streams/u1")
	previous.Available = candidate.Available
	previous.Latency = 0.2
	if err := database.ExportRanked(ctx, path, []candidate.Entry{previous}, time.Now()); err != nil {
		t.Fatal(err)
	}

	store := candidate.NewStore()
	stats, err := Ingest(ctx, Config{Files: []string{path}}, store)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if stats.Inserted != 1 {
		t.Errorf("Ingest() stats = %+v, want 1 inserted", stats)
	}
	got, ok := store.Lookup("http://streams/u1")
	if !ok || got.Available != candidate.Unknown {
		t.Errorf("Lookup() = %+v, %v; want an unprobed entry", got, ok)
	}
}

func TestIngestUnreadableFile(t *testing.T) {
	store := candidate.NewStore()
	cfg := Config{Files: []string{filepath.Join(t.TempDir(), "missing.csv")}}
	if _, err := Ingest(context.Background(), cfg, store); err == nil {
		t.Error("Ingest() with a missing local file returned no error")
	}
}
