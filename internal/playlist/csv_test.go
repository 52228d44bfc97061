package playlist

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"iptv-ranker/internal/candidate"
)

func TestWriteCSV(t *testing.T) {
	e := candidate.New("CCTV1", "cctv1", "http://logo", "央视频道", "http://a/1")
	e.Latency = 0.125

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []candidate.Entry{e}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "tvg-name,tvg-id,tvg-logo,group-title,link,speed\n" +
		"CCTV1,cctv1,http://logo,央视频道,http://a/1,0.125\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if buf.String() != "tvg-name,tvg-id,tvg-logo,group-title,link,speed\n" {
		t.Errorf("WriteCSV(nil) = %q", buf.String())
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "ranked export",
			input: "tvg-name,tvg-id,tvg-logo,group-title,link,speed\nA,a,,g,http://a,0.1\nB,,,g,http://b,0.2\n",
			want:  2,
		},
		{
			name:  "ingestion list without speed",
			input: "tvg-name,tvg-id,tvg-logo,group-title,link\nA,a,,g,http://a\n",
			want:  1,
		},
		{
			name:  "reordered columns with bom",
			input: "\ufefflink,tvg-name\nhttp://a,A\n",
			want:  1,
		},
		{
			name:  "rows without link skipped",
			input: "tvg-name,link\nA,\n,http://b\nC,http://c\n",
			want:  1,
		},
		{
			name:  "empty file",
			input: "",
			want:  0,
		},
		{
			name:    "missing link column",
			input:   "tvg-name,speed\nA,0.1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ReadCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(entries) != tt.want {
				t.Errorf("ReadCSV() returned %d entries, want %d", len(entries), tt.want)
			}
		})
	}
}

func TestCSVRoundTripResetsProbeState(t *testing.T) {
	e := candidate.New("CCTV1", "", "", "央视频道", "http://a/1")
	e.Available = candidate.Available
	e.Latency = 0.5

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []candidate.Entry{e}); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.Name != "CCTV1" || got.ID != "CCTV1" || got.Endpoint != "http://a/1" {
		t.Errorf("entry = %+v", got)
	}
	if got.Available != candidate.Unknown || !math.IsInf(got.Latency, 1) {
		t.Errorf("probe state carried over: %+v", got)
	}
}
