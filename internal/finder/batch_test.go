package finder

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_channels/internal/table"
)

// stubLookup resolves by username and optionally panics on one.
type stubLookup struct {
	matches map[string]ChannelMatches
	panicOn string
}

func (s *stubLookup) FindChannels(_ context.Context, id Identity) ChannelMatches {
	if id.Username == s.panicOn {
		panic("resolver blew up")
	}
	return s.matches[id.Username]
}

// recordingReporter captures progress callbacks for assertions.
type recordingReporter struct {
	fractions []float64
	statuses  []string
}

func (r *recordingReporter) Progress(f float64) { r.fractions = append(r.fractions, f) }
func (r *recordingReporter) Status(s string)    { r.statuses = append(r.statuses, s) }

const inputCSV = `username,profile_name,url,followers,notes
alice,Alice Streams,https://x.com/alice,1200,keep
bob,Bob Plays,https://x.com/bob,300,
carol,Carol Live,https://x.com/carol,9000,vip
`

func loadInput(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Load(strings.NewReader(inputCSV))
	require.NoError(t, err)
	return tbl
}

func newTestBatch(lookup ChannelLookup) *BatchProcessor {
	b := NewBatchProcessor(lookup)
	b.sleep = noSleep
	return b
}

func TestBatchProcess(t *testing.T) {
	lookup := &stubLookup{matches: map[string]ChannelMatches{
		"alice": {YouTubeURL: "https://www.youtube.com/@alice", YouTubeScore: 90},
		"carol": {TwitchURL: "https://www.twitch.tv/carol", TwitchScore: 75},
	}}
	rep := &recordingReporter{}

	in := loadInput(t)
	out := newTestBatch(lookup).Process(context.Background(), in, rep)

	require.Equal(t, in.Len(), out.Len(), "output row count must equal input row count")

	assert.Equal(t, "https://www.youtube.com/@alice", out.Field(0, "youtube_url"))
	assert.Equal(t, "90", out.Field(0, "youtube_score"))
	assert.Equal(t, "", out.Field(1, "youtube_url"))
	assert.Equal(t, "0", out.Field(1, "twitch_score"))
	assert.Equal(t, "https://www.twitch.tv/carol", out.Field(2, "twitch_url"))

	// Original columns pass through untouched, including extras.
	assert.Equal(t, "Alice Streams", out.Field(0, "profile_name"))
	assert.Equal(t, "vip", out.Field(2, "notes"))

	require.Len(t, rep.fractions, 3)
	assert.InDelta(t, 1.0/3.0, rep.fractions[0], 1e-9)
	assert.InDelta(t, 1.0, rep.fractions[2], 1e-9)
	require.Len(t, rep.statuses, 3)
	assert.Contains(t, rep.statuses[0], "alice")
	assert.Contains(t, rep.statuses[0], "(1/3)")
}

func TestBatchIsolatesPanics(t *testing.T) {
	lookup := &stubLookup{
		matches: map[string]ChannelMatches{
			"alice": {YouTubeURL: "https://www.youtube.com/@alice", YouTubeScore: 88},
			"carol": {TwitchURL: "https://www.twitch.tv/carol", TwitchScore: 66},
		},
		panicOn: "bob",
	}

	in := loadInput(t)
	out := newTestBatch(lookup).Process(context.Background(), in, &recordingReporter{})

	require.Equal(t, 3, out.Len(), "a panicking row must not shrink the batch")

	// The failed row gets an empty result; its neighbors are unaffected.
	assert.Equal(t, "", out.Field(1, "youtube_url"))
	assert.Equal(t, "0", out.Field(1, "youtube_score"))
	assert.Equal(t, "https://www.youtube.com/@alice", out.Field(0, "youtube_url"))
	assert.Equal(t, "https://www.twitch.tv/carol", out.Field(2, "twitch_url"))
}
